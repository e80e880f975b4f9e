package wizard

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.yaml
var embeddedSchemas embed.FS

// Schema is the immutable step and field table of one document type.
type Schema struct {
	documentType DocumentType
	label        string
	submit       SubmitAction
	fields       map[string]FieldSchema
	fieldOrder   []string
	steps        []StepDefinition
}

func (s *Schema) DocumentType() DocumentType { return s.documentType }
func (s *Schema) Label() string              { return s.label }
func (s *Schema) Submit() SubmitAction       { return s.submit }
func (s *Schema) StepCount() int             { return len(s.steps) }
func (s *Schema) LastStep() int              { return len(s.steps) - 1 }

// Step returns a copy of the step at index i.
func (s *Schema) Step(i int) (StepDefinition, error) {
	if i < 0 || i >= len(s.steps) {
		return StepDefinition{}, fmt.Errorf("%w: %d", ErrStepOutOfRange, i)
	}
	return s.steps[i].clone(), nil
}

func (s *Schema) Steps() []StepDefinition {
	out := make([]StepDefinition, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.clone()
	}
	return out
}

func (s *Schema) Field(id string) (FieldSchema, bool) {
	f, ok := s.fields[id]
	if !ok {
		return FieldSchema{}, false
	}
	return f.clone(), true
}

// Fields returns the field schemas in declaration order.
func (s *Schema) Fields() []FieldSchema {
	out := make([]FieldSchema, 0, len(s.fieldOrder))
	for _, id := range s.fieldOrder {
		out = append(out, s.fields[id].clone())
	}
	return out
}

// Registry maps document types to their schemas.
type Registry struct {
	schemas map[DocumentType]*Schema
}

func (r *Registry) Schema(d DocumentType) (*Schema, error) {
	s, ok := r.schemas[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, d)
	}
	return s, nil
}

// DocumentTypes lists the registered types in the canonical order.
func (r *Registry) DocumentTypes() []DocumentType {
	out := make([]DocumentType, 0, len(r.schemas))
	for _, d := range documentTypes {
		if _, ok := r.schemas[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

type schemaFile struct {
	DocumentType string `yaml:"documentType"`
	Label        string `yaml:"label"`
	Submit       string `yaml:"submit"`
	Fields       []struct {
		ID       string   `yaml:"id"`
		Label    string   `yaml:"label"`
		Kind     string   `yaml:"kind"`
		Required bool     `yaml:"required"`
		Options  []string `yaml:"options"`
	} `yaml:"fields"`
	Steps []struct {
		Label  string   `yaml:"label"`
		Fields []string `yaml:"fields"`
		Gate   string   `yaml:"gate"`
	} `yaml:"steps"`
}

// LoadRegistry parses every *.yaml file of fsys into a Registry. Any table
// referencing an undeclared field, declaring options on a non-select field or
// defining a document type twice is rejected.
func LoadRegistry(fsys fs.FS) (*Registry, error) {
	reg := &Registry{schemas: make(map[DocumentType]*Schema)}

	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("wizard: list schemas: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("wizard: read %s: %w", name, err)
		}
		schema, err := parseSchema(data)
		if err != nil {
			return nil, fmt.Errorf("wizard: %s: %w", name, err)
		}
		if _, dup := reg.schemas[schema.documentType]; dup {
			return nil, fmt.Errorf("wizard: %s: duplicate document type %q", name, schema.documentType)
		}
		reg.schemas[schema.documentType] = schema
	}
	return reg, nil
}

func parseSchema(data []byte) (*Schema, error) {
	var raw schemaFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	docType, err := ParseDocumentType(raw.DocumentType)
	if err != nil {
		return nil, err
	}

	submit := SubmitAction(raw.Submit)
	switch submit {
	case ActionGenerateDocument, ActionCreateCase:
	default:
		return nil, fmt.Errorf("unknown submit action %q", raw.Submit)
	}

	s := &Schema{
		documentType: docType,
		label:        raw.Label,
		submit:       submit,
		fields:       make(map[string]FieldSchema, len(raw.Fields)),
	}

	for _, rf := range raw.Fields {
		kind, err := ParseFieldKind(rf.Kind)
		if err != nil {
			return nil, err
		}
		f := FieldSchema{
			ID:       strings.TrimSpace(rf.ID),
			Label:    rf.Label,
			Kind:     kind,
			Required: rf.Required,
			Options:  rf.Options,
		}
		if err := f.check(); err != nil {
			return nil, err
		}
		if _, dup := s.fields[f.ID]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.ID)
		}
		s.fields[f.ID] = f
		s.fieldOrder = append(s.fieldOrder, f.ID)
	}

	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("document type %q defines no steps", docType)
	}
	for i, rs := range raw.Steps {
		seen := make(map[string]struct{}, len(rs.Fields))
		for _, id := range rs.Fields {
			if _, ok := s.fields[id]; !ok {
				return nil, fmt.Errorf("step %d references %w %q", i, ErrUnknownField, id)
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("step %d lists field %q twice", i, id)
			}
			seen[id] = struct{}{}
		}
		gate := Gate(rs.Gate)
		switch gate {
		case GateNone, GateEligibility, GateTemplate:
		default:
			return nil, fmt.Errorf("step %d: unknown gate %q", i, rs.Gate)
		}
		s.steps = append(s.steps, StepDefinition{
			Index:    i,
			Label:    rs.Label,
			FieldIDs: append([]string{}, rs.Fields...),
			Gate:     gate,
		})
	}
	return s, nil
}

// EmbeddedSchemas returns the bundled schema tables.
func EmbeddedSchemas() fs.FS {
	sub, err := fs.Sub(embeddedSchemas, "schemas")
	if err != nil {
		panic(err)
	}
	return sub
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// MustLoadRegistry loads the bundled tables once and panics if they are
// inconsistent.
func MustLoadRegistry() *Registry {
	defaultOnce.Do(func() {
		reg, err := LoadRegistry(EmbeddedSchemas())
		if err != nil {
			panic(err)
		}
		for _, d := range documentTypes {
			if _, ok := reg.schemas[d]; !ok {
				panic(fmt.Sprintf("wizard: no schema bundled for %s", d))
			}
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}
