package wizard

import (
	"fmt"
	"strings"
)

// FieldKind is the input kind a field is rendered with.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindDate     FieldKind = "date"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindTel      FieldKind = "tel"
	KindEmail    FieldKind = "email"
)

func ParseFieldKind(raw string) (FieldKind, error) {
	switch k := FieldKind(strings.TrimSpace(raw)); k {
	case KindText, KindTextarea, KindDate, KindNumber, KindSelect, KindTel, KindEmail:
		return k, nil
	default:
		return "", fmt.Errorf("wizard: unknown field kind %q", raw)
	}
}

// FieldSchema is the presentation metadata of one field. Options is only set
// for KindSelect.
type FieldSchema struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// AllowsValue reports whether value may be stored for this field. Only select
// fields restrict their values; blank always clears.
func (f FieldSchema) AllowsValue(value string) bool {
	if f.Kind != KindSelect || strings.TrimSpace(value) == "" {
		return true
	}
	for _, opt := range f.Options {
		if opt == value {
			return true
		}
	}
	return false
}

func (f FieldSchema) clone() FieldSchema {
	if f.Options != nil {
		f.Options = append([]string(nil), f.Options...)
	}
	return f
}

func (f FieldSchema) check() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("field id is required")
	}
	if f.Kind == KindSelect && len(f.Options) == 0 {
		return fmt.Errorf("select field %q has no options", f.ID)
	}
	if f.Kind != KindSelect && len(f.Options) > 0 {
		return fmt.Errorf("field %q of kind %s cannot declare options", f.ID, f.Kind)
	}
	return nil
}

// StepDefinition is one page of a wizard. A step without fields is a review
// step and always validates.
type StepDefinition struct {
	Index    int      `json:"index"`
	Label    string   `json:"label"`
	FieldIDs []string `json:"field_ids"`
	Gate     Gate     `json:"gate,omitempty"`
}

func (s StepDefinition) IsReview() bool {
	return len(s.FieldIDs) == 0
}

func (s StepDefinition) clone() StepDefinition {
	s.FieldIDs = append([]string{}, s.FieldIDs...)
	return s
}
