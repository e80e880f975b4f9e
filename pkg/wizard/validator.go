package wizard

import "strings"

// FieldLookup resolves field ids to their schema. *Schema satisfies it.
type FieldLookup interface {
	Field(id string) (FieldSchema, bool)
}

// Validate reports whether every required field of step has a non-blank value.
// Absent and whitespace-only values count as empty; steps without fields
// always pass. Formats are not checked here.
func Validate(step StepDefinition, fields FieldLookup, values map[string]string) bool {
	return len(MissingFields(step, fields, values)) == 0
}

// MissingFields lists, in step order, the required fields of step that are
// still empty.
func MissingFields(step StepDefinition, fields FieldLookup, values map[string]string) []string {
	var missing []string
	for _, id := range step.FieldIDs {
		f, ok := fields.Field(id)
		if !ok || !f.Required {
			continue
		}
		if strings.TrimSpace(values[id]) == "" {
			missing = append(missing, id)
		}
	}
	return missing
}

// FirstInvalidStep returns the lowest step index that fails validation, or -1
// when the whole form is complete.
func FirstInvalidStep(s *Schema, values map[string]string) (int, []string) {
	for _, step := range s.steps {
		if missing := MissingFields(step, s, values); len(missing) > 0 {
			return step.Index, missing
		}
	}
	return -1, nil
}
