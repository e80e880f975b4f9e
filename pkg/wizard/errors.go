package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation          = errors.New("wizard: validation failed")
	ErrUnknownDocumentType = errors.New("wizard: unknown document type")
	ErrUnknownField        = errors.New("wizard: unknown field")
	ErrInvalidOption       = errors.New("wizard: value is not one of the field options")
	ErrStepOutOfRange      = errors.New("wizard: step index out of range")
	ErrAtFirstStep         = errors.New("wizard: already on the first step")
	ErrSubmissionInFlight  = errors.New("wizard: submission in progress")
	ErrInvalidTransition   = errors.New("wizard: invalid transition")
)

// ValidationError reports the required fields of a step that are still empty.
// It is local and synchronous and is never sent to the server.
type ValidationError struct {
	Step    int
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("wizard: step %d: %s", e.Step, e.Reason)
	}
	return fmt.Sprintf("wizard: step %d: missing required fields: %s", e.Step, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
