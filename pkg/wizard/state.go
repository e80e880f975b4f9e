package wizard

import "time"

// FormState is the in-progress input of one wizard.
type FormState struct {
	Values          map[string]string `json:"values"`
	ActiveStepIndex int               `json:"active_step_index"`
	DocumentType    DocumentType      `json:"document_type"`
	LastPersistedAt *time.Time        `json:"last_persisted_at,omitempty"`
}

func NewFormState(d DocumentType) FormState {
	return FormState{
		Values:       make(map[string]string),
		DocumentType: d,
	}
}

// Snapshot returns a deep copy that callers may keep or mutate freely.
func (s FormState) Snapshot() FormState {
	values := make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		values[k] = v
	}
	s.Values = values
	if s.LastPersistedAt != nil {
		t := *s.LastPersistedAt
		s.LastPersistedAt = &t
	}
	return s
}

// PersistenceRecord is the draft written to the local key-value store.
type PersistenceRecord struct {
	DocumentType    DocumentType      `json:"document_type"`
	Values          map[string]string `json:"values"`
	ActiveStepIndex int               `json:"active_step_index"`
	SavedAt         time.Time         `json:"saved_at"`
}

// SubmissionResult is the outcome of one submit attempt.
type SubmissionResult struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
	ServerID     string `json:"server_id,omitempty"`
}

// EligibilityResult is the answer of the eligibility collaborator. A negative
// answer is guidance, not an error.
type EligibilityResult struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// GateResult is the outcome of a step gate.
type GateResult struct {
	Gate    Gate   `json:"gate"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Failure string `json:"failure,omitempty"`
}
