package dto

import (
	"time"

	"legalaid-intake-be/pkg/wizard"
)

type FieldResponse struct {
	Id       string   `json:"id"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type StepResponse struct {
	Index  int             `json:"index"`
	Label  string          `json:"label"`
	Gate   string          `json:"gate,omitempty"`
	Review bool            `json:"review"`
	Fields []FieldResponse `json:"fields"`
}

type SchemaResponse struct {
	DocumentType string         `json:"document_type"`
	Label        string         `json:"label"`
	Submit       string         `json:"submit"`
	Steps        []StepResponse `json:"steps"`
}

type WizardStateResponse struct {
	DocumentType    string            `json:"document_type"`
	Phase           string            `json:"phase"`
	ActiveStepIndex int               `json:"active_step_index"`
	StepCount       int               `json:"step_count"`
	Values          map[string]string `json:"values"`
	LastPersistedAt *time.Time        `json:"last_persisted_at,omitempty"`
}

type SetFieldsRequest struct {
	Values map[string]string `json:"values" validate:"required,min=1"`
}

type JumpRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

type NextResponse struct {
	Advanced   bool                     `json:"advanced"`
	Gate       *wizard.GateResult       `json:"gate,omitempty"`
	Submission *wizard.SubmissionResult `json:"submission,omitempty"`
	State      *WizardStateResponse     `json:"state"`
}

// SubmissionCompletedMessage is published in-process after a successful
// submission.
type SubmissionCompletedMessage struct {
	UserId       string            `json:"user_id"`
	DocumentType string            `json:"document_type"`
	Action       string            `json:"action"`
	ServerId     string            `json:"server_id"`
	Values       map[string]string `json:"values"`
	SubmittedAt  time.Time         `json:"submitted_at"`
}
