package wizard

import "fmt"

// DocumentType selects which step and field tables apply to a wizard.
type DocumentType string

const (
	DocumentExpungement DocumentType = "expungement"
	DocumentHousing     DocumentType = "housing"
	DocumentFeeWaiver   DocumentType = "fee_waiver"
	DocumentImmigration DocumentType = "immigration"
)

var documentTypes = []DocumentType{
	DocumentExpungement,
	DocumentHousing,
	DocumentFeeWaiver,
	DocumentImmigration,
}

// DocumentTypes lists every supported document type in a stable order.
func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

func (d DocumentType) Valid() bool {
	for _, known := range documentTypes {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDocumentType maps a path or payload value onto a DocumentType.
func ParseDocumentType(raw string) (DocumentType, error) {
	d := DocumentType(raw)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, raw)
	}
	return d, nil
}

// SubmitAction names the collaborator call made on final submission.
type SubmitAction string

const (
	ActionGenerateDocument SubmitAction = "generate_document"
	ActionCreateCase       SubmitAction = "create_case"
)

// Gate names an asynchronous check that must pass before Next leaves a step.
type Gate string

const (
	GateNone        Gate = ""
	GateEligibility Gate = "eligibility"
	GateTemplate    Gate = "template"
)
