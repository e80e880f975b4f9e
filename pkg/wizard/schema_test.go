package wizard

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoadRegistry_BundlesEveryDocumentType(t *testing.T) {
	reg := MustLoadRegistry()
	assert.Equal(t, DocumentTypes(), reg.DocumentTypes())

	for _, d := range reg.DocumentTypes() {
		s, err := reg.Schema(d)
		require.NoError(t, err)
		require.Greater(t, s.StepCount(), 1, d)

		last, err := s.Step(s.LastStep())
		require.NoError(t, err)
		assert.True(t, last.IsReview(), "%s should end on a review step", d)

		for i, step := range s.Steps() {
			assert.Equal(t, i, step.Index)
			for _, id := range step.FieldIDs {
				_, ok := s.Field(id)
				assert.True(t, ok, "%s step %d references %s", d, i, id)
			}
		}
	}
}

func TestFeeWaiverApplicantStep(t *testing.T) {
	s := mustSchema(DocumentFeeWaiver)
	step, err := s.Step(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"fullName", "address", "phoneNumber", "email"}, step.FieldIDs)
	for _, id := range step.FieldIDs {
		f, _ := s.Field(id)
		assert.True(t, f.Required, id)
	}
	assert.Equal(t, ActionGenerateDocument, s.Submit())
	assert.Equal(t, ActionCreateCase, mustSchema(DocumentImmigration).Submit())
}

func TestSchemaReturnsCopies(t *testing.T) {
	s := mustSchema(DocumentExpungement)
	step, _ := s.Step(0)
	step.FieldIDs[0] = "tampered"
	again, _ := s.Step(0)
	assert.Equal(t, "fullName", again.FieldIDs[0])

	f, _ := s.Field("convictionType")
	f.Options[0] = "tampered"
	again2, _ := s.Field("convictionType")
	assert.Equal(t, "arrest_only", again2.Options[0])
}

func TestSchemaStepOutOfRange(t *testing.T) {
	s := mustSchema(DocumentHousing)
	_, err := s.Step(s.StepCount())
	assert.ErrorIs(t, err, ErrStepOutOfRange)
	_, err = s.Step(-1)
	assert.ErrorIs(t, err, ErrStepOutOfRange)
}

func TestLoadRegistry_RejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown field in step",
			body: `
documentType: housing
submit: generate_document
fields:
  - {id: fullName, label: Name, kind: text, required: true}
steps:
  - {label: One, fields: [fullName, ghost]}
`,
		},
		{
			name: "options on text field",
			body: `
documentType: housing
submit: generate_document
fields:
  - {id: fullName, label: Name, kind: text, options: [a]}
steps:
  - {label: One, fields: [fullName]}
`,
		},
		{
			name: "select without options",
			body: `
documentType: housing
submit: generate_document
fields:
  - {id: county, label: County, kind: select}
steps:
  - {label: One, fields: [county]}
`,
		},
		{
			name: "unknown document type",
			body: `
documentType: divorce
submit: generate_document
steps:
  - {label: Review}
`,
		},
		{
			name: "unknown gate",
			body: `
documentType: housing
submit: generate_document
steps:
  - {label: Review, gate: payment}
`,
		},
		{
			name: "unknown kind",
			body: `
documentType: housing
submit: generate_document
fields:
  - {id: photo, label: Photo, kind: file}
steps:
  - {label: One, fields: [photo]}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"bad.yaml": {Data: []byte(tt.body)}}
			_, err := LoadRegistry(fsys)
			assert.Error(t, err)
		})
	}
}

func TestLoadRegistry_RejectsDuplicateDocumentType(t *testing.T) {
	body := []byte(`
documentType: housing
submit: generate_document
steps:
  - {label: Review}
`)
	fsys := fstest.MapFS{
		"a.yaml": {Data: body},
		"b.yaml": {Data: body},
	}
	_, err := LoadRegistry(fsys)
	assert.ErrorContains(t, err, "duplicate document type")
}

func TestParseDocumentType(t *testing.T) {
	d, err := ParseDocumentType("fee_waiver")
	require.NoError(t, err)
	assert.Equal(t, DocumentFeeWaiver, d)

	_, err = ParseDocumentType("divorce")
	assert.ErrorIs(t, err, ErrUnknownDocumentType)
}
