package mapper

import (
	"testing"

	"legalaid-intake-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSubmissionMapper_ValuesAsJSON(t *testing.T) {
	m := NewSubmissionMapper()
	s := &entity.Submission{Id: uuid.New(), DocumentType: "housing", Values: map[string]string{"fullName": "A"}}

	row := m.ToModel(s)
	assert.JSONEq(t, `{"fullName":"A"}`, string(row.Values))
	assert.Equal(t, s.Values, m.ToEntity(row).Values)

	empty := m.ToModel(&entity.Submission{})
	assert.JSONEq(t, `{}`, string(empty.Values))
	assert.Nil(t, m.ToEntity(nil))
}
