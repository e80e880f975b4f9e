package mapper

import (
	"encoding/json"

	"legalaid-intake-be/internal/entity"
	"legalaid-intake-be/internal/model"

	"gorm.io/datatypes"
)

type SubmissionMapper struct{}

func NewSubmissionMapper() *SubmissionMapper {
	return &SubmissionMapper{}
}

func (m *SubmissionMapper) ToEntity(s *model.Submission) *entity.Submission {
	if s == nil {
		return nil
	}
	values := map[string]string{}
	if len(s.Values) > 0 {
		// Rows are only written through ToModel, so the payload is a flat object.
		_ = json.Unmarshal(s.Values, &values)
	}
	return &entity.Submission{
		Id:            s.Id,
		UserId:        s.UserId,
		DocumentType:  s.DocumentType,
		Action:        s.Action,
		ServerId:      s.ServerId,
		Values:        values,
		ReceiptEmail:  s.ReceiptEmail,
		ReceiptSentAt: s.ReceiptSentAt,
		CreatedAt:     s.CreatedAt,
	}
}

func (m *SubmissionMapper) ToModel(s *entity.Submission) *model.Submission {
	if s == nil {
		return nil
	}
	values := s.Values
	if values == nil {
		values = map[string]string{}
	}
	raw, _ := json.Marshal(values)
	return &model.Submission{
		Id:            s.Id,
		UserId:        s.UserId,
		DocumentType:  s.DocumentType,
		Action:        s.Action,
		ServerId:      s.ServerId,
		Values:        datatypes.JSON(raw),
		ReceiptEmail:  s.ReceiptEmail,
		ReceiptSentAt: s.ReceiptSentAt,
		CreatedAt:     s.CreatedAt,
	}
}

func (m *SubmissionMapper) ToEntities(rows []*model.Submission) []*entity.Submission {
	entities := make([]*entity.Submission, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
