package mapper

import (
	"legalaid-intake-be/internal/entity"
	"legalaid-intake-be/internal/model"
	"legalaid-intake-be/pkg/dashboard"

	"github.com/google/uuid"
)

type DashboardCaseMapper struct{}

func NewDashboardCaseMapper() *DashboardCaseMapper {
	return &DashboardCaseMapper{}
}

func (m *DashboardCaseMapper) ToEntity(c *model.DashboardCase) *entity.DashboardCase {
	if c == nil {
		return nil
	}
	return &entity.DashboardCase{
		CaseId:       c.CaseId,
		UserId:       c.UserId,
		Title:        c.Title,
		DocumentType: c.DocumentType,
		Status:       c.Status,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (m *DashboardCaseMapper) ToModel(c *entity.DashboardCase) *model.DashboardCase {
	if c == nil {
		return nil
	}
	return &model.DashboardCase{
		CaseId:       c.CaseId,
		UserId:       c.UserId,
		Title:        c.Title,
		DocumentType: c.DocumentType,
		Status:       c.Status,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (m *DashboardCaseMapper) ToEntities(rows []*model.DashboardCase) []*entity.DashboardCase {
	entities := make([]*entity.DashboardCase, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

// ToState folds stored rows into a dashboard state in canonical order.
func (m *DashboardCaseMapper) ToState(rows []*entity.DashboardCase) dashboard.State {
	events := make([]dashboard.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, dashboard.Event{Kind: dashboard.KindCaseUpdated, Case: m.ToCase(r)})
	}
	state := dashboard.Rebuild(events)
	if state.Cases == nil {
		state.Cases = []dashboard.Case{}
	}
	return state
}

func (m *DashboardCaseMapper) ToCase(c *entity.DashboardCase) dashboard.Case {
	return dashboard.Case{
		ID:           c.CaseId,
		Title:        c.Title,
		DocumentType: c.DocumentType,
		Status:       c.Status,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (m *DashboardCaseMapper) FromCase(userId uuid.UUID, c dashboard.Case) *entity.DashboardCase {
	return &entity.DashboardCase{
		CaseId:       c.ID,
		UserId:       userId,
		Title:        c.Title,
		DocumentType: c.DocumentType,
		Status:       c.Status,
		UpdatedAt:    c.UpdatedAt,
	}
}
