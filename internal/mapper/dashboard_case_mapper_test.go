package mapper

import (
	"testing"
	"time"

	"legalaid-intake-be/internal/entity"
	"legalaid-intake-be/pkg/dashboard"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDashboardCaseMapper_ToState(t *testing.T) {
	m := NewDashboardCaseMapper()
	owner := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := []*entity.DashboardCase{
		{CaseId: "b", UserId: owner, Status: "open", UpdatedAt: base},
		{CaseId: "a", UserId: owner, Status: "closed", UpdatedAt: base.Add(time.Hour)},
		{CaseId: "c", UserId: owner, Status: "open", UpdatedAt: base},
	}

	want := dashboard.State{Cases: []dashboard.Case{
		{ID: "a", Status: "closed", UpdatedAt: base.Add(time.Hour)},
		{ID: "b", Status: "open", UpdatedAt: base},
		{ID: "c", Status: "open", UpdatedAt: base},
	}}
	if diff := cmp.Diff(want, m.ToState(rows)); diff != "" {
		t.Errorf("ToState mismatch (-want +got):\n%s", diff)
	}

	assert.NotNil(t, m.ToState(nil).Cases)
}

func TestDashboardCaseMapper_RoundTripCase(t *testing.T) {
	m := NewDashboardCaseMapper()
	owner := uuid.New()
	c := dashboard.Case{ID: "c-1", Title: "Asylum", DocumentType: "immigration", Status: "open", UpdatedAt: time.Unix(100, 0).UTC()}

	e := m.FromCase(owner, c)
	assert.Equal(t, owner, e.UserId)
	assert.Equal(t, c, m.ToCase(m.ToEntity(m.ToModel(e))))
}
