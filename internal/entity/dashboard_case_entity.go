package entity

import (
	"time"

	"github.com/google/uuid"
)

type DashboardCase struct {
	CaseId       string
	UserId       uuid.UUID
	Title        string
	DocumentType string
	Status       string
	UpdatedAt    time.Time
}
