package model

import (
	"time"

	"github.com/google/uuid"
)

// DashboardCase is the persisted projection of case events per user. UpdatedAt
// comes from the event, not from the database clock.
type DashboardCase struct {
	CaseId       string    `gorm:"type:varchar(128);primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"type:varchar(255)"`
	DocumentType string    `gorm:"type:varchar(32)"`
	Status       string    `gorm:"type:varchar(32);not null"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (DashboardCase) TableName() string {
	return "dashboard_cases"
}
