package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Submission is the audit log of accepted wizard submissions.
type Submission struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index:idx_submissions_user_created,priority:1"`
	DocumentType  string         `gorm:"type:varchar(32);not null;index"`
	Action        string         `gorm:"type:varchar(32);not null"`
	ServerId      string         `gorm:"type:varchar(128);not null;uniqueIndex"`
	Values        datatypes.JSON `gorm:"type:jsonb;not null"`
	ReceiptEmail  string         `gorm:"type:varchar(255)"`
	ReceiptSentAt *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime;index:idx_submissions_user_created,priority:2"`
}

func (Submission) TableName() string {
	return "submissions"
}
