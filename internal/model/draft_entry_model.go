package model

import "time"

// DraftEntry backs the Postgres key-value draft store.
type DraftEntry struct {
	Key       string     `gorm:"type:varchar(255);primaryKey"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (DraftEntry) TableName() string {
	return "draft_entries"
}
