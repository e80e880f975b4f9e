package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByDocumentType struct {
	DocumentType string
}

func (s ByDocumentType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_type = ?", s.DocumentType)
}

type ByServerID struct {
	ServerID string
}

func (s ByServerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("server_id = ?", s.ServerID)
}

// ReceiptPending matches submissions with an address but no receipt yet.
type ReceiptPending struct{}

func (s ReceiptPending) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("receipt_email <> '' AND receipt_sent_at IS NULL")
}

type CreatedAfter struct {
	Time time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at > ?", s.Time)
}
