package entity

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	DocumentType  string
	Action        string
	ServerId      string
	Values        map[string]string
	ReceiptEmail  string
	ReceiptSentAt *time.Time
	CreatedAt     time.Time
}
