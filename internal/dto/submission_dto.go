package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionResponse struct {
	Id            uuid.UUID         `json:"id"`
	DocumentType  string            `json:"document_type"`
	Action        string            `json:"action"`
	ServerId      string            `json:"server_id"`
	Values        map[string]string `json:"values,omitempty"`
	ReceiptSentAt *time.Time        `json:"receipt_sent_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type SubmissionListResponse struct {
	Items []SubmissionResponse `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
