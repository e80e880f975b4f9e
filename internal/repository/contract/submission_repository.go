package contract

import (
	"context"
	"time"

	"legalaid-intake-be/internal/entity"
	"legalaid-intake-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) error
	MarkReceiptSent(ctx context.Context, id uuid.UUID, at time.Time) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Submission, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Submission, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
