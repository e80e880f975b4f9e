package contract

import (
	"context"

	"legalaid-intake-be/internal/entity"
	"legalaid-intake-be/internal/repository/specification"
)

type DashboardCaseRepository interface {
	// Upsert stores the case unless the stored row is already as new or newer.
	Upsert(ctx context.Context, c *entity.DashboardCase) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DashboardCase, error)
}
