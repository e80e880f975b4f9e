package unitofwork

import (
	"context"

	"legalaid-intake-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SubmissionRepository() contract.SubmissionRepository
	DashboardCaseRepository() contract.DashboardCaseRepository
}
