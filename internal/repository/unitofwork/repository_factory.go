package unitofwork

import "context"

// RepositoryFactory hands out a fresh UnitOfWork per message or request.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
