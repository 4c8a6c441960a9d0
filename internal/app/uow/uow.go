package uow

import (
	"context"

	"hostcal/internal/domain/occupancy"
)

// UnitOfWork coordinates store access inside one transaction boundary.
type UnitOfWork interface {
	Occupancy() occupancy.Reader
	Blocks() occupancy.Writer

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// ContextInjector is implemented by units that must bind driver state, such
// as a database session, into the request context so repository calls run
// inside the transaction.
type ContextInjector interface {
	InjectContext(ctx context.Context) context.Context
}

// BindContext applies the unit's context injection (when it has any) and
// stashes the unit, so callers that begin their own unit get the same
// transactional context the command middleware builds.
func BindContext(ctx context.Context, unit UnitOfWork) context.Context {
	if injector, ok := unit.(ContextInjector); ok {
		ctx = injector.InjectContext(ctx)
	}
	return ContextWithUnitOfWork(ctx, unit)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
