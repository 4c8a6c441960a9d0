package memory

import (
	"context"
	"errors"

	"hostcal/internal/app/uow"
	"hostcal/internal/domain/occupancy"
)

// ErrFactoryMisconfigured indicates a missing store.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires the in-memory store into a unit-of-work boundary. No
// isolation is provided but the abstraction matches the application ports.
type Factory struct {
	Store *OccupancyStore
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Store == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{store: f.Store}, nil
}

type Unit struct {
	store *OccupancyStore
}

func (u *Unit) Occupancy() occupancy.Reader { return u.store }
func (u *Unit) Blocks() occupancy.Writer    { return u.store }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }

var (
	_ uow.UnitOfWork = (*Unit)(nil)
	_ uow.UoWFactory = Factory{}
)
