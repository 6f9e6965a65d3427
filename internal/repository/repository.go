package repository

import (
	"context"

	"cyclerent-ledger/internal/domain"
)

// Lookups of unknown ids return an error wrapping domain.ErrNotFound.

type CycleRepository interface {
	Create(ctx context.Context, cycle *domain.Cycle) error
	GetByID(ctx context.Context, id int64) (*domain.Cycle, error)
	Update(ctx context.Context, cycle *domain.Cycle) error
	ListByOwner(ctx context.Context, owner string) ([]int64, error)
	ListAvailable(ctx context.Context) ([]int64, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListByRenter(ctx context.Context, renter string) ([]int64, error)
	ListActive(ctx context.Context) ([]domain.Rental, error)
}

type IssueRepository interface {
	Create(ctx context.Context, report *domain.IssueReport) error
	GetByRentalID(ctx context.Context, rentalID int64) (*domain.IssueReport, error)
	Update(ctx context.Context, report *domain.IssueReport) error
	ListUnresolved(ctx context.Context) ([]int64, error)
}

type LedgerRepository interface {
	// Append records the entry and moves Amount between the running
	// balances of From and To.
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	ListByRental(ctx context.Context, rentalID int64) ([]domain.LedgerEntry, error)
	GetBalance(ctx context.Context, account string) (int64, error)
}

type CounterRepository interface {
	// Next increments the named counter and returns the new value.
	Next(ctx context.Context, name string) (int64, error)
	Get(ctx context.Context, name string) (int64, error)
}

// Tx is a view of the ledger state. Outside WithTx it reads the last
// committed state; inside WithTx it also sees the transaction's own writes.
type Tx interface {
	Cycles() CycleRepository
	Rentals() RentalRepository
	Issues() IssueRepository
	Ledger() LedgerRepository
	Counters() CounterRepository
}

// Store is the durable ledger state. WithTx runs fn as the only writer; the
// writes become visible together when fn returns nil and are discarded
// when it returns an error.
type Store interface {
	Tx
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}
