package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cyclerent-ledger/internal/logger"
	"cyclerent-ledger/internal/repository"

	_ "github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const lockQuery = `SELECT pg_advisory_xact_lock($1)`

// Store serializes every write transaction behind one transaction scoped
// advisory lock. Reads outside WithTx go straight to the pool and see the
// last committed state.
type Store struct {
	db      *sql.DB
	lockKey int64
	repos
}

type repos struct {
	cycles   repository.CycleRepository
	rentals  repository.RentalRepository
	issues   repository.IssueRepository
	ledger   repository.LedgerRepository
	counters repository.CounterRepository
}

func newRepos(q querier) repos {
	return repos{
		cycles:   NewCycleRepository(q),
		rentals:  NewRentalRepository(q),
		issues:   NewIssueRepository(q),
		ledger:   NewLedgerRepository(q),
		counters: NewCounterRepository(q),
	}
}

func (r repos) Cycles() repository.CycleRepository     { return r.cycles }
func (r repos) Rentals() repository.RentalRepository   { return r.rentals }
func (r repos) Issues() repository.IssueRepository     { return r.issues }
func (r repos) Ledger() repository.LedgerRepository    { return r.ledger }
func (r repos) Counters() repository.CounterRepository { return r.counters }

func NewStore(db *sql.DB, lockKey int64) *Store {
	return &Store{
		db:      db,
		lockKey: lockKey,
		repos:   newRepos(db),
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error("Failed to roll back transaction", "error", rbErr)
		}
	}()

	logger.DatabaseCall("advisory_lock", lockQuery, "key", s.lockKey)
	if _, err = tx.ExecContext(ctx, lockQuery, s.lockKey); err != nil {
		logger.DatabaseResult("advisory_lock", 0, err, "key", s.lockKey)
		return fmt.Errorf("acquire ledger lock: %w", err)
	}

	if err = fn(ctx, newRepos(tx)); err != nil {
		return err
	}

	err = tx.Commit()
	logger.DatabaseResult("commit", 0, err, "key", s.lockKey)
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
