package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cyclerent-ledger/internal/repository"
)

type counterRepository struct {
	db querier
}

func NewCounterRepository(db querier) repository.CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.QueryRowContext(ctx, `UPDATE ledger_counters SET value = value + 1 WHERE name = $1 RETURNING value`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("unknown counter %q", name)
	}
	return value, err
}

func (r *counterRepository) Get(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.QueryRowContext(ctx, `SELECT value FROM ledger_counters WHERE name = $1`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return value, err
}
