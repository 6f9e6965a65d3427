package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/logger"
	"cyclerent-ledger/internal/repository"
)

type cycleRepository struct {
	db querier
}

func NewCycleRepository(db querier) repository.CycleRepository {
	return &cycleRepository{db: db}
}

const cycleColumns = `id, owner, name, description, image_url, price_per_hour, is_available, is_active, created_at, updated_at`

func (r *cycleRepository) Create(ctx context.Context, c *domain.Cycle) error {
	logger.EnterMethod("cycleRepository.Create", "cycleID", c.ID, "owner", c.Owner)

	query := `INSERT INTO cycles (` + cycleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Owner, c.Name, c.Description, c.ImageURL, c.PricePerHour,
		c.IsAvailable, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		logger.ExitMethodWithError("cycleRepository.Create", err, "cycleID", c.ID)
		return err
	}

	logger.ExitMethod("cycleRepository.Create", "cycleID", c.ID)
	return nil
}

func (r *cycleRepository) GetByID(ctx context.Context, id int64) (*domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE id = $1`
	c := &domain.Cycle{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Owner, &c.Name, &c.Description, &c.ImageURL, &c.PricePerHour,
		&c.IsAvailable, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cycle %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *cycleRepository) Update(ctx context.Context, c *domain.Cycle) error {
	logger.EnterMethod("cycleRepository.Update", "cycleID", c.ID)

	query := `UPDATE cycles SET price_per_hour=$1, is_available=$2, is_active=$3, updated_at=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, c.PricePerHour, c.IsAvailable, c.IsActive, c.UpdatedAt, c.ID)
	if err != nil {
		logger.ExitMethodWithError("cycleRepository.Update", err, "cycleID", c.ID)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: cycle %d", domain.ErrNotFound, c.ID)
	}

	logger.ExitMethod("cycleRepository.Update", "cycleID", c.ID)
	return nil
}

func (r *cycleRepository) ListByOwner(ctx context.Context, owner string) ([]int64, error) {
	return queryIDs(ctx, r.db, `SELECT id FROM cycles WHERE owner = $1 ORDER BY id`, owner)
}

func (r *cycleRepository) ListAvailable(ctx context.Context) ([]int64, error) {
	return queryIDs(ctx, r.db, `SELECT id FROM cycles WHERE is_available ORDER BY id`)
}

func queryIDs(ctx context.Context, db querier, query string, args ...any) ([]int64, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
