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

type rentalRepository struct {
	db querier
}

func NewRentalRepository(db querier) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, cycle_id, renter, start_time, end_time, total_cost, is_active, is_returned, has_issue_reported`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.CycleID, &rt.Renter, &rt.StartTime, &rt.EndTime, &rt.TotalCost, &rt.IsActive, &rt.IsReturned, &rt.HasIssueReported)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	logger.EnterMethod("rentalRepository.Create", "rentalID", rt.ID, "cycleID", rt.CycleID, "renter", rt.Renter)

	query := `INSERT INTO rentals (` + rentalColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		rt.ID, rt.CycleID, rt.Renter, rt.StartTime, rt.EndTime, rt.TotalCost,
		rt.IsActive, rt.IsReturned, rt.HasIssueReported,
	)
	if err != nil {
		logger.ExitMethodWithError("rentalRepository.Create", err, "rentalID", rt.ID)
		return err
	}

	logger.ExitMethod("rentalRepository.Create", "rentalID", rt.ID)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rental %d", domain.ErrNotFound, id)
	}
	return rt, err
}

// Update never touches total_cost: the escrowed amount is immutable.
func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET is_active=$1, is_returned=$2, has_issue_reported=$3 WHERE id=$4`
	res, err := r.db.ExecContext(ctx, query, rt.IsActive, rt.IsReturned, rt.HasIssueReported, rt.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: rental %d", domain.ErrNotFound, rt.ID)
	}
	return nil
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renter string) ([]int64, error) {
	return queryIDs(ctx, r.db, `SELECT id FROM rentals WHERE renter = $1 ORDER BY id`, renter)
}

func (r *rentalRepository) ListActive(ctx context.Context) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}
