package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/repository"

	"github.com/lib/pq"
)

type issueRepository struct {
	db querier
}

func NewIssueRepository(db querier) repository.IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) Create(ctx context.Context, rep *domain.IssueReport) error {
	query := `INSERT INTO issue_reports (rental_id, reporter, description, report_time, is_resolved, refund_processed, resolved_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, rep.RentalID, rep.Reporter, rep.Description, rep.ReportTime, rep.IsResolved, rep.RefundProcessed, rep.ResolvedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: rental %d", domain.ErrAlreadyReported, rep.RentalID)
	}
	return err
}

func (r *issueRepository) GetByRentalID(ctx context.Context, rentalID int64) (*domain.IssueReport, error) {
	query := `SELECT rental_id, reporter, description, report_time, is_resolved, refund_processed, resolved_at
	          FROM issue_reports WHERE rental_id = $1`
	rep := &domain.IssueReport{}
	var resolvedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, rentalID).Scan(
		&rep.RentalID, &rep.Reporter, &rep.Description, &rep.ReportTime, &rep.IsResolved, &rep.RefundProcessed, &resolvedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: issue report for rental %d", domain.ErrNotFound, rentalID)
	}
	if err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		rep.ResolvedAt = &resolvedAt.Time
	}
	return rep, nil
}

func (r *issueRepository) Update(ctx context.Context, rep *domain.IssueReport) error {
	query := `UPDATE issue_reports SET is_resolved=$1, refund_processed=$2, resolved_at=$3 WHERE rental_id=$4`
	res, err := r.db.ExecContext(ctx, query, rep.IsResolved, rep.RefundProcessed, rep.ResolvedAt, rep.RentalID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: issue report for rental %d", domain.ErrNotFound, rep.RentalID)
	}
	return nil
}

func (r *issueRepository) ListUnresolved(ctx context.Context) ([]int64, error) {
	return queryIDs(ctx, r.db, `SELECT rental_id FROM issue_reports WHERE NOT is_resolved ORDER BY report_time, rental_id`)
}
