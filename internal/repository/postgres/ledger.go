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

type ledgerRepository struct {
	db querier
}

func NewLedgerRepository(db querier) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

const balanceUpsert = `INSERT INTO account_balances (account, balance) VALUES ($1, $2)
	ON CONFLICT (account) DO UPDATE SET balance = account_balances.balance + EXCLUDED.balance`

// Append must run inside WithTx so the entry and both balance moves commit together.
func (r *ledgerRepository) Append(ctx context.Context, e *domain.LedgerEntry) error {
	logger.EnterMethod("ledgerRepository.Append", "rentalID", e.RentalID, "type", e.Type, "amount", e.Amount)
	if e.Amount < 0 {
		return fmt.Errorf("%w: negative ledger amount", domain.ErrInvalidInput)
	}

	query := `INSERT INTO ledger_entries (id, rental_id, type, from_account, to_account, amount, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, e.ID, e.RentalID, e.Type, e.From, e.To, e.Amount, e.CreatedAt); err != nil {
		logger.ExitMethodWithError("ledgerRepository.Append", err, "rentalID", e.RentalID)
		return err
	}
	if _, err := r.db.ExecContext(ctx, balanceUpsert, e.From, -e.Amount); err != nil {
		logger.ExitMethodWithError("ledgerRepository.Append", err, "account", e.From)
		return err
	}
	if _, err := r.db.ExecContext(ctx, balanceUpsert, e.To, e.Amount); err != nil {
		logger.ExitMethodWithError("ledgerRepository.Append", err, "account", e.To)
		return err
	}

	logger.ExitMethod("ledgerRepository.Append", "entryID", e.ID)
	return nil
}

func (r *ledgerRepository) ListByRental(ctx context.Context, rentalID int64) ([]domain.LedgerEntry, error) {
	query := `SELECT id, rental_id, type, from_account, to_account, amount, created_at
	          FROM ledger_entries WHERE rental_id = $1 ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.RentalID, &e.Type, &e.From, &e.To, &e.Amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ledgerRepository) GetBalance(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `SELECT balance FROM account_balances WHERE account = $1`, account).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return balance, err
}
