package postgres

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/logger"
	"cyclerent-ledger/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db, 42), mock
}

func TestStore_WithTx_Commit(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("UPDATE ledger_counters").WithArgs(domain.CounterCycles).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(1))
	mock.ExpectExec("INSERT INTO cycles").
		WithArgs(int64(1), "alice", "Bike", "Road bike", "", int64(10), true, true, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		id, err := tx.Counters().Next(ctx, domain.CounterCycles)
		if err != nil {
			return err
		}
		return tx.Cycles().Create(ctx, &domain.Cycle{
			ID: id, Owner: "alice", Name: "Bike", Description: "Road bike", PricePerHour: 10,
			IsAvailable: true, IsActive: true, CreatedAt: now, UpdatedAt: now,
		})
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithTx_LogsResult(t *testing.T) {
	var buf bytes.Buffer
	logger.InitializeWithWriter("debug", "text", &buf)
	t.Cleanup(func() { logger.Initialize("info", "text") })

	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit transaction")
	assert.Contains(t, buf.String(), "Database call failed")
	assert.Contains(t, buf.String(), "operation=commit")
	assert.NoError(t, mock.ExpectationsWereMet())

	buf.Reset()
	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error { return nil }))
	assert.Contains(t, buf.String(), "Database call succeeded")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithTx_RollbackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("Callback error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			return domain.ErrCycleUnavailable
		})
		assert.ErrorIs(t, err, domain.ErrCycleUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Storage failure mid transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO ledger_entries").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO account_balances").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			return tx.Ledger().Append(ctx, &domain.LedgerEntry{ID: "e1", RentalID: 1, From: "bob", To: domain.EscrowAccount, Amount: 20})
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lock failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		called := false
		err := store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			called = true
			return nil
		})
		assert.Error(t, err)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCycleRepository_GetByID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "owner", "name", "description", "image_url", "price_per_hour", "is_available", "is_active", "created_at", "updated_at"}).
			AddRow(1, "alice", "Bike", "Road bike", "https://img", 10, true, true, time.Now(), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM cycles WHERE id = \\$1").WithArgs(int64(1)).WillReturnRows(rows)

		c, err := store.Cycles().GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "alice", c.Owner)
		assert.Equal(t, int64(10), c.PricePerHour)
		assert.True(t, c.IsAvailable)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM cycles WHERE id = \\$1").WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.Cycles().GetByID(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCycleRepository_Indexes(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id FROM cycles WHERE owner = \\$1 ORDER BY id").WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(4))
	ids, err := store.Cycles().ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids)

	mock.ExpectQuery("SELECT id FROM cycles WHERE is_available ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	ids, err = store.Cycles().ListAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCycleRepository_UpdateMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE cycles SET").WillReturnResult(sqlmock.NewResult(0, 0))
	err := store.Cycles().Update(context.Background(), &domain.Cycle{ID: 5, PricePerHour: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRentalRepository_GetByID(t *testing.T) {
	store, mock := newMockStore(t)
	start := time.Unix(1_700_000_000, 0)

	rows := sqlmock.NewRows([]string{"id", "cycle_id", "renter", "start_time", "end_time", "total_cost", "is_active", "is_returned", "has_issue_reported"}).
		AddRow(1, 2, "bob", start, start.Add(2*time.Hour), 20, true, false, false)
	mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").WithArgs(int64(1)).WillReturnRows(rows)

	rt, err := store.Rentals().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rt.CycleID)
	assert.Equal(t, int64(20), rt.TotalCost)
	assert.Equal(t, domain.RentalStatusActive, rt.Status())
}

func TestRentalRepository_ListActive(t *testing.T) {
	store, mock := newMockStore(t)
	start := time.Unix(1_700_000_000, 0)

	rows := sqlmock.NewRows([]string{"id", "cycle_id", "renter", "start_time", "end_time", "total_cost", "is_active", "is_returned", "has_issue_reported"}).
		AddRow(1, 2, "bob", start, start.Add(time.Hour), 10, true, false, false).
		AddRow(3, 5, "carol", start, start.Add(3*time.Hour), 30, true, false, true)
	mock.ExpectQuery("SELECT (.+) FROM rentals WHERE is_active ORDER BY id").WillReturnRows(rows)

	rentals, err := store.Rentals().ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, rentals, 2)
	assert.Equal(t, domain.RentalStatusDisputed, rentals[1].Status())
}

func TestIssueRepository_CreateDuplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO issue_reports").WillReturnError(&pq.Error{Code: "23505"})
	err := store.Issues().Create(context.Background(), &domain.IssueReport{RentalID: 1, Reporter: "bob", Description: "flat"})
	assert.ErrorIs(t, err, domain.ErrAlreadyReported)
}

func TestIssueRepository_GetByRentalID(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"rental_id", "reporter", "description", "report_time", "is_resolved", "refund_processed", "resolved_at"}).
		AddRow(1, "bob", "flat tyre", now, true, true, now)
	mock.ExpectQuery("SELECT (.+) FROM issue_reports WHERE rental_id = \\$1").WithArgs(int64(1)).WillReturnRows(rows)

	rep, err := store.Issues().GetByRentalID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, rep.RefundProcessed)
	require.NotNil(t, rep.ResolvedAt)
}

func TestLedgerRepository_Append(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	entry := &domain.LedgerEntry{ID: "e1", RentalID: 1, Type: domain.EntryTypeOwnerPayout, From: domain.EscrowAccount, To: "alice", Amount: 19, CreatedAt: now}

	mock.ExpectExec("INSERT INTO ledger_entries").
		WithArgs("e1", int64(1), domain.EntryTypeOwnerPayout, domain.EscrowAccount, "alice", int64(19), now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO account_balances").WithArgs(domain.EscrowAccount, int64(-19)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO account_balances").WithArgs("alice", int64(19)).WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, store.Ledger().Append(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_GetBalance(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT balance FROM account_balances").WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(19))
	bal, err := store.Ledger().GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(19), bal)

	mock.ExpectQuery("SELECT balance FROM account_balances").WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	bal, err = store.Ledger().GetBalance(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	for range Migrations {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	assert.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
