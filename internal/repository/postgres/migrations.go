package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"cyclerent-ledger/internal/logger"
)

// Migration is one forward-only schema step.
type Migration struct {
	Name string
	Up   string
}

// Migrations are applied in order; every statement is idempotent.
var Migrations = []Migration{
	{
		Name: "create_ledger_counters",
		Up: `
CREATE TABLE IF NOT EXISTS ledger_counters (
    name  TEXT PRIMARY KEY,
    value BIGINT NOT NULL DEFAULT 0
);
INSERT INTO ledger_counters (name, value) VALUES ('cycles', 0), ('rentals', 0)
ON CONFLICT (name) DO NOTHING;
`,
	},
	{
		Name: "create_cycles",
		Up: `
CREATE TABLE IF NOT EXISTS cycles (
    id             BIGINT PRIMARY KEY,
    owner          TEXT NOT NULL,
    name           TEXT NOT NULL,
    description    TEXT NOT NULL,
    image_url      TEXT NOT NULL DEFAULT '',
    price_per_hour BIGINT NOT NULL CHECK (price_per_hour > 0),
    is_available   BOOLEAN NOT NULL,
    is_active      BOOLEAN NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL,
    CHECK (NOT is_available OR is_active)
);

CREATE INDEX IF NOT EXISTS idx_cycles_owner ON cycles (owner, id);
CREATE INDEX IF NOT EXISTS idx_cycles_available ON cycles (id) WHERE is_available;
`,
	},
	{
		Name: "create_rentals",
		Up: `
CREATE TABLE IF NOT EXISTS rentals (
    id                 BIGINT PRIMARY KEY,
    cycle_id           BIGINT NOT NULL REFERENCES cycles (id),
    renter             TEXT NOT NULL,
    start_time         TIMESTAMPTZ NOT NULL,
    end_time           TIMESTAMPTZ NOT NULL,
    total_cost         BIGINT NOT NULL CHECK (total_cost > 0),
    is_active          BOOLEAN NOT NULL,
    is_returned        BOOLEAN NOT NULL DEFAULT FALSE,
    has_issue_reported BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_rentals_renter ON rentals (renter, id);
CREATE INDEX IF NOT EXISTS idx_rentals_active ON rentals (id) WHERE is_active;
CREATE UNIQUE INDEX IF NOT EXISTS idx_rentals_open_cycle ON rentals (cycle_id) WHERE is_active;
`,
	},
	{
		Name: "create_issue_reports",
		Up: `
CREATE TABLE IF NOT EXISTS issue_reports (
    rental_id        BIGINT PRIMARY KEY REFERENCES rentals (id),
    reporter         TEXT NOT NULL,
    description      TEXT NOT NULL,
    report_time      TIMESTAMPTZ NOT NULL,
    is_resolved      BOOLEAN NOT NULL DEFAULT FALSE,
    refund_processed BOOLEAN NOT NULL DEFAULT FALSE,
    resolved_at      TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_issue_reports_open ON issue_reports (report_time, rental_id) WHERE NOT is_resolved;
`,
	},
	{
		Name: "create_ledger_entries",
		Up: `
CREATE TABLE IF NOT EXISTS ledger_entries (
    id           UUID PRIMARY KEY,
    seq          BIGSERIAL NOT NULL,
    rental_id    BIGINT NOT NULL REFERENCES rentals (id),
    type         TEXT NOT NULL,
    from_account TEXT NOT NULL,
    to_account   TEXT NOT NULL,
    amount       BIGINT NOT NULL CHECK (amount >= 0),
    created_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_rental ON ledger_entries (rental_id, seq);

CREATE TABLE IF NOT EXISTS account_balances (
    account TEXT PRIMARY KEY,
    balance BIGINT NOT NULL DEFAULT 0
);
`,
	},
}

// Migrate applies all migrations inside one transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, m := range Migrations {
		logger.Info("Applying migration", "name", m.Name)
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}
