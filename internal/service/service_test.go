package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"cyclerent-ledger/internal/config"
	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/repository"
	"cyclerent-ledger/internal/repository/memory"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice"
	bob   = "bob"
	carol = "carol"
	admin = "admin"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testLedgerConfig() config.LedgerConfig {
	return config.LedgerConfig{
		AdminIdentity:   admin,
		PlatformAccount: "platform",
		FeeBasisPoints:  500,
		MinRentalHours:  1,
		MaxRentalHours:  24,
	}
}

type fixture struct {
	store    *memory.Store
	clock    *fakeClock
	cfg      config.LedgerConfig
	cycles   CycleService
	rentals  RentalService
	disputes DisputeService
	ledger   LedgerService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithConfig(t, testLedgerConfig())
}

func newFixtureWithConfig(t *testing.T, cfg config.LedgerConfig) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0).UTC()}
	disputes, err := NewDisputeService(store, cfg, clock.Now)
	require.NoError(t, err)
	return &fixture{
		store:    store,
		clock:    clock,
		cfg:      cfg,
		cycles:   NewCycleService(store, cfg, clock.Now),
		rentals:  NewRentalService(store, cfg, clock.Now),
		disputes: disputes,
		ledger:   NewLedgerService(store),
	}
}

func (f *fixture) listCycle(t *testing.T, owner string, price int64) *domain.Cycle {
	t.Helper()
	c, err := f.cycles.ListCycle(context.Background(), owner, "Bike", "Road bike", "", price)
	require.NoError(t, err)
	return c
}

func (f *fixture) rent(t *testing.T, renter string, cycleID, hours, payment int64) *domain.Rental {
	t.Helper()
	rt, err := f.rentals.RentCycle(context.Background(), renter, cycleID, hours, payment)
	require.NoError(t, err)
	return rt
}

// balanceSum adds up every account the tests touch. Money only moves
// between accounts, so it is always zero.
func (f *fixture) balanceSum(t *testing.T, accounts ...string) int64 {
	t.Helper()
	var sum int64
	for _, a := range append(accounts, domain.EscrowAccount, domain.CanonicalAccount(f.cfg.PlatformAccount)) {
		b, err := f.store.Ledger().GetBalance(context.Background(), a)
		require.NoError(t, err)
		sum += b
	}
	return sum
}

// ledgerHook lets a test fail selected ledger appends inside a transaction.
type ledgerHook struct {
	mock.Mock
}

func (m *ledgerHook) beforeAppend(entryType domain.EntryType) error {
	return m.Called(entryType).Error(0)
}

type hookedLedger struct {
	repository.LedgerRepository
	hook *ledgerHook
}

func (l *hookedLedger) Append(ctx context.Context, e *domain.LedgerEntry) error {
	if err := l.hook.beforeAppend(e.Type); err != nil {
		return err
	}
	return l.LedgerRepository.Append(ctx, e)
}

type hookedTx struct {
	repository.Tx
	hook *ledgerHook
}

func (t *hookedTx) Ledger() repository.LedgerRepository {
	return &hookedLedger{LedgerRepository: t.Tx.Ledger(), hook: t.hook}
}

type hookedStore struct {
	repository.Store
	hook *ledgerHook
}

func (s *hookedStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return fn(ctx, &hookedTx{Tx: tx, hook: s.hook})
	})
}

func deactivateCycle(id int64) func(ctx context.Context, tx repository.Tx) error {
	return func(ctx context.Context, tx repository.Tx) error {
		c, err := tx.Cycles().GetByID(ctx, id)
		if err != nil {
			return err
		}
		c.IsActive = false
		c.IsAvailable = false
		return tx.Cycles().Update(ctx, c)
	}
}
