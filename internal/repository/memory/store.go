// Package memory is an in-process implementation of repository.Store.
//
// Writers are serialized by writeMu. A transaction stages its changes in an
// overlay and the overlay is applied to the committed state under mu in a
// single critical section, so readers only ever observe committed states.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/repository"
)

var errReadOnly = errors.New("memory: write outside of a transaction")

type state struct {
	cycles          map[int64]domain.Cycle
	rentals         map[int64]domain.Rental
	issues          map[int64]domain.IssueReport
	entries         []domain.LedgerEntry
	entriesByRental map[int64][]int
	balances        map[string]int64
	counters        map[string]int64

	ownerIndex    map[string][]int64
	renterIndex   map[string][]int64
	available     map[int64]struct{}
	activeRentals map[int64]struct{}
	unresolved    []int64
}

func newState() *state {
	return &state{
		cycles:          make(map[int64]domain.Cycle),
		rentals:         make(map[int64]domain.Rental),
		issues:          make(map[int64]domain.IssueReport),
		entriesByRental: make(map[int64][]int),
		balances:        make(map[string]int64),
		counters:        make(map[string]int64),
		ownerIndex:      make(map[string][]int64),
		renterIndex:     make(map[string][]int64),
		available:       make(map[int64]struct{}),
		activeRentals:   make(map[int64]struct{}),
	}
}

// overlay holds the uncommitted writes of one transaction.
type overlay struct {
	cycles       map[int64]domain.Cycle
	rentals      map[int64]domain.Rental
	issues       map[int64]domain.IssueReport
	newIssues    []int64
	entries      []domain.LedgerEntry
	balances     map[string]int64 // deltas
	counters     map[string]int64 // new absolute values
	ownerAppend  map[string][]int64
	renterAppend map[string][]int64
}

func newOverlay() *overlay {
	return &overlay{
		cycles:       make(map[int64]domain.Cycle),
		rentals:      make(map[int64]domain.Rental),
		issues:       make(map[int64]domain.IssueReport),
		balances:     make(map[string]int64),
		counters:     make(map[string]int64),
		ownerAppend:  make(map[string][]int64),
		renterAppend: make(map[string][]int64),
	}
}

type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	st      *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) Cycles() repository.CycleRepository     { return &cycleRepository{s: s} }
func (s *Store) Rentals() repository.RentalRepository   { return &rentalRepository{s: s} }
func (s *Store) Issues() repository.IssueRepository     { return &issueRepository{s: s} }
func (s *Store) Ledger() repository.LedgerRepository    { return &ledgerRepository{s: s} }
func (s *Store) Counters() repository.CounterRepository { return &counterRepository{s: s} }

func (s *Store) Close() error { return nil }

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &txView{s: s, o: newOverlay()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory: transaction aborted: %w", err)
	}
	s.commit(tx.o)
	return nil
}

func (s *Store) commit(o *overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.st

	for id, c := range o.cycles {
		st.cycles[id] = c
		if c.IsAvailable {
			st.available[id] = struct{}{}
		} else {
			delete(st.available, id)
		}
	}
	for owner, ids := range o.ownerAppend {
		st.ownerIndex[owner] = append(st.ownerIndex[owner], ids...)
	}

	for id, r := range o.rentals {
		st.rentals[id] = r
		if r.IsActive {
			st.activeRentals[id] = struct{}{}
		} else {
			delete(st.activeRentals, id)
		}
	}
	for renter, ids := range o.renterAppend {
		st.renterIndex[renter] = append(st.renterIndex[renter], ids...)
	}

	for _, id := range o.newIssues {
		if !o.issues[id].IsResolved {
			st.unresolved = append(st.unresolved, id)
		}
	}
	for id, rep := range o.issues {
		st.issues[id] = rep
		if rep.IsResolved {
			st.unresolved = removeID(st.unresolved, id)
		}
	}

	for _, e := range o.entries {
		st.entries = append(st.entries, e)
		st.entriesByRental[e.RentalID] = append(st.entriesByRental[e.RentalID], len(st.entries)-1)
	}
	for account, delta := range o.balances {
		st.balances[account] += delta
	}
	for name, v := range o.counters {
		st.counters[name] = v
	}
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// txView is the repository.Tx handed to WithTx callbacks.
type txView struct {
	s *Store
	o *overlay
}

func (t *txView) Cycles() repository.CycleRepository     { return &cycleRepository{s: t.s, o: t.o} }
func (t *txView) Rentals() repository.RentalRepository   { return &rentalRepository{s: t.s, o: t.o} }
func (t *txView) Issues() repository.IssueRepository     { return &issueRepository{s: t.s, o: t.o} }
func (t *txView) Ledger() repository.LedgerRepository    { return &ledgerRepository{s: t.s, o: t.o} }
func (t *txView) Counters() repository.CounterRepository { return &counterRepository{s: t.s, o: t.o} }

type cycleRepository struct {
	s *Store
	o *overlay
}

func (r *cycleRepository) lookup(id int64) (domain.Cycle, bool) {
	if r.o != nil {
		if c, ok := r.o.cycles[id]; ok {
			return c, true
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.st.cycles[id]
	return c, ok
}

func (r *cycleRepository) Create(ctx context.Context, c *domain.Cycle) error {
	if r.o == nil {
		return errReadOnly
	}
	if _, exists := r.lookup(c.ID); exists {
		return fmt.Errorf("memory: cycle %d already exists", c.ID)
	}
	r.o.cycles[c.ID] = *c
	r.o.ownerAppend[c.Owner] = append(r.o.ownerAppend[c.Owner], c.ID)
	return nil
}

func (r *cycleRepository) GetByID(ctx context.Context, id int64) (*domain.Cycle, error) {
	c, ok := r.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: cycle %d", domain.ErrNotFound, id)
	}
	return &c, nil
}

func (r *cycleRepository) Update(ctx context.Context, c *domain.Cycle) error {
	if r.o == nil {
		return errReadOnly
	}
	if _, ok := r.lookup(c.ID); !ok {
		return fmt.Errorf("%w: cycle %d", domain.ErrNotFound, c.ID)
	}
	r.o.cycles[c.ID] = *c
	return nil
}

func (r *cycleRepository) ListByOwner(ctx context.Context, owner string) ([]int64, error) {
	r.s.mu.RLock()
	ids := append([]int64{}, r.s.st.ownerIndex[owner]...)
	r.s.mu.RUnlock()
	if r.o != nil {
		ids = append(ids, r.o.ownerAppend[owner]...)
	}
	return ids, nil
}

func (r *cycleRepository) ListAvailable(ctx context.Context) ([]int64, error) {
	r.s.mu.RLock()
	set := make(map[int64]struct{}, len(r.s.st.available))
	for id := range r.s.st.available {
		set[id] = struct{}{}
	}
	r.s.mu.RUnlock()
	if r.o != nil {
		for id, c := range r.o.cycles {
			if c.IsAvailable {
				set[id] = struct{}{}
			} else {
				delete(set, id)
			}
		}
	}
	return sortedIDs(set), nil
}

type rentalRepository struct {
	s *Store
	o *overlay
}

func (r *rentalRepository) lookup(id int64) (domain.Rental, bool) {
	if r.o != nil {
		if rt, ok := r.o.rentals[id]; ok {
			return rt, true
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rt, ok := r.s.st.rentals[id]
	return rt, ok
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	if r.o == nil {
		return errReadOnly
	}
	if _, exists := r.lookup(rt.ID); exists {
		return fmt.Errorf("memory: rental %d already exists", rt.ID)
	}
	r.o.rentals[rt.ID] = *rt
	r.o.renterAppend[rt.Renter] = append(r.o.renterAppend[rt.Renter], rt.ID)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	rt, ok := r.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: rental %d", domain.ErrNotFound, id)
	}
	return &rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	if r.o == nil {
		return errReadOnly
	}
	if _, ok := r.lookup(rt.ID); !ok {
		return fmt.Errorf("%w: rental %d", domain.ErrNotFound, rt.ID)
	}
	r.o.rentals[rt.ID] = *rt
	return nil
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renter string) ([]int64, error) {
	r.s.mu.RLock()
	ids := append([]int64{}, r.s.st.renterIndex[renter]...)
	r.s.mu.RUnlock()
	if r.o != nil {
		ids = append(ids, r.o.renterAppend[renter]...)
	}
	return ids, nil
}

func (r *rentalRepository) ListActive(ctx context.Context) ([]domain.Rental, error) {
	active := make(map[int64]domain.Rental)
	r.s.mu.RLock()
	for id := range r.s.st.activeRentals {
		active[id] = r.s.st.rentals[id]
	}
	r.s.mu.RUnlock()
	if r.o != nil {
		for id, rt := range r.o.rentals {
			if rt.IsActive {
				active[id] = rt
			} else {
				delete(active, id)
			}
		}
	}

	rentals := make([]domain.Rental, 0, len(active))
	for _, rt := range active {
		rentals = append(rentals, rt)
	}
	sort.Slice(rentals, func(i, j int) bool { return rentals[i].ID < rentals[j].ID })
	return rentals, nil
}

type issueRepository struct {
	s *Store
	o *overlay
}

func (r *issueRepository) lookup(rentalID int64) (domain.IssueReport, bool) {
	if r.o != nil {
		if rep, ok := r.o.issues[rentalID]; ok {
			return rep, true
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rep, ok := r.s.st.issues[rentalID]
	return rep, ok
}

func (r *issueRepository) Create(ctx context.Context, rep *domain.IssueReport) error {
	if r.o == nil {
		return errReadOnly
	}
	if _, exists := r.lookup(rep.RentalID); exists {
		return fmt.Errorf("%w: rental %d", domain.ErrAlreadyReported, rep.RentalID)
	}
	r.o.issues[rep.RentalID] = *rep
	r.o.newIssues = append(r.o.newIssues, rep.RentalID)
	return nil
}

func (r *issueRepository) GetByRentalID(ctx context.Context, rentalID int64) (*domain.IssueReport, error) {
	rep, ok := r.lookup(rentalID)
	if !ok {
		return nil, fmt.Errorf("%w: issue report for rental %d", domain.ErrNotFound, rentalID)
	}
	return &rep, nil
}

func (r *issueRepository) Update(ctx context.Context, rep *domain.IssueReport) error {
	if r.o == nil {
		return errReadOnly
	}
	if _, ok := r.lookup(rep.RentalID); !ok {
		return fmt.Errorf("%w: issue report for rental %d", domain.ErrNotFound, rep.RentalID)
	}
	r.o.issues[rep.RentalID] = *rep
	return nil
}

func (r *issueRepository) ListUnresolved(ctx context.Context) ([]int64, error) {
	r.s.mu.RLock()
	ids := append([]int64{}, r.s.st.unresolved...)
	r.s.mu.RUnlock()
	if r.o == nil {
		return ids, nil
	}
	ids = append(ids, r.o.newIssues...)
	out := ids[:0]
	for _, id := range ids {
		if rep, ok := r.o.issues[id]; ok && rep.IsResolved {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

type ledgerRepository struct {
	s *Store
	o *overlay
}

func (r *ledgerRepository) Append(ctx context.Context, e *domain.LedgerEntry) error {
	if r.o == nil {
		return errReadOnly
	}
	if e.Amount < 0 {
		return fmt.Errorf("%w: negative ledger amount", domain.ErrInvalidInput)
	}
	r.o.entries = append(r.o.entries, *e)
	r.o.balances[e.From] -= e.Amount
	r.o.balances[e.To] += e.Amount
	return nil
}

func (r *ledgerRepository) ListByRental(ctx context.Context, rentalID int64) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	r.s.mu.RLock()
	for _, idx := range r.s.st.entriesByRental[rentalID] {
		entries = append(entries, r.s.st.entries[idx])
	}
	r.s.mu.RUnlock()
	if r.o != nil {
		for _, e := range r.o.entries {
			if e.RentalID == rentalID {
				entries = append(entries, e)
			}
		}
	}
	return entries, nil
}

func (r *ledgerRepository) GetBalance(ctx context.Context, account string) (int64, error) {
	r.s.mu.RLock()
	balance := r.s.st.balances[account]
	r.s.mu.RUnlock()
	if r.o != nil {
		balance += r.o.balances[account]
	}
	return balance, nil
}

type counterRepository struct {
	s *Store
	o *overlay
}

func (r *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	if r.o == nil {
		return 0, errReadOnly
	}
	current, err := r.Get(ctx, name)
	if err != nil {
		return 0, err
	}
	r.o.counters[name] = current + 1
	return current + 1, nil
}

func (r *counterRepository) Get(ctx context.Context, name string) (int64, error) {
	if r.o != nil {
		if v, ok := r.o.counters[name]; ok {
			return v, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.counters[name], nil
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
