package service

import (
	"context"
	"fmt"
	"time"

	"cyclerent-ledger/internal/config"
	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/logger"
	"cyclerent-ledger/internal/repository"
	"cyclerent-ledger/internal/utils"

	"github.com/google/uuid"
)

type rentalService struct {
	store    repository.Store
	cfg      config.LedgerConfig
	platform string
	now      Clock
}

// NewRentalService canonicalizes the platform account so fee entries land
// on the same account GetBalance reads.
func NewRentalService(store repository.Store, cfg config.LedgerConfig, now Clock) RentalService {
	if now == nil {
		now = time.Now
	}
	return &rentalService{store: store, cfg: cfg, platform: domain.CanonicalAccount(cfg.PlatformAccount), now: now}
}

func (s *rentalService) RentCycle(ctx context.Context, renter string, cycleID, hours, payment int64) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.RentCycle", "renter", renter, "cycleID", cycleID, "hours", hours, "payment", payment)

	renter, err := domain.NormalizeIdentity(renter)
	if err == nil {
		err = domain.CheckNotReserved(renter, s.platform)
	}
	if err != nil {
		logger.ExitMethodWithError("rentalService.RentCycle", err)
		return nil, err
	}

	now := s.now()
	var rental *domain.Rental
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		cycle, err := tx.Cycles().GetByID(ctx, cycleID)
		if err != nil {
			return err
		}
		if !cycle.IsActive {
			return fmt.Errorf("%w: cycle %d was removed", domain.ErrNotFound, cycleID)
		}
		if !cycle.IsAvailable {
			return fmt.Errorf("%w: cycle %d", domain.ErrCycleUnavailable, cycleID)
		}
		if hours < s.cfg.MinRentalHours || hours > s.cfg.MaxRentalHours {
			return fmt.Errorf("%w: %d hours is outside [%d, %d]", domain.ErrInvalidDuration, hours, s.cfg.MinRentalHours, s.cfg.MaxRentalHours)
		}
		cost, err := utils.CalculateRentalCost(cycle.PricePerHour, hours)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if payment != cost {
			return fmt.Errorf("%w: paid %d, cost is %d", domain.ErrPaymentMismatch, payment, cost)
		}
		if cycle.Owner == renter {
			return fmt.Errorf("%w: cycle %d", domain.ErrSelfRental, cycleID)
		}

		id, err := tx.Counters().Next(ctx, domain.CounterRentals)
		if err != nil {
			return err
		}
		rental = &domain.Rental{
			ID:        id,
			CycleID:   cycleID,
			Renter:    renter,
			StartTime: now,
			EndTime:   utils.RentalEndTime(now, hours),
			TotalCost: cost,
			IsActive:  true,
		}
		if err := tx.Rentals().Create(ctx, rental); err != nil {
			return err
		}
		if err := appendEntry(ctx, tx, rental.ID, domain.EntryTypeEscrowHold, renter, domain.EscrowAccount, cost, now); err != nil {
			return err
		}
		return setAvailability(ctx, tx, cycleID, false, now)
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.RentCycle", err, "cycleID", cycleID)
		return nil, err
	}

	logger.ExitMethod("rentalService.RentCycle", "rentalID", rental.ID, "totalCost", rental.TotalCost)
	return rental, nil
}

func (s *rentalService) ReturnCycle(ctx context.Context, caller string, rentalID int64) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.ReturnCycle", "caller", caller, "rentalID", rentalID)

	caller, err := domain.NormalizeIdentity(caller)
	if err != nil {
		logger.ExitMethodWithError("rentalService.ReturnCycle", err)
		return nil, err
	}

	now := s.now()
	var rental *domain.Rental
	var split utils.SettlementBreakdown
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		rt, err := tx.Rentals().GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if rt.Renter != caller {
			return fmt.Errorf("%w: rental %d", domain.ErrNotRenter, rentalID)
		}
		if rt.IsReturned || !rt.IsActive {
			return fmt.Errorf("%w: rental %d", domain.ErrAlreadyReturned, rentalID)
		}
		if rt.HasIssueReported {
			return fmt.Errorf("%w: rental %d", domain.ErrDisputeOpen, rentalID)
		}

		cycle, err := tx.Cycles().GetByID(ctx, rt.CycleID)
		if err != nil {
			return err
		}
		split, err = utils.SplitSettlement(rt.TotalCost, s.cfg.FeeBasisPoints)
		if err != nil {
			return err
		}
		if err := appendEntry(ctx, tx, rt.ID, domain.EntryTypeOwnerPayout, domain.EscrowAccount, cycle.Owner, split.OwnerShare, now); err != nil {
			return err
		}
		if err := appendEntry(ctx, tx, rt.ID, domain.EntryTypePlatformFee, domain.EscrowAccount, s.platform, split.PlatformShare, now); err != nil {
			return err
		}

		rt.IsReturned = true
		rt.IsActive = false
		if err := tx.Rentals().Update(ctx, rt); err != nil {
			return err
		}
		rental = rt
		return setAvailability(ctx, tx, rt.CycleID, true, now)
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.ReturnCycle", err, "rentalID", rentalID)
		return nil, err
	}

	logger.ExitMethod("rentalService.ReturnCycle", "rentalID", rentalID,
		"ownerShare", split.OwnerShare, "platformShare", split.PlatformShare, "overdue", now.After(rental.EndTime))
	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	return s.store.Rentals().GetByID(ctx, rentalID)
}

func (s *rentalService) GetUserRentals(ctx context.Context, renter string) ([]int64, error) {
	renter, err := domain.NormalizeIdentity(renter)
	if err != nil {
		return nil, err
	}
	return s.store.Rentals().ListByRenter(ctx, renter)
}

func (s *rentalService) GetTotalRentals(ctx context.Context) (int64, error) {
	return s.store.Counters().Get(ctx, domain.CounterRentals)
}

// ListOverdueRentals returns the open rentals whose end time has passed.
func (s *rentalService) ListOverdueRentals(ctx context.Context) ([]domain.Rental, error) {
	active, err := s.store.Rentals().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	overdue := []domain.Rental{}
	for i := range active {
		if active[i].IsOverdue(now) {
			overdue = append(overdue, active[i])
		}
	}
	return overdue, nil
}

// appendEntry records a movement of funds. Zero amounts are skipped so a
// zero fee leaves no PLATFORM_FEE row.
func appendEntry(ctx context.Context, tx repository.Tx, rentalID int64, typ domain.EntryType, from, to string, amount int64, now time.Time) error {
	if amount == 0 {
		return nil
	}
	return tx.Ledger().Append(ctx, &domain.LedgerEntry{
		ID:        uuid.NewString(),
		RentalID:  rentalID,
		Type:      typ,
		From:      from,
		To:        to,
		Amount:    amount,
		CreatedAt: now,
	})
}
