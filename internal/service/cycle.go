package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cyclerent-ledger/internal/config"
	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/logger"
	"cyclerent-ledger/internal/repository"
)

type cycleService struct {
	store    repository.Store
	platform string
	now      Clock
}

func NewCycleService(store repository.Store, cfg config.LedgerConfig, now Clock) CycleService {
	if now == nil {
		now = time.Now
	}
	return &cycleService{store: store, platform: domain.CanonicalAccount(cfg.PlatformAccount), now: now}
}

func (s *cycleService) ListCycle(ctx context.Context, owner, name, description, imageURL string, pricePerHour int64) (*domain.Cycle, error) {
	owner, err := domain.NormalizeIdentity(owner)
	if err != nil {
		return nil, err
	}
	// Payouts to the platform account would merge with the fee.
	if err := domain.CheckNotReserved(owner, s.platform); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, fmt.Errorf("%w: name and description are required", domain.ErrInvalidInput)
	}
	if pricePerHour <= 0 {
		return nil, fmt.Errorf("%w: price per hour must be positive", domain.ErrInvalidInput)
	}

	now := s.now()
	var cycle *domain.Cycle
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		id, err := tx.Counters().Next(ctx, domain.CounterCycles)
		if err != nil {
			return err
		}
		cycle = &domain.Cycle{
			ID:           id,
			Owner:        owner,
			Name:         name,
			Description:  description,
			ImageURL:     strings.TrimSpace(imageURL),
			PricePerHour: pricePerHour,
			IsAvailable:  true,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Cycles().Create(ctx, cycle)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cycle listed", "cycleID", cycle.ID, "owner", owner, "pricePerHour", pricePerHour)
	return cycle, nil
}

func (s *cycleService) UpdateCyclePrice(ctx context.Context, owner string, cycleID, newPrice int64) (*domain.Cycle, error) {
	owner, err := domain.NormalizeIdentity(owner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var cycle *domain.Cycle
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		c, err := tx.Cycles().GetByID(ctx, cycleID)
		if err != nil {
			return err
		}
		if c.Owner != owner {
			return fmt.Errorf("%w: cycle %d", domain.ErrNotOwner, cycleID)
		}
		if newPrice <= 0 {
			return fmt.Errorf("%w: price per hour must be positive", domain.ErrInvalidInput)
		}
		c.PricePerHour = newPrice
		c.UpdatedAt = now
		cycle = c
		return tx.Cycles().Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cycle price updated", "cycleID", cycleID, "pricePerHour", newPrice)
	return cycle, nil
}

func (s *cycleService) RemoveCycle(ctx context.Context, owner string, cycleID int64) (*domain.Cycle, error) {
	owner, err := domain.NormalizeIdentity(owner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var cycle *domain.Cycle
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		c, err := tx.Cycles().GetByID(ctx, cycleID)
		if err != nil {
			return err
		}
		if c.Owner != owner {
			return fmt.Errorf("%w: cycle %d", domain.ErrNotOwner, cycleID)
		}
		if !c.IsAvailable {
			return fmt.Errorf("%w: cycle %d", domain.ErrCycleUnavailable, cycleID)
		}
		c.IsActive = false
		c.IsAvailable = false
		c.UpdatedAt = now
		cycle = c
		return tx.Cycles().Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cycle removed", "cycleID", cycleID, "owner", owner)
	return cycle, nil
}

func (s *cycleService) GetCycle(ctx context.Context, cycleID int64) (*domain.Cycle, error) {
	return s.store.Cycles().GetByID(ctx, cycleID)
}

func (s *cycleService) GetOwnerCycles(ctx context.Context, owner string) ([]int64, error) {
	owner, err := domain.NormalizeIdentity(owner)
	if err != nil {
		return nil, err
	}
	return s.store.Cycles().ListByOwner(ctx, owner)
}

func (s *cycleService) GetAllAvailableCycles(ctx context.Context) ([]int64, error) {
	return s.store.Cycles().ListAvailable(ctx)
}

func (s *cycleService) GetTotalCycles(ctx context.Context) (int64, error) {
	return s.store.Counters().Get(ctx, domain.CounterCycles)
}

// setAvailability flips a cycle in or out of the availability index. A
// removed cycle never becomes available again.
func setAvailability(ctx context.Context, tx repository.Tx, cycleID int64, available bool, now time.Time) error {
	c, err := tx.Cycles().GetByID(ctx, cycleID)
	if err != nil {
		return err
	}
	if available && !c.IsActive {
		return nil
	}
	if c.IsAvailable == available {
		return nil
	}
	c.IsAvailable = available
	c.UpdatedAt = now
	return tx.Cycles().Update(ctx, c)
}
