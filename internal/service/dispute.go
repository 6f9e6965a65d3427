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

type disputeService struct {
	store repository.Store
	admin string
	now   Clock
}

// NewDisputeService fails when the configured admin identity is blank.
func NewDisputeService(store repository.Store, cfg config.LedgerConfig, now Clock) (DisputeService, error) {
	admin, err := domain.NormalizeIdentity(cfg.AdminIdentity)
	if err != nil {
		return nil, fmt.Errorf("admin identity: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &disputeService{store: store, admin: admin, now: now}, nil
}

func (s *disputeService) ReportIssue(ctx context.Context, renter string, rentalID int64, description string) (*domain.IssueReport, error) {
	logger.EnterMethod("disputeService.ReportIssue", "renter", renter, "rentalID", rentalID)

	renter, err := domain.NormalizeIdentity(renter)
	if err != nil {
		logger.ExitMethodWithError("disputeService.ReportIssue", err)
		return nil, err
	}
	description = strings.TrimSpace(description)

	now := s.now()
	var report *domain.IssueReport
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		rt, err := tx.Rentals().GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if rt.Renter != renter {
			return fmt.Errorf("%w: rental %d", domain.ErrNotRenter, rentalID)
		}
		if rt.HasIssueReported {
			return fmt.Errorf("%w: rental %d", domain.ErrAlreadyReported, rentalID)
		}
		if rt.IsReturned || !rt.IsActive {
			return fmt.Errorf("%w: rental %d", domain.ErrAlreadyReturned, rentalID)
		}
		if description == "" {
			return fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
		}

		report = &domain.IssueReport{
			RentalID:    rentalID,
			Reporter:    renter,
			Description: description,
			ReportTime:  now,
		}
		if err := tx.Issues().Create(ctx, report); err != nil {
			return err
		}
		rt.HasIssueReported = true
		return tx.Rentals().Update(ctx, rt)
	})
	if err != nil {
		logger.ExitMethodWithError("disputeService.ReportIssue", err, "rentalID", rentalID)
		return nil, err
	}

	logger.ExitMethod("disputeService.ReportIssue", "rentalID", rentalID)
	return report, nil
}

func (s *disputeService) ProcessRefund(ctx context.Context, admin string, rentalID int64) (*domain.IssueReport, error) {
	logger.EnterMethod("disputeService.ProcessRefund", "admin", admin, "rentalID", rentalID)

	admin, err := domain.NormalizeIdentity(admin)
	if err != nil {
		logger.ExitMethodWithError("disputeService.ProcessRefund", err)
		return nil, err
	}
	if admin != s.admin {
		err := fmt.Errorf("%w: %s", domain.ErrNotAdmin, admin)
		logger.ExitMethodWithError("disputeService.ProcessRefund", err)
		return nil, err
	}

	now := s.now()
	var report *domain.IssueReport
	var refunded int64
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		rt, err := tx.Rentals().GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		rep, err := tx.Issues().GetByRentalID(ctx, rentalID)
		if err != nil {
			return err
		}
		if rep.RefundProcessed {
			return fmt.Errorf("%w: rental %d", domain.ErrAlreadyRefunded, rentalID)
		}

		if err := appendEntry(ctx, tx, rentalID, domain.EntryTypeRenterRefund, domain.EscrowAccount, rt.Renter, rt.TotalCost, now); err != nil {
			return err
		}
		refunded = rt.TotalCost

		rep.IsResolved = true
		rep.RefundProcessed = true
		rep.ResolvedAt = &now
		if err := tx.Issues().Update(ctx, rep); err != nil {
			return err
		}
		rt.IsActive = false
		if err := tx.Rentals().Update(ctx, rt); err != nil {
			return err
		}
		report = rep
		return setAvailability(ctx, tx, rt.CycleID, true, now)
	})
	if err != nil {
		logger.ExitMethodWithError("disputeService.ProcessRefund", err, "rentalID", rentalID)
		return nil, err
	}

	logger.ExitMethod("disputeService.ProcessRefund", "rentalID", rentalID, "refunded", refunded)
	return report, nil
}

func (s *disputeService) GetIssueReport(ctx context.Context, rentalID int64) (*domain.IssueReport, error) {
	return s.store.Issues().GetByRentalID(ctx, rentalID)
}

// ListOpenIssues returns the unresolved reports in filing order.
func (s *disputeService) ListOpenIssues(ctx context.Context) ([]domain.IssueReport, error) {
	ids, err := s.store.Issues().ListUnresolved(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]domain.IssueReport, 0, len(ids))
	for _, id := range ids {
		rep, err := s.store.Issues().GetByRentalID(ctx, id)
		if err != nil {
			return nil, err
		}
		// Resolved between the two reads.
		if rep.IsResolved {
			continue
		}
		reports = append(reports, *rep)
	}
	return reports, nil
}
