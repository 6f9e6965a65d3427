package service

import (
	"context"
	"time"

	"cyclerent-ledger/internal/domain"
)

// Clock returns the current time. Commands read it once.
type Clock func() time.Time

type CycleService interface {
	ListCycle(ctx context.Context, owner, name, description, imageURL string, pricePerHour int64) (*domain.Cycle, error)
	UpdateCyclePrice(ctx context.Context, owner string, cycleID, newPrice int64) (*domain.Cycle, error)
	RemoveCycle(ctx context.Context, owner string, cycleID int64) (*domain.Cycle, error)
	GetCycle(ctx context.Context, cycleID int64) (*domain.Cycle, error)
	GetOwnerCycles(ctx context.Context, owner string) ([]int64, error)
	GetAllAvailableCycles(ctx context.Context) ([]int64, error)
	GetTotalCycles(ctx context.Context) (int64, error)
}

type RentalService interface {
	RentCycle(ctx context.Context, renter string, cycleID, hours, payment int64) (*domain.Rental, error)
	ReturnCycle(ctx context.Context, caller string, rentalID int64) (*domain.Rental, error)
	GetRental(ctx context.Context, rentalID int64) (*domain.Rental, error)
	GetUserRentals(ctx context.Context, renter string) ([]int64, error)
	GetTotalRentals(ctx context.Context) (int64, error)
	ListOverdueRentals(ctx context.Context) ([]domain.Rental, error)
}

type DisputeService interface {
	ReportIssue(ctx context.Context, renter string, rentalID int64, description string) (*domain.IssueReport, error)
	ProcessRefund(ctx context.Context, admin string, rentalID int64) (*domain.IssueReport, error)
	GetIssueReport(ctx context.Context, rentalID int64) (*domain.IssueReport, error)
	ListOpenIssues(ctx context.Context) ([]domain.IssueReport, error)
}

type LedgerService interface {
	GetBalance(ctx context.Context, account string) (int64, error)
	GetRentalEntries(ctx context.Context, rentalID int64) ([]domain.LedgerEntry, error)
	GetEscrowBalance(ctx context.Context) (int64, error)
}
