package service

import (
	"context"
	"strings"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/repository"
)

type ledgerService struct {
	store repository.Store
}

func NewLedgerService(store repository.Store) LedgerService {
	return &ledgerService{store: store}
}

// GetBalance returns the account's net position. Renters run negative,
// owners and the platform positive, and escrow holds the open rentals.
func (s *ledgerService) GetBalance(ctx context.Context, account string) (int64, error) {
	account = strings.TrimSpace(account)
	if account != domain.EscrowAccount {
		normalized, err := domain.NormalizeIdentity(account)
		if err != nil {
			return 0, err
		}
		account = normalized
	}
	return s.store.Ledger().GetBalance(ctx, account)
}

func (s *ledgerService) GetRentalEntries(ctx context.Context, rentalID int64) ([]domain.LedgerEntry, error) {
	if _, err := s.store.Rentals().GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	entries, err := s.store.Ledger().ListByRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return entries, nil
}

func (s *ledgerService) GetEscrowBalance(ctx context.Context) (int64, error) {
	return s.store.Ledger().GetBalance(ctx, domain.EscrowAccount)
}
