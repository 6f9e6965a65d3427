package domain

import "time"

type EntryType string

const (
	EntryTypeEscrowHold   EntryType = "ESCROW_HOLD"
	EntryTypeOwnerPayout  EntryType = "OWNER_PAYOUT"
	EntryTypePlatformFee  EntryType = "PLATFORM_FEE"
	EntryTypeRenterRefund EntryType = "RENTER_REFUND"
)

// EscrowAccount holds funds between rental open and settlement.
const EscrowAccount = "escrow"

// LedgerEntry records one movement of funds between two accounts.
type LedgerEntry struct {
	ID        string    `json:"id"`
	RentalID  int64     `json:"rental_id"`
	Type      EntryType `json:"type"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Counter names used for id assignment and running totals.
const (
	CounterCycles  = "cycles"
	CounterRentals = "rentals"
)
