package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// CanonicalAccount trims an account name and rewrites hex wallet addresses
// to their checksummed form.
func CanonicalAccount(id string) string {
	id = strings.TrimSpace(id)
	if common.IsHexAddress(id) {
		return common.HexToAddress(id).Hex()
	}
	return id
}

// NormalizeIdentity returns the canonical form of a caller identity so the
// same wallet always compares equal. The escrow account can never act as a
// caller.
func NormalizeIdentity(id string) (string, error) {
	id = CanonicalAccount(id)
	if id == "" {
		return "", fmt.Errorf("%w: identity is required", ErrInvalidInput)
	}
	if strings.EqualFold(id, EscrowAccount) {
		return "", fmt.Errorf("%w: %q is a reserved ledger account", ErrInvalidInput, id)
	}
	return id, nil
}

// CheckNotReserved fails when id names one of the given system accounts.
// Both sides are expected in canonical form.
func CheckNotReserved(id string, reserved ...string) error {
	for _, r := range reserved {
		if r != "" && strings.EqualFold(id, r) {
			return fmt.Errorf("%w: %q is a reserved ledger account", ErrInvalidInput, id)
		}
	}
	return nil
}
