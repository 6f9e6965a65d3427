package jobs

import (
	"context"
	"errors"
	"fmt"

	"cyclerent-ledger/internal/domain"
	"cyclerent-ledger/internal/logger"
	"cyclerent-ledger/internal/repository"
)

// ErrEscrowMismatch means the escrow account does not equal the cost of the
// rentals it is holding funds for.
var ErrEscrowMismatch = errors.New("escrow balance does not match active rentals")

// ReconcileEscrow checks that the escrow balance equals the summed cost of
// all active rentals, disputed ones included. Both reads happen under the
// writer lock so no rental can open or settle between them.
func (jr *JobRunner) ReconcileEscrow() error {
	return jr.runWithRecovery(JobReconcileEscrow, func(ctx context.Context) error {
		var escrow, held int64
		var active int
		err := jr.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			var err error
			escrow, err = tx.Ledger().GetBalance(ctx, domain.EscrowAccount)
			if err != nil {
				return err
			}
			rentals, err := tx.Rentals().ListActive(ctx)
			if err != nil {
				return err
			}
			for _, rt := range rentals {
				held += rt.TotalCost
			}
			active = len(rentals)
			return nil
		})
		if err != nil {
			return err
		}
		jr.metrics.SetEscrowBalance(escrow)

		if escrow != held {
			logger.Error("Escrow out of balance", "escrow", escrow, "held", held, "activeRentals", active)
			return fmt.Errorf("%w: escrow %d, active rentals %d", ErrEscrowMismatch, escrow, held)
		}
		logger.Info("Escrow reconciled", "escrow", escrow, "activeRentals", active)
		return nil
	})
}
