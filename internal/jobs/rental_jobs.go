package jobs

import (
	"context"
	"time"

	"cyclerent-ledger/internal/logger"
)

// ReportOverdueRentals logs every active rental past its end time and
// publishes the count. Overdue rentals are not modified; the renter can
// still return them at the original cost.
func (jr *JobRunner) ReportOverdueRentals() error {
	return jr.runWithRecovery(JobReportOverdueRentals, func(ctx context.Context) error {
		overdue, err := jr.services.Rental.ListOverdueRentals(ctx)
		if err != nil {
			return err
		}

		now := jr.now()
		for _, rt := range overdue {
			logger.Warn("Rental overdue",
				"rentalID", rt.ID,
				"cycleID", rt.CycleID,
				"renter", rt.Renter,
				"endTime", rt.EndTime,
				"overdueBy", now.Sub(rt.EndTime).Round(time.Second),
				"disputed", rt.HasIssueReported,
			)
		}

		jr.metrics.SetOverdueRentals(len(overdue))
		logger.Info("Reported overdue rentals", "count", len(overdue))
		return nil
	})
}
