package jobs

import (
	"context"
	"fmt"
	"time"

	"cyclerent-ledger/internal/config"
	"cyclerent-ledger/internal/logger"
	"cyclerent-ledger/internal/metrics"
	"cyclerent-ledger/internal/repository"
	"cyclerent-ledger/internal/service"
)

const (
	JobReportOverdueRentals = "report-overdue-rentals"
	JobReconcileEscrow      = "reconcile-escrow"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    repository.Store
	services *Services
	metrics  *metrics.Metrics
	config   *config.Config
	now      service.Clock
	timeout  time.Duration
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Rental service.RentalService
}

// NewJobRunner creates a new job runner with all dependencies
// now should be the clock the services were built with.
func NewJobRunner(store repository.Store, services *Services, m *metrics.Metrics, cfg *config.Config, now service.Clock) *JobRunner {
	if now == nil {
		now = time.Now
	}
	return &JobRunner{
		store:    store,
		services: services,
		metrics:  m,
		config:   cfg,
		now:      now,
		timeout:  time.Minute,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and records the
// outcome. A panic counts as a failed run.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		jr.metrics.ObserveJob(jobName, err)
	}()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	if err = jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return err
	}
	logger.Info("Job completed", "job", jobName, "elapsed", time.Since(start))
	return nil
}

// Run executes one job by name. Used by the cronjob -run-once flag.
func (jr *JobRunner) Run(jobName string) error {
	switch jobName {
	case JobReportOverdueRentals:
		return jr.ReportOverdueRentals()
	case JobReconcileEscrow:
		return jr.ReconcileEscrow()
	default:
		return fmt.Errorf("unknown job %q", jobName)
	}
}

// RunAll runs every job once, in registration order.
func (jr *JobRunner) RunAll() error {
	var firstErr error
	for _, name := range []string{JobReportOverdueRentals, JobReconcileEscrow} {
		if err := jr.Run(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
