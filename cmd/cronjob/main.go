package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"cyclerent-ledger/internal/config"
	"cyclerent-ledger/internal/jobs"
	"cyclerent-ledger/internal/logger"
	"cyclerent-ledger/internal/metrics"
	"cyclerent-ledger/internal/repository/postgres"
	"cyclerent-ledger/internal/scheduler"
	"cyclerent-ledger/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reconcile-escrow', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.InitializeWithFile(cfg.Log.Level, cfg.Log.Format, logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	logger.Info("Starting CycleRent Cronjob Runner...", "log_level", cfg.Log.Level)

	// Jobs read the shared ledger, which only postgres provides.
	if cfg.Store.Type != config.StorePostgres {
		log.Fatalf("Cronjob runner needs store.type %q, got %q", config.StorePostgres, cfg.Store.Type)
	}

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		log.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db, cfg.Ledger.LockKey)

	// Initialize Job Runner
	m := metrics.New()
	jobServices := &jobs.Services{
		Rental: service.NewRentalService(store, cfg.Ledger, time.Now),
	}
	jobRunner := jobs.NewJobRunner(store, jobServices, m, cfg, time.Now)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := runJobOnce(jobRunner, *runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Serve the job gauges for scraping
	var metricsServer *http.Server
	if addr := cfg.GetMetricsAddress(); addr != "" {
		metricsServer = metrics.NewServer(addr, m)
		go func() {
			logger.Info("Metrics server listening", "address", addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server error", "error", err)
			}
		}()
	} else {
		logger.Warn("scheduler.metrics_port is not set; job metrics are not exported")
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", "error", err)
		}
		shutdownCancel()
	}
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) error {
	switch jobName {
	case "all":
		return jobRunner.RunAll()
	case jobs.JobReportOverdueRentals, jobs.JobReconcileEscrow:
		return jobRunner.Run(jobName)
	default:
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - %s\n", jobs.JobReportOverdueRentals)
		fmt.Printf("  - %s\n", jobs.JobReconcileEscrow)
		fmt.Printf("  - all\n")
		return fmt.Errorf("unknown job name %q", jobName)
	}
}
