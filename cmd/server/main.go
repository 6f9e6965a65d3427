package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "cyclerent-ledger/internal/api/grpc"
	httpapi "cyclerent-ledger/internal/api/http"
	"cyclerent-ledger/internal/config"
	"cyclerent-ledger/internal/logger"
	"cyclerent-ledger/internal/metrics"
	"cyclerent-ledger/internal/repository"
	"cyclerent-ledger/internal/repository/memory"
	"cyclerent-ledger/internal/repository/postgres"
	"cyclerent-ledger/internal/security"
	"cyclerent-ledger/internal/service"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
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
	logger.Info("Starting CycleRent Ledger...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "grpc_address", cfg.GetServerAddress(), "http_address", cfg.GetHTTPAddress())
	logger.Info("Ledger configuration",
		"store", cfg.Store.Type,
		"fee_basis_points", cfg.Ledger.FeeBasisPoints,
		"platform_account", cfg.Ledger.PlatformAccount,
		"rental_hours", []int64{cfg.Ledger.MinRentalHours, cfg.Ledger.MaxRentalHours},
	)

	// Initialize store
	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	// Initialize Services
	cycleSvc := service.NewCycleService(store, cfg.Ledger, time.Now)
	rentalSvc := service.NewRentalService(store, cfg.Ledger, time.Now)
	disputeSvc, err := service.NewDisputeService(store, cfg.Ledger, time.Now)
	if err != nil {
		log.Fatalf("Failed to initialize dispute service: %v", err)
	}
	ledgerSvc := service.NewLedgerService(store)

	// Initialize Security and metrics
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	m := metrics.New()

	// Set up gRPC server
	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetServerAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	grpcServer := api.NewServer(api.NewLedgerHandler(cycleSvc, rentalSvc, disputeSvc, ledgerSvc, time.Now), tokenManager, m)

	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetServerAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Set up HTTP gateway
	var httpServer *http.Server
	if addr := cfg.GetHTTPAddress(); addr != "" {
		router := mux.NewRouter()
		httpapi.RegisterLedgerRoutes(router, httpapi.NewLedgerHandler(cycleSvc, rentalSvc, disputeSvc, ledgerSvc, time.Now), tokenManager, m)
		httpServer = &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "address", addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "error", err)
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...", "signal", sig.String())
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("HTTP shutdown error", "error", err)
		}
		cancel()
	}
	grpcServer.Shutdown()
	logger.Info("Server stopped. Goodbye!")
}

func openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.Store.Type == config.StoreMemory {
		logger.Warn("Using in-memory store; ledger state is lost on restart")
		return memory.NewStore(), nil
	}

	logger.Debug("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Database connection established")

	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return postgres.NewStore(db, cfg.Ledger.LockKey), nil
}
