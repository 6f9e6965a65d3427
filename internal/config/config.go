package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cyclerent-ledger/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Store     StoreConfig     `yaml:"store"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains gRPC and HTTP listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	HTTPPort int    `yaml:"http_port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DefaultFeeBasisPoints is the platform cut when the file sets none (5%).
const DefaultFeeBasisPoints = 500

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// StoreConfig selects the ledger state backend
type StoreConfig struct {
	Type string `yaml:"type"` // "memory" or "postgres"
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	Issuer            string `yaml:"issuer"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format     string `yaml:"format"` // "json" or "text"
	File       string `yaml:"file"`   // optional, rotated by size
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// LedgerConfig contains the rental and settlement rules
type LedgerConfig struct {
	AdminIdentity   string `yaml:"admin_identity"`
	PlatformAccount string `yaml:"platform_account"`
	FeeBasisPoints  int64  `yaml:"fee_basis_points"`
	MinRentalHours  int64  `yaml:"min_rental_hours"`
	MaxRentalHours  int64  `yaml:"max_rental_hours"`
	LockKey         int64  `yaml:"lock_key"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReportOverdueRentals string `yaml:"report_overdue_rentals"`
	ReconcileEscrow      string `yaml:"reconcile_escrow"`
	MetricsHost          string `yaml:"metrics_host"`
	MetricsPort          int    `yaml:"metrics_port"` // 0 disables the job metrics listener
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates the result.
func Parse(data []byte) (*Config, error) {
	// Preset so an explicit zero fee in the file is kept.
	cfg := Config{Ledger: LedgerConfig{FeeBasisPoints: DefaultFeeBasisPoints}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("STORE_TYPE"); val != "" {
		c.Store.Type = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("HTTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.HTTPPort)
	}
	if val := os.Getenv("CRONJOB_METRICS_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Scheduler.MetricsPort)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
	if val := os.Getenv("LOG_FILE"); val != "" {
		c.Log.File = val
	}

	// Ledger
	if val := os.Getenv("LEDGER_ADMIN_IDENTITY"); val != "" {
		c.Ledger.AdminIdentity = val
	}
	if val := os.Getenv("LEDGER_FEE_BASIS_POINTS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Ledger.FeeBasisPoints)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}

	if c.Store.Type == "" {
		c.Store.Type = StoreMemory
	}
	switch c.Store.Type {
	case StoreMemory:
	case StorePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("unknown store type: %q", c.Store.Type)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "cyclerent-ledger"
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	if c.Ledger.AdminIdentity == "" {
		return fmt.Errorf("ledger admin identity is required")
	}
	c.Ledger.PlatformAccount = domain.CanonicalAccount(c.Ledger.PlatformAccount)
	if c.Ledger.PlatformAccount == "" {
		c.Ledger.PlatformAccount = "platform"
	}
	if strings.EqualFold(c.Ledger.PlatformAccount, domain.EscrowAccount) {
		return fmt.Errorf("platform account cannot be the escrow account")
	}
	if admin := domain.CanonicalAccount(c.Ledger.AdminIdentity); strings.EqualFold(admin, c.Ledger.PlatformAccount) {
		return fmt.Errorf("admin identity cannot be the platform account")
	}
	if c.Ledger.FeeBasisPoints < 0 || c.Ledger.FeeBasisPoints > 10000 {
		return fmt.Errorf("fee basis points must be within [0, 10000]: %d", c.Ledger.FeeBasisPoints)
	}
	if c.Ledger.MinRentalHours == 0 {
		c.Ledger.MinRentalHours = 1
	}
	if c.Ledger.MaxRentalHours == 0 {
		c.Ledger.MaxRentalHours = 24
	}
	if c.Ledger.MinRentalHours < 1 || c.Ledger.MaxRentalHours < c.Ledger.MinRentalHours {
		return fmt.Errorf("invalid rental hour bounds: [%d, %d]", c.Ledger.MinRentalHours, c.Ledger.MaxRentalHours)
	}
	if c.Ledger.LockKey == 0 {
		c.Ledger.LockKey = 7_411_001
	}

	// Scheduler defaults
	if c.Scheduler.ReportOverdueRentals == "" {
		c.Scheduler.ReportOverdueRentals = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.ReconcileEscrow == "" {
		c.Scheduler.ReconcileEscrow = "0 0 * * * *" // hourly
	}
	if c.Scheduler.MetricsPort < 0 || c.Scheduler.MetricsPort > 65535 {
		return fmt.Errorf("invalid scheduler metrics port: %d", c.Scheduler.MetricsPort)
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the gRPC server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHTTPAddress returns the REST gateway address, or "" when it is disabled
func (c *Config) GetHTTPAddress() string {
	if c.Server.HTTPPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// GetMetricsAddress returns the cronjob metrics listener address, or "" when
// it is disabled
func (c *Config) GetMetricsAddress() string {
	if c.Scheduler.MetricsPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Scheduler.MetricsHost, c.Scheduler.MetricsPort)
}
