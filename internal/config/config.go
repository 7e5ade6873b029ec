package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface. The store
// service (cmd/server) and the POS client (cmd/pos) share this type; each
// binary validates only the sections it needs.
type Config struct {
	Server    ServerConfig
	Sheets    SheetsConfig
	Remote    RemoteConfig
	Sync      SyncConfig
	Storage   StorageConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ProductsSheet   string
	SalesSheet      string
}

// RemoteConfig points the POS client at the remote store endpoint.
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SyncConfig selects the synchronization strategy for the coordinator.
type SyncConfig struct {
	Mode            string
	RefreshInterval time.Duration
}

// StorageConfig holds local durable storage options.
type StorageConfig struct {
	DataDir string
}

// ReportingConfig holds the daily snapshot schedule.
type ReportingConfig struct {
	CronSchedule string
}

// MongoDBConfig holds settings for the daily summary store. An empty URI
// disables snapshots.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	remoteTimeout, err := durationEnv("REMOTE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := durationEnv("SYNC_REFRESH_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			ProductsSheet:   getenvWithDefault("PRODUCTS_SHEET", "Productos"),
			SalesSheet:      getenvWithDefault("SALES_SHEET", "Ventas"),
		},
		Remote: RemoteConfig{
			BaseURL: os.Getenv("REMOTE_STORE_URL"),
			Timeout: remoteTimeout,
		},
		Sync: SyncConfig{
			Mode:            getenvWithDefault("SYNC_MODE", "hybrid"),
			RefreshInterval: refreshInterval,
		},
		Storage: StorageConfig{
			DataDir: getenvWithDefault("DATA_DIR", "data"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "inventario"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that fields shared by both binaries are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Sync.Mode {
	case "local", "remote", "hybrid":
	default:
		return fmt.Errorf("SYNC_MODE must be one of local, remote, hybrid; got %q", c.Sync.Mode)
	}

	if c.Sync.RefreshInterval <= 0 {
		return errors.New("SYNC_REFRESH_INTERVAL must be positive")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	return nil
}

// ValidateServer checks the fields the store service requires.
func (c *Config) ValidateServer() error {
	if c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	}
	if c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
	}
	if c.Sheets.ProductsSheet == "" || c.Sheets.SalesSheet == "" {
		return errors.New("worksheet names must not be empty")
	}
	return nil
}

// ValidateClient checks the fields the POS client requires. Local mode never
// touches the remote store, so the endpoint URL is only required otherwise.
func (c *Config) ValidateClient() error {
	if c.Sync.Mode != "local" && c.Remote.BaseURL == "" {
		return errors.New("REMOTE_STORE_URL must be provided unless SYNC_MODE=local")
	}
	if c.Storage.DataDir == "" {
		return errors.New("DATA_DIR must not be empty")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return d, nil
}
