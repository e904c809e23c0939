package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the marketplace service.
// Environment variables are parsed from the AIMALL_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store driver: postgres or sqlite
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Outbound mail relay. Empty URL disables mail entirely.
	MailRelayURL string `envconfig:"MAIL_RELAY_URL" default:""`
	MailFrom     string `envconfig:"MAIL_FROM" default:"noreply@ai-mall.app"`
	AdminEmail   string `envconfig:"ADMIN_EMAIL" default:""`

	// FrontendURL is embedded into onboarding emails.
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	// BroadcastChunkSize bounds a single bulk notification insert.
	BroadcastChunkSize int `envconfig:"BROADCAST_CHUNK_SIZE" default:"100"`
}

// ResolveDefaults validates the selected driver and its settings.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("AIMALL_POSTGRES_DSN is required with DB_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			c.SQLitePath = "aimall.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.BroadcastChunkSize <= 0 {
		c.BroadcastChunkSize = 100
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: AIMALL_HTTP_PORT, AIMALL_DB_DRIVER, AIMALL_POSTGRES_DSN.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("AIMALL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Bool("mail_enabled", cfg.MailRelayURL != "").
		Int("broadcast_chunk_size", cfg.BroadcastChunkSize).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config with an isolated sqlite store.
func NewForTesting() *Config {
	return &Config{
		Environment:        EnvTesting,
		HTTPPort:           8080,
		DBDriver:           "sqlite",
		SQLitePath:         "",
		BroadcastChunkSize: 100,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
