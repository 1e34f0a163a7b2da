// ABOUTME: Application configuration from environment variables
// ABOUTME: Handles .env loading, env parsing, and XDG-compliant data paths
package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// AppName is used for the XDG data directory.
const AppName = "pipecrm"

// Config holds runtime settings. Every field can be overridden through the
// environment; a .env file in the working directory is loaded first if
// present.
type Config struct {
	// DataDir is where the document store lives. Defaults to the XDG data
	// home (~/.local/share/pipecrm on Linux).
	DataDir string `env:"PIPECRM_DATA_DIR"`

	// OwnerID identifies the acting user for audit fields. Optional; audit
	// fields stay zero when unset.
	OwnerID string `env:"PIPECRM_OWNER_ID"`

	LogLevel    string `env:"PIPECRM_LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"PIPECRM_LOG_ENCODING" envDefault:"console"`
}

// Load reads configuration from the environment, with .env overrides.
func Load() (*Config, error) {
	// Missing .env is fine; only real read failures matter.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(xdg.DataHome, AppName)
	}

	if cfg.OwnerID != "" {
		if _, err := uuid.Parse(cfg.OwnerID); err != nil {
			return nil, fmt.Errorf("invalid PIPECRM_OWNER_ID: %w", err)
		}
	}

	return cfg, nil
}

// StorePath returns the document store directory under DataDir.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "store")
}

// Owner returns the configured actor ID, or uuid.Nil when unset.
func (c *Config) Owner() uuid.UUID {
	if c.OwnerID == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(c.OwnerID)
	if err != nil {
		return uuid.Nil
	}
	return id
}
