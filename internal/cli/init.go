// Package cli consolidates the initialization steps shared by
// cmd/myks and cmd/myks-init.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"myks/internal/config"
	"myks/internal/log"
	"myks/internal/settings"
)

// SetupLogger initializes structured logging with default settings
// and installs it as the process default.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitSettings opens the local settings database, seeding the web-app
// URL from the environment when the store has none yet.
func InitSettings(logger *log.Logger, cfg *config.Config) *settings.Store {
	store, err := settings.NewStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open settings database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	if cfg.WebAppURL != "" {
		ctx := context.Background()
		current, err := store.WebAppURL(ctx)
		if err == nil && current == "" {
			if err := store.SetWebAppURL(ctx, cfg.WebAppURL); err != nil {
				logger.Warn("Failed to seed web-app URL from environment", log.FieldError, err)
			} else {
				logger.Info("Seeded web-app URL from environment")
			}
		}
	}

	return store
}
