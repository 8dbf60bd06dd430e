// Package cli provides the process initialization shared by the calendar
// commands: .env loading, config, logging and the backend manager.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"

	"calendar/internal/backend"
	"calendar/internal/config"
	applog "calendar/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig loads configuration, applies overrides in order and
// validates the result.
func LoadAndValidateConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the logger described by cfg, writing to w, and makes it
// the default logger.
func SetupLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentCLI,
		Output:    w,
	})
	applog.SetDefault(logger)
	return logger.Logger, nil
}

// OpenBackend opens the backend cfg selects through m.
func OpenBackend(ctx context.Context, m *backend.Manager, cfg *config.Config) (backend.Backend, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := m.Open(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}
	return store, nil
}
