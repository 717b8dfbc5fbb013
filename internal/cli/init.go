// Package cli provides the initialization shared by cmd/salestats and
// cmd/import-transactions.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"salestats/internal/config"
	"salestats/internal/log"
)

// LoadConfig loads the configuration from the environment and the optional
// dotenv files, then validates it.
func LoadConfig(files ...string) (*config.Config, error) {
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config, component string) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
