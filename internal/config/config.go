package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port               string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`

	// Record source selection
	RecordBackend string `env:"RECORD_BACKEND" envDefault:"remote"`

	// Remote source
	SourceURL     string        `env:"SOURCE_URL" envDefault:"https://s3.amazonaws.com/roxiler.com/product_transaction.json"`
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	FetchMaxBytes int64         `env:"FETCH_MAX_BYTES" envDefault:"33554432"`

	// SQLite source
	SQLiteDBPath string `env:"SQLITE_DB_PATH" envDefault:"./data/transactions.db"`

	// Memory source
	DataFile string `env:"DATA_FILE" envDefault:"./data/transactions.json"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads the configuration from the environment. Variables found in the
// given dotenv files (default ".env") are added first without overriding
// variables already set. A missing default ".env" is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("load dotenv: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if c.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be zero (disabled) or positive", c.RateLimitPerMinute))
	}

	// Validate record backend
	validBackends := []string{"remote", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.RecordBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid record backend '%s': must be one of %v", c.RecordBackend, validBackends))
	}

	switch c.RecordBackend {
	case "remote":
		if c.SourceURL == "" {
			errors = append(errors, "source URL cannot be empty when using remote backend")
		} else if parsedURL, err := url.Parse(c.SourceURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid source URL '%s': %v", c.SourceURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid source URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		} else if parsedURL.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid source URL '%s': missing host", c.SourceURL))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case "memory":
		if c.DataFile == "" {
			errors = append(errors, "data file cannot be empty when using memory backend")
		}
	}

	// The fetch bound applies to every backend
	if c.FetchTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at least 100ms", c.FetchTimeout))
	} else if c.FetchTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at most 5 minutes", c.FetchTimeout))
	}

	if c.FetchMaxBytes < 1 {
		errors = append(errors, fmt.Sprintf("invalid fetch max bytes %d: must be positive", c.FetchMaxBytes))
	}

	// Validate logging
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}
