package backend

import (
	"fmt"

	"salestats/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.RecordBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.RecordBackend)
	}

	return Config{
		Type:          backendType,
		SourceURL:     appConfig.SourceURL,
		FetchTimeout:  appConfig.FetchTimeout,
		FetchMaxBytes: appConfig.FetchMaxBytes,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		DataFile:      appConfig.DataFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case RemoteBackend:
		if c.SourceURL == "" {
			return fmt.Errorf("source URL is required for remote backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		if c.DataFile == "" {
			return fmt.Errorf("data file is required for memory backend")
		}
	}
	return nil
}
