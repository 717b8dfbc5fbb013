package backend

import (
	"context"
	"fmt"

	"salestats/internal/log"
	"salestats/internal/source/memory"
	"salestats/internal/source/remote"
	"salestats/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RemoteBackend:
		return f.createRemoteBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRemoteBackend(config Config) (*BackendResult, error) {
	client := remote.New(config.SourceURL, config.FetchTimeout, remote.WithMaxBytes(config.FetchMaxBytes))

	f.logger.Info("Initialized remote backend",
		"url", client.URL(),
		"timeout", config.FetchTimeout.String())

	return &BackendResult{Source: client}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.OpenReadOnly(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "read_only", true)

	return &BackendResult{
		Source:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store, err := memory.Load(config.DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load memory backend data: %w", err)
	}

	f.logger.Info("Initialized memory backend", "data_file", config.DataFile, "records", store.Len())

	return &BackendResult{Source: store}, nil
}
