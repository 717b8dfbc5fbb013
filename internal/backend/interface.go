package backend

import (
	"context"
	"time"

	"salestats/internal/source"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the record source and an optional cleanup function
type BackendResult struct {
	Source  source.TransactionLister
	Cleanup CleanupFunc
}

// Factory creates record sources based on configuration
type Factory interface {
	// CreateBackend creates a record source based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Remote specific
	SourceURL     string
	FetchTimeout  time.Duration
	FetchMaxBytes int64

	// SQLite specific
	SQLiteDBPath string

	// Memory specific
	DataFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	RemoteBackend BackendType = "remote"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// ValidTypes lists every supported backend type
var ValidTypes = []BackendType{RemoteBackend, SQLiteBackend, MemoryBackend}

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case RemoteBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
