package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"salestats/internal/core"
)

// Store serves a fixed set of records held in memory. It is never modified
// after construction, so concurrent reads need no locking.
type Store struct {
	items []core.RawTransaction
}

func New(items []core.RawTransaction) *Store {
	return &Store{items: append([]core.RawTransaction(nil), items...)}
}

// Load seeds a store from a JSON array on disk. A missing, unreadable or
// malformed file is an error.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	var items []core.RawTransaction
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if items == nil {
		return nil, fmt.Errorf("decode %s: payload is not a JSON array", path)
	}
	return New(items), nil
}

// ListTransactions returns a copy of the stored records.
func (s *Store) ListTransactions(_ context.Context) ([]core.RawTransaction, error) {
	return append([]core.RawTransaction(nil), s.items...), nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.items)
}
