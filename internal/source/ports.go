package source

import (
	"context"

	"salestats/internal/core"
)

// Ports for record sources.
type (
	// TransactionLister returns the full set of sales records.
	TransactionLister interface {
		// ListTransactions fetches every record known to the source.
		ListTransactions(ctx context.Context) ([]core.RawTransaction, error)
	}

	// TransactionListerFunc adapts a plain function to TransactionLister.
	TransactionListerFunc func(ctx context.Context) ([]core.RawTransaction, error)
)

func (f TransactionListerFunc) ListTransactions(ctx context.Context) ([]core.RawTransaction, error) {
	return f(ctx)
}
