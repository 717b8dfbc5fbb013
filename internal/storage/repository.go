package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salestats/internal/core"
	"salestats/internal/log"

	_ "modernc.org/sqlite"
)

var (
	ErrNoDatabaseFile = errors.New("sqlite backend needs a database file path")
	ErrSchemaMissing  = errors.New("transactions table not found, run import-transactions first")
)

// SQLiteRepository reads sales records from a local SQLite file populated by
// the import-transactions command.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens dbPath for writing, creating the file and its
// directory if needed, and brings the schema up to date. Used by the importer.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath == "" || dbPath == ":memory:" {
		return nil, fmt.Errorf("%w: %q", ErrNoDatabaseFile, dbPath)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", log.FieldComponent, log.ComponentStorage, "path", dbPath, "version", version)

	return &SQLiteRepository{db: db}, nil
}

// OpenReadOnly opens an existing database populated by the importer. The file
// is never created, migrated or written.
func OpenReadOnly(dbPath string) (*SQLiteRepository, error) {
	if dbPath == "" || dbPath == ":memory:" {
		return nil, fmt.Errorf("%w: %q", ErrNoDatabaseFile, dbPath)
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	}
	slog.Debug("SQLite database opened read-only", log.FieldComponent, log.ComponentStorage, "path", dbPath, log.FieldRecords, n)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListTransactions implements source.TransactionLister.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.RawTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(source_id, 0), title, date_of_sale, price, sold, category
		FROM transactions
		ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.RawTransaction
	for rows.Next() {
		var (
			t    core.RawTransaction
			sold int64
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.DateOfSale, &t.Price, &sold, &t.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Sold = sold != 0
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Count returns the number of stored records.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the stored records for records inside one transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, records []core.RawTransaction) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (source_id, title, date_of_sale, price, sold, category)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		var sourceID any
		if rec.ID != 0 {
			sourceID = rec.ID
		}
		sold := 0
		if rec.Sold {
			sold = 1
		}
		if _, err = stmt.ExecContext(ctx, sourceID, rec.Title, rec.DateOfSale, rec.Price, sold, rec.Category); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
