// Command import-transactions downloads the sales records once and stores
// them in the SQLite database served by RECORD_BACKEND=sqlite.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"salestats/internal/cli"
	"salestats/internal/core"
	"salestats/internal/log"
	"salestats/internal/source/remote"
	"salestats/internal/storage"
)

func main() {
	envFile := flag.String("env", "", "optional dotenv file to load")
	dbPath := flag.String("db", "", "SQLite database path (default SQLITE_DB_PATH)")
	url := flag.String("url", "", "source URL (default SOURCE_URL)")
	flag.Parse()

	if err := run(*envFile, *dbPath, *url); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(envFile, dbPath, url string) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := cli.LoadConfig(files...)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.SQLiteDBPath = dbPath
	}
	if url != "" {
		cfg.SourceURL = url
	}

	logger, err := cli.SetupLogger(cfg, log.ComponentImport)
	if err != nil {
		return err
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	start := time.Now()
	client := remote.New(cfg.SourceURL, cfg.FetchTimeout, remote.WithMaxBytes(cfg.FetchMaxBytes))

	// Download and schema setup are independent
	var (
		records []core.RawTransaction
		repo    *storage.SQLiteRepository
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = client.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", client.URL(), err)
		}
		logger.WithComponent(log.ComponentSource).Info("Fetched source records",
			log.FieldOperation, log.OpFetch,
			log.FieldRecords, len(records),
			"url", client.URL())
		return nil
	})
	g.Go(func() error {
		var err error
		repo, err = storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		return err
	})
	if err := g.Wait(); err != nil {
		if repo != nil {
			_ = repo.Close()
		}
		logger.Error("Import failed", log.FieldError, err, log.FieldOperation, log.OpImport)
		return err
	}
	defer repo.Close()

	if _, rejected := core.Normalize(records); len(rejected) > 0 {
		logger.Warn("Source contains records the reports will skip",
			log.FieldRejected, len(rejected),
			"first_index", rejected[0].Index,
			"first_reason", rejected[0].Reason.Error())
	}

	if err := repo.ReplaceAll(ctx, records); err != nil {
		logger.Error("Import failed", log.FieldError, err, log.FieldOperation, log.OpImport)
		return err
	}

	stored, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	logger.Info("Import completed",
		log.FieldOperation, log.OpImport,
		log.FieldRecords, stored,
		"db_path", cfg.SQLiteDBPath,
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}
