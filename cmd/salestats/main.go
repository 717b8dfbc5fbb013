package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"salestats/internal/backend"
	"salestats/internal/cli"
	apphttp "salestats/internal/http"
	"salestats/internal/log"
	"salestats/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env for local development; a missing file is fine
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg, log.ComponentApp)
	if err != nil {
		return err
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize record backend", log.FieldError, err, log.FieldBackend, cfg.RecordBackend)
		return err
	}
	defer func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err, log.FieldBackend, cfg.RecordBackend)
		}
	}()

	reports := services.NewReportService(result.Source, logger, cfg.FetchTimeout)
	srv := apphttp.NewServer(cfg.Addr(), reports, logger, apphttp.WithRateLimit(cfg.RateLimitPerMinute))

	// A report may wait on the upstream fetch before writing anything
	srv.WriteTimeout = cfg.FetchTimeout + 10*time.Second

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting salestats server",
			"addr", srv.Addr,
			log.FieldBackend, cfg.RecordBackend,
			"rate_limit_per_minute", cfg.RateLimitPerMinute)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
