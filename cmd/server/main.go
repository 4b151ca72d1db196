// Command server exposes the grocery report tools over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"grocery-report/internal/config"
	"grocery-report/internal/logging"
	"grocery-report/internal/observability"
	"grocery-report/internal/orchestrator"
)

func main() {
	// Load .env file if exists
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Parse flags (config values as defaults)
	addr := flag.String("addr", cfg.Server.Addr, "HTTP listen address")
	useFixtures := flag.Bool("use-fixtures", cfg.UseFixtures, "Serve embedded demo data instead of the grocery service")
	source := flag.String("source", orchestrator.SourceAPI, "Order history source: api or postgres")
	useRedis := flag.Bool("redis", cfg.Redis.Enabled(), "Cache order details in Redis (requires REDIS_ADDR)")
	flag.Parse()

	cfg.Server.Addr = *addr
	cfg.UseFixtures = *useFixtures
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := serve(cfg, *source, *useRedis, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func serve(cfg *config.Config, source string, useRedis bool, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("")
	rt, err := orchestrator.New(ctx, orchestrator.Options{
		Config:   cfg,
		Source:   source,
		UseRedis: useRedis,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: NewServer(rt, metrics, cfg, logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr), zap.Bool("fixtures", cfg.UseFixtures))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// A second signal during shutdown terminates immediately.
	stop()
	logger.Info("received signal, initiating graceful shutdown", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
