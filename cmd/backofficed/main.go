package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cloud-ru/backoffice-finance-go/internal/config"
	"github.com/cloud-ru/backoffice-finance-go/internal/jobs"
	"github.com/cloud-ru/backoffice-finance-go/internal/logging"
	"github.com/cloud-ru/backoffice-finance-go/internal/server"
	"github.com/cloud-ru/backoffice-finance-go/internal/storage"
	"github.com/cloud-ru/backoffice-finance-go/internal/tools"
	"github.com/cloud-ru/backoffice-finance-go/internal/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	tracer, shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, logger)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("tracing shutdown", "error", err)
		}
	}()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("storage ready", "backend", cfg.StoreBackend)

	deps := tools.NewDeps(cfg, tracer, logger, store)

	sweep := &jobs.OverdueSweep{
		Loans:            deps.Loans,
		Ledgers:          deps.Ledgers,
		LateFeeDailyRate: cfg.LateFeeDailyRate,
		Logger:           logger,
		Clock:            time.Now,
	}
	scheduler := cron.New()
	if _, err := sweep.Schedule(ctx, scheduler, cfg.SweepSchedule); err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()
	logger.Info("overdue sweep scheduled", "schedule", cfg.SweepSchedule)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.NewRouter(tools.Registry(deps), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
