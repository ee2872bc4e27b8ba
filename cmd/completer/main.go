package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mae17roy/evento/internal/application/factories/infrastructure"
	"github.com/mae17roy/evento/internal/config"
	"github.com/mae17roy/evento/internal/infrastructure/postgres"
	"github.com/mae17roy/evento/internal/usecase"
	"github.com/mae17roy/evento/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("Completer metrics listening on :9094")
		http.ListenAndServe(":9094", mux)
	}()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	bookingRepo := postgres.NewBookingRepository(pgPool)
	historyRepo := postgres.NewHistoryRepository(pgPool)
	notificationRepo := postgres.NewNotificationRepository(pgPool)
	serviceRepo := postgres.NewServiceRepository(pgPool)
	outboxRepo := postgres.NewOutboxRepository(pgPool)
	txManager := postgres.NewTxManager(pgPool)

	// The sweep drives the same transition engine as the API; it never
	// writes statuses directly.
	guard := usecase.NewGuard(serviceRepo)
	transitionUC := usecase.NewTransitionBooking(txManager, bookingRepo, historyRepo, notificationRepo, outboxRepo, guard)

	c := worker.NewCompleter(bookingRepo, transitionUC, cfg.Completer.Interval, cfg.Completer.After)

	if err := c.Run(ctx); err != nil {
		logger.Error("completer stopped with error", "error", err)
	}

	logger.Info("completer exited")
}
