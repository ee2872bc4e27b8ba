package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mae17roy/evento/internal/api"
	"github.com/mae17roy/evento/internal/application/factories/infrastructure"
	"github.com/mae17roy/evento/internal/config"
	"github.com/mae17roy/evento/internal/infrastructure/postgres"
	"github.com/mae17roy/evento/internal/usecase"
)

func main() {
	// Initialize structured JSON logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	redisClient, err := infraFactory.Redis(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Repositories
	bookingRepo := postgres.NewBookingRepository(pgPool)
	historyRepo := postgres.NewHistoryRepository(pgPool)
	notificationRepo := postgres.NewNotificationRepository(pgPool)
	serviceRepo := postgres.NewServiceRepository(pgPool)
	outboxRepo := postgres.NewOutboxRepository(pgPool)
	txManager := postgres.NewTxManager(pgPool)

	// UseCases
	guard := usecase.NewGuard(serviceRepo)
	createBookingUC := usecase.NewCreateBooking(txManager, bookingRepo, serviceRepo, historyRepo)
	transitionUC := usecase.NewTransitionBooking(txManager, bookingRepo, historyRepo, notificationRepo, outboxRepo, guard)
	getBookingUC := usecase.NewGetBooking(redisClient, bookingRepo)
	getHistoryUC := usecase.NewGetHistory(bookingRepo, historyRepo)
	getTimelineUC := usecase.NewGetTimeline(bookingRepo, historyRepo, outboxRepo)
	listPendingUC := usecase.NewListPending(bookingRepo)
	notificationsUC := usecase.NewUserNotifications(notificationRepo)

	// REST API Handler
	handlers := api.NewHandlers(createBookingUC, transitionUC, getBookingUC, getHistoryUC, getTimelineUC, listPendingUC, notificationsUC)
	apiHandler := api.NewRouter(handlers, redisClient)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: apiHandler,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
