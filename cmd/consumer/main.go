package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mae17roy/evento/internal/application/factories/infrastructure"
	"github.com/mae17roy/evento/internal/config"
	"github.com/mae17roy/evento/internal/domain/booking"
	domainEvent "github.com/mae17roy/evento/internal/domain/event"
	"github.com/mae17roy/evento/internal/domain/notification"
	"github.com/mae17roy/evento/internal/infrastructure/kafka"
	"github.com/mae17roy/evento/internal/infrastructure/postgres"
)

var (
	eventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consumer_status_events_processed_total",
		Help: "The total number of processed booking status events",
	})
	ownerNotifications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consumer_owner_notifications_total",
		Help: "The total number of owner notifications written",
	})
	processingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "consumer_processing_duration_seconds",
		Help:    "Time taken to process a status event",
		Buckets: []float64{0.1, 0.5, 1, 2, 5},
	})
)

// The consumer fans booking status changes out to every provider with items
// in the booking. The customer notification is written transactionally by
// the engine; owner copies are delivered here, deduplicated via the inbox.
func main() {
	// Initialize structured JSON logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("Failed to load config, using defaults", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Metrics server
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("Consumer metrics listening on :9091")
		http.ListenAndServe(":9091", mux)
	}()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	inboxRepo := postgres.NewInboxRepository(pgPool)
	serviceRepo := postgres.NewServiceRepository(pgPool)
	notificationRepo := postgres.NewNotificationRepository(pgPool)

	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "owner-notifier"
	}
	kafkaConsumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, groupID)
	defer kafkaConsumer.Close()

	consumerName := "owner-notifier"
	logger.Info("Owner notification consumer started", "consumer", consumerName, "group_id", groupID)

	for {
		msg, err := kafkaConsumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("failed to fetch message", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		// Retry loop
		const maxRetries = 5
		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				backoff := time.Duration(1<<attempt) * time.Second
				logger.Info("Retry attempt", "attempt", attempt, "max", maxRetries, "backoff", backoff)
				time.Sleep(backoff)
			}

			processErr := func() error {
				started := time.Now()

				var ev domainEvent.Message
				if err := json.Unmarshal(msg.Value, &ev); err != nil {
					// Not our envelope (or corrupt). Commit and move on.
					logger.Error("failed to unmarshal event envelope", "error", err)
					return nil
				}

				if ev.Type != domainEvent.TypeBookingStatusChanged {
					return nil
				}

				var payload domainEvent.BookingStatusChanged
				if err := json.Unmarshal(ev.Payload, &payload); err != nil {
					logger.Error("failed to unmarshal status payload", "event_id", ev.ID, "error", err)
					return nil
				}

				tx, err := pgPool.Begin(ctx)
				if err != nil {
					return fmt.Errorf("begin tx: %w", err)
				}
				defer tx.Rollback(ctx)

				isNew, err := inboxRepo.SaveIfNotExists(ctx, tx, consumerName, ev.ID, ev.Type, ev.CorrelationID)
				if err != nil {
					return fmt.Errorf("inbox save: %w", err)
				}

				if !isNew {
					if err := tx.Commit(ctx); err != nil {
						return fmt.Errorf("commit noop tx: %w", err)
					}
					return nil
				}

				txCtx := postgres.WithTx(ctx, tx)

				ownerIDs, err := serviceRepo.OwnerIDs(txCtx, payload.BookingID)
				if err != nil {
					return fmt.Errorf("resolve booking owners: %w", err)
				}

				status := booking.Status(payload.ToStatus)
				for _, ownerID := range ownerIDs {
					// The acting owner already knows; skip their copy.
					if payload.ActorRole == "owner" && ownerID == payload.ActorID {
						continue
					}
					n := notification.ForOwner(ownerID, payload.BookingID, status)
					if err := notificationRepo.Create(txCtx, n); err != nil {
						return fmt.Errorf("create owner notification: %w", err)
					}
					ownerNotifications.Inc()
				}

				if err := tx.Commit(ctx); err != nil {
					return fmt.Errorf("commit tx: %w", err)
				}

				processingDuration.Observe(time.Since(started).Seconds())
				eventsProcessed.Inc()
				logger.Info("Owner notifications written", "booking_id", payload.BookingID, "status", payload.ToStatus, "event_id", ev.ID)
				return nil
			}()

			if processErr == nil {
				if err := kafkaConsumer.CommitMessages(ctx, msg); err != nil {
					logger.Error("failed to commit kafka message", "error", err)
				}
				break
			}

			logger.Error("Processing failed", "error", processErr)
			if attempt == maxRetries {
				logger.Error("DLQ: Dropping message after retries", "retries", maxRetries, "error", processErr)
				if err := kafkaConsumer.CommitMessages(ctx, msg); err != nil {
					logger.Error("failed to commit drop to kafka", "error", err)
				}
			}
		}
	}
}
