package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mae17roy/evento/internal/domain/actor"
	"github.com/mae17roy/evento/internal/domain/booking"
	"github.com/mae17roy/evento/internal/domain/event"
	"github.com/mae17roy/evento/internal/domain/notification"
	"github.com/mae17roy/evento/internal/domain/outbox"
	"github.com/mae17roy/evento/internal/infrastructure/postgres"
)

var (
	transitionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_applied_total",
		Help: "The total number of applied booking status transitions",
	}, []string{"status"})
	transitionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_rejected_total",
		Help: "The total number of rejected booking status transitions",
	}, []string{"reason"})
)

// TransitionBooking is the single authority for moving a booking between
// statuses. Status update, history entry, customer notification and the
// status event all commit in one transaction or not at all.
type TransitionBooking struct {
	txManager     postgres.Transactor
	bookings      BookingStore
	history       HistoryStore
	notifications NotificationStore
	outboxStore   OutboxStore
	guard         *Guard
}

func NewTransitionBooking(
	txManager postgres.Transactor,
	bookings BookingStore,
	history HistoryStore,
	notifications NotificationStore,
	outboxStore OutboxStore,
	guard *Guard,
) *TransitionBooking {
	return &TransitionBooking{
		txManager:     txManager,
		bookings:      bookings,
		history:       history,
		notifications: notifications,
		outboxStore:   outboxStore,
		guard:         guard,
	}
}

type TransitionParams struct {
	BookingID int64
	Status    booking.Status
	Actor     actor.Actor
}

// Execute validates and applies one status transition.
//
// Preconditions are checked in order inside the transaction, after the
// booking row is locked: the booking exists (booking.ErrNotFound), the actor
// is permitted (booking.ErrForbidden), and the current-to-requested pair is
// in the transition table (booking.InvalidTransitionError). The lock makes a
// concurrent loser re-read the committed status, so a stale transition is
// rejected by the table instead of racing.
func (uc *TransitionBooking) Execute(ctx context.Context, params TransitionParams) (*booking.Booking, error) {
	var updated *booking.Booking

	err := uc.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookings.GetForUpdate(txCtx, params.BookingID)
		if err != nil {
			return err
		}

		if err := uc.guard.Authorize(txCtx, b, params.Actor, params.Status); err != nil {
			return err
		}

		if !b.Status.CanTransitionTo(params.Status) {
			return &booking.InvalidTransitionError{From: b.Status, To: params.Status}
		}

		from := b.Status

		updatedAt, err := uc.bookings.UpdateStatus(txCtx, b.ID, params.Status)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		entry := &booking.HistoryEntry{
			BookingID: b.ID,
			Status:    params.Status,
		}
		if params.Actor.ID != 0 {
			changedBy := params.Actor.ID
			entry.ChangedBy = &changedBy
			entry.Notes = fmt.Sprintf("Status changed to %s by %s %d", params.Status, params.Actor.Role, params.Actor.ID)
		} else {
			entry.Notes = fmt.Sprintf("Status changed to %s by system", params.Status)
		}
		if err := uc.history.Append(txCtx, entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		// Exactly one notification, addressed to the booking's customer.
		// A failure here rolls back the status and history writes too.
		n := notification.ForCustomer(b.CustomerID, b.ID, params.Status)
		if err := uc.notifications.Create(txCtx, n); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		payload, err := json.Marshal(event.BookingStatusChanged{
			BookingID:  b.ID,
			CustomerID: b.CustomerID,
			FromStatus: from.String(),
			ToStatus:   params.Status.String(),
			ActorID:    params.Actor.ID,
			ActorRole:  string(params.Actor.Role),
			ChangedAt:  updatedAt,
		})
		if err != nil {
			return fmt.Errorf("marshal status event: %w", err)
		}

		outboxEvent := &outbox.Event{
			ID:            uuid.New().String(),
			EventType:     event.TypeBookingStatusChanged,
			Payload:       payload,
			Status:        "new",
			CorrelationID: strconv.FormatInt(b.ID, 10),
			Producer:      "booking-service",
			CreatedAt:     time.Now().UTC(),
		}
		if err := uc.outboxStore.Create(txCtx, outboxEvent); err != nil {
			return fmt.Errorf("enqueue status event: %w", err)
		}

		b.Status = params.Status
		b.UpdatedAt = updatedAt
		updated = b
		return nil
	})

	if err != nil {
		reason := classifyTransitionError(err)
		transitionsRejected.WithLabelValues(reason).Inc()
		slog.Error("booking transition rejected",
			"booking_id", params.BookingID,
			"actor_id", params.Actor.ID,
			"attempted_status", params.Status,
			"reason", reason,
			"error", err,
		)
		return nil, err
	}

	transitionsApplied.WithLabelValues(params.Status.String()).Inc()
	slog.Info("booking transition applied",
		"booking_id", params.BookingID,
		"actor_id", params.Actor.ID,
		"status", params.Status,
	)

	return updated, nil
}

func classifyTransitionError(err error) string {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return "not_found"
	case errors.Is(err, booking.ErrForbidden):
		return "forbidden"
	case booking.IsInvalidTransition(err) != nil:
		return "invalid_transition"
	default:
		return "persistence"
	}
}
