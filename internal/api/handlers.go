package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mae17roy/evento/internal/api/middleware"
	"github.com/mae17roy/evento/internal/domain/actor"
	"github.com/mae17roy/evento/internal/domain/booking"
	"github.com/mae17roy/evento/internal/domain/notification"
	"github.com/mae17roy/evento/internal/usecase"
)

type Handlers struct {
	createBookingUC *usecase.CreateBooking
	transitionUC    *usecase.TransitionBooking
	getBookingUC    *usecase.GetBooking
	getHistoryUC    *usecase.GetHistory
	getTimelineUC   *usecase.GetTimeline
	listPendingUC   *usecase.ListPending
	notificationsUC *usecase.UserNotifications
}

func NewHandlers(
	createBookingUC *usecase.CreateBooking,
	transitionUC *usecase.TransitionBooking,
	getBookingUC *usecase.GetBooking,
	getHistoryUC *usecase.GetHistory,
	getTimelineUC *usecase.GetTimeline,
	listPendingUC *usecase.ListPending,
	notificationsUC *usecase.UserNotifications,
) *Handlers {
	return &Handlers{
		createBookingUC: createBookingUC,
		transitionUC:    transitionUC,
		getBookingUC:    getBookingUC,
		getHistoryUC:    getHistoryUC,
		getTimelineUC:   getTimelineUC,
		listPendingUC:   listPendingUC,
		notificationsUC: notificationsUC,
	}
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req struct {
		BookingDate string                      `json:"booking_date"`
		BookingTime string                      `json:"booking_time"`
		Items       []usecase.CreateBookingItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	params := usecase.CreateBookingParams{
		CustomerID:  a.ID,
		BookingDate: req.BookingDate,
		BookingTime: req.BookingTime,
		Items:       req.Items,
	}

	b, err := h.createBookingUC.Execute(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(b)
}

// TransitionBooking is the single write path for booking status changes.
func (h *Handlers) TransitionBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	status, err := booking.ParseStatus(req.Status)
	if err != nil {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	updated, err := h.transitionUC.Execute(r.Context(), usecase.TransitionParams{
		BookingID: id,
		Status:    status,
		Actor:     a,
	})
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// writeTransitionError maps the engine's error taxonomy to HTTP. Messages
// stay generic per kind; only InvalidTransition exposes the status pair so
// the UI can refresh its stale view.
func writeTransitionError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case errors.Is(err, booking.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "booking not found"})
	case errors.Is(err, booking.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "not permitted"})
	default:
		if invalidErr := booking.IsInvalidTransition(err); invalidErr != nil {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{
				"error":            "invalid status transition",
				"current_status":   string(invalidErr.From),
				"attempted_status": string(invalidErr.To),
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "could not apply transition"})
	}
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}

	b, err := h.getBookingUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	json.NewEncoder(w).Encode(b)
}

func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}

	entries, err := h.getHistoryUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *Handlers) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}

	timeline, err := h.getTimelineUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	json.NewEncoder(w).Encode(timeline)
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	if a.ID != userID && a.Role != actor.RoleAdmin {
		http.Error(w, "not permitted", http.StatusForbidden)
		return
	}

	items, err := h.notificationsUC.List(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if items == nil {
		items = []*notification.Notification{}
	}
	json.NewEncoder(w).Encode(items)
}

// MarkNotificationRead acts on the caller's own notifications only.
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.notificationsUC.MarkRead(r.Context(), id, a.ID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListPendingForOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid owner id", http.StatusBadRequest)
		return
	}

	bookings, err := h.listPendingUC.Execute(r.Context(), ownerID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if bookings == nil {
		bookings = []*booking.Booking{}
	}
	json.NewEncoder(w).Encode(bookings)
}
