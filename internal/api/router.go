package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mae17roy/evento/internal/api/middleware"
)

func NewRouter(h *Handlers, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor)

		// Idempotent booking creation
		r.With(middleware.Idempotency(redisClient)).Post("/bookings", h.CreateBooking)

		// Status transitions go through the engine only
		r.Post("/bookings/{id}/status", h.TransitionBooking)

		r.Get("/bookings/{id}", h.GetBooking)
		r.Get("/bookings/{id}/history", h.GetHistory)
		r.Get("/bookings/{id}/timeline", h.GetTimeline)
		r.Get("/owners/{id}/pending", h.ListPendingForOwner)

		r.Get("/users/{id}/notifications", h.ListNotifications)
		r.Post("/notifications/{id}/read", h.MarkNotificationRead)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
