package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "idempotency:booking:"
	// Short lock TTL so a crashed request does not hold the key forever.
	idempotencyLockTTL = 10 * time.Second
	idempotencyDoneTTL = 24 * time.Hour
)

// Idempotency guards booking creation against client retries. A repeated
// Idempotency-Key gets a 409 instead of a second booking. Requests without
// the header pass through, as do requests when redis is unavailable.
func Idempotency(redisClient *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			idemKey := idempotencyKeyPrefix + key
			ctx := r.Context()

			val, err := redisClient.Get(ctx, idemKey).Result()
			if err == nil {
				w.Header().Set("X-Idempotency-Hit", "true")
				w.WriteHeader(http.StatusConflict)
				fmt.Fprintf(w, `{"error": "request already processed", "original_response": %s}`, val)
				return
			} else if err != redis.Nil {
				next.ServeHTTP(w, r)
				return
			}

			// Lock the key while the request is in flight.
			acquired, err := redisClient.SetNX(ctx, idemKey, "PROCESSING", idempotencyLockTTL).Result()
			if err != nil || !acquired {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"error": "concurrent request"}`))
				return
			}

			next.ServeHTTP(w, r)

			redisClient.Set(ctx, idemKey, "\"COMPLETED\"", idempotencyDoneTTL)
		})
	}
}
