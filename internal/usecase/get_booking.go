package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mae17roy/evento/internal/domain/booking"
)

type GetBooking struct {
	redisClient *redis.Client
	bookings    BookingStore
}

func NewGetBooking(redisClient *redis.Client, bookings BookingStore) *GetBooking {
	return &GetBooking{
		redisClient: redisClient,
		bookings:    bookings,
	}
}

func (uc *GetBooking) Execute(ctx context.Context, bookingID int64) (*booking.Booking, error) {
	cacheKey := fmt.Sprintf("booking:%d", bookingID)

	if uc.redisClient != nil {
		val, err := uc.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var b booking.Booking
			if err := json.Unmarshal([]byte(val), &b); err == nil {
				return &b, nil
			}
		}
	}

	b, err := uc.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if uc.redisClient != nil {
		data, _ := json.Marshal(b)
		// Short TTL so status changes show up quickly
		uc.redisClient.Set(ctx, cacheKey, data, 1*time.Second)
	}

	return b, nil
}
