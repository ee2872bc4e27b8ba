package usecase

import (
	"context"

	"github.com/mae17roy/evento/internal/domain/notification"
)

const notificationPageSize = 50

// UserNotifications serves the dashboard view of the notifications written
// by the transition engine and the owner fan-out consumer.
type UserNotifications struct {
	store UserNotificationStore
}

func NewUserNotifications(store UserNotificationStore) *UserNotifications {
	return &UserNotifications{store: store}
}

func (uc *UserNotifications) List(ctx context.Context, userID int64) ([]*notification.Notification, error) {
	return uc.store.ListByUser(ctx, userID, notificationPageSize)
}

// MarkRead flips is_read on one of the user's own notifications. A
// notification belonging to someone else reads as not found.
func (uc *UserNotifications) MarkRead(ctx context.Context, id, userID int64) error {
	return uc.store.MarkRead(ctx, id, userID)
}
