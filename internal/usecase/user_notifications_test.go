package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mae17roy/evento/internal/domain/notification"
)

func TestUserNotificationsListFiltersByUser(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.notifications = []notification.Notification{
		{ID: 1, UserID: 7, Title: "Booking #42 confirmed"},
		{ID: 2, UserID: 9, Title: "New booking #42"},
		{ID: 3, UserID: 7, Title: "Booking #42 completed"},
	}
	uc := NewUserNotifications(store)

	got, err := uc.List(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("notifications: got %d, want 2", len(got))
	}
	for _, n := range got {
		if n.UserID != 7 {
			t.Errorf("notification %d belongs to user %d", n.ID, n.UserID)
		}
	}
}

func TestUserNotificationsMarkRead(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.notifications = []notification.Notification{
		{ID: 1, UserID: 7, Title: "Booking #42 confirmed"},
	}
	uc := NewUserNotifications(store)

	if err := uc.MarkRead(context.Background(), 1, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.notifications[0].IsRead {
		t.Error("notification not marked read")
	}

	// Someone else's notification reads as not found.
	if err := uc.MarkRead(context.Background(), 1, 9); !errors.Is(err, notification.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
