package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mae17roy/evento/internal/domain/booking"
	"github.com/mae17roy/evento/internal/domain/notification"
	"github.com/mae17roy/evento/internal/domain/outbox"
)

// fakeStore backs every store interface with in-memory state. Writes go to a
// working copy that is committed or discarded by fakeTxManager, so rollback
// behavior can be asserted.
type fakeStore struct {
	bookings      map[int64]booking.Booking
	history       []booking.HistoryEntry
	notifications []notification.Notification
	outbox        []outbox.Event
	services      map[int64]booking.Service
	itemOwners    map[int64][]int64 // booking id -> owner ids with items in it

	failNotification bool
	nextBookingID    int64

	snapshot *fakeStoreState
}

type fakeStoreState struct {
	bookings      map[int64]booking.Booking
	history       []booking.HistoryEntry
	notifications []notification.Notification
	outbox        []outbox.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings:   make(map[int64]booking.Booking),
		services:   make(map[int64]booking.Service),
		itemOwners: make(map[int64][]int64),
	}
}

func (s *fakeStore) begin() {
	snap := &fakeStoreState{
		bookings: make(map[int64]booking.Booking, len(s.bookings)),
	}
	for id, b := range s.bookings {
		snap.bookings[id] = b
	}
	snap.history = append([]booking.HistoryEntry(nil), s.history...)
	snap.notifications = append([]notification.Notification(nil), s.notifications...)
	snap.outbox = append([]outbox.Event(nil), s.outbox...)
	s.snapshot = snap
}

func (s *fakeStore) rollback() {
	if s.snapshot == nil {
		return
	}
	s.bookings = s.snapshot.bookings
	s.history = s.snapshot.history
	s.notifications = s.snapshot.notifications
	s.outbox = s.snapshot.outbox
	s.snapshot = nil
}

func (s *fakeStore) commit() {
	s.snapshot = nil
}

// fakeTxManager serializes transactions with a mutex, which is what the
// row-level lock gives concurrent transitions on the same booking.
type fakeTxManager struct {
	mu        sync.Mutex
	store     *fakeStore
	commitErr error
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.begin()
	if err := tFunc(ctx); err != nil {
		m.store.rollback()
		return err
	}
	if m.commitErr != nil {
		m.store.rollback()
		return fmt.Errorf("commit transaction: %w", m.commitErr)
	}
	m.store.commit()
	return nil
}

// BookingStore

func (s *fakeStore) Create(ctx context.Context, b *booking.Booking) error {
	s.nextBookingID++
	b.ID = s.nextBookingID
	for i := range b.Items {
		b.Items[i].ID = int64(i + 1)
		b.Items[i].BookingID = b.ID
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	copied := b
	return &copied, nil
}

func (s *fakeStore) GetForUpdate(ctx context.Context, id int64) (*booking.Booking, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id int64, status booking.Status) (time.Time, error) {
	b, ok := s.bookings[id]
	if !ok {
		return time.Time{}, booking.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	s.bookings[id] = b
	return b.UpdatedAt, nil
}

func (s *fakeStore) ListPendingForOwner(ctx context.Context, ownerID int64) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for id, b := range s.bookings {
		if b.Status != booking.StatusPending {
			continue
		}
		for _, owner := range s.itemOwners[id] {
			if owner == ownerID {
				copied := b
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeStore) ListConfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	var ids []int64
	for id, b := range s.bookings {
		if b.Status == booking.StatusConfirmed && len(ids) < limit {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// HistoryStore

func (s *fakeStore) Append(ctx context.Context, e *booking.HistoryEntry) error {
	e.ID = int64(len(s.history) + 1)
	e.CreatedAt = time.Now().UTC()
	s.history = append(s.history, *e)
	return nil
}

func (s *fakeStore) ListByBooking(ctx context.Context, bookingID int64) ([]*booking.HistoryEntry, error) {
	var out []*booking.HistoryEntry
	for i := range s.history {
		if s.history[i].BookingID == bookingID {
			e := s.history[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

// NotificationStore

var errNotificationSinkDown = errors.New("notification sink unavailable")

func (s *fakeStore) CreateNotification(ctx context.Context, n *notification.Notification) error {
	if s.failNotification {
		return errNotificationSinkDown
	}
	n.ID = int64(len(s.notifications) + 1)
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *fakeStore) ListByUser(ctx context.Context, userID int64, limit int) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for i := len(s.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if s.notifications[i].UserID == userID {
			n := s.notifications[i]
			out = append(out, &n)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkRead(ctx context.Context, id, userID int64) error {
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
			return nil
		}
	}
	return notification.ErrNotFound
}

// notificationSink adapts fakeStore to NotificationStore without colliding
// with the booking Create method.
type notificationSink struct{ store *fakeStore }

func (ns notificationSink) Create(ctx context.Context, n *notification.Notification) error {
	return ns.store.CreateNotification(ctx, n)
}

// ServiceStore / OwnershipStore

func (s *fakeStore) GetService(ctx context.Context, id int64) (*booking.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, errors.New("service not found")
	}
	copied := svc
	return &copied, nil
}

func (s *fakeStore) OwnsAnyItem(ctx context.Context, bookingID, ownerID int64) (bool, error) {
	for _, owner := range s.itemOwners[bookingID] {
		if owner == ownerID {
			return true, nil
		}
	}
	return false, nil
}

type serviceCatalog struct{ store *fakeStore }

func (sc serviceCatalog) GetByID(ctx context.Context, id int64) (*booking.Service, error) {
	return sc.store.GetService(ctx, id)
}

func (sc serviceCatalog) OwnsAnyItem(ctx context.Context, bookingID, ownerID int64) (bool, error) {
	return sc.store.OwnsAnyItem(ctx, bookingID, ownerID)
}

// OutboxStore

type outboxSink struct{ store *fakeStore }

func (os outboxSink) Create(ctx context.Context, e *outbox.Event) error {
	os.store.outbox = append(os.store.outbox, *e)
	return nil
}

func (os outboxSink) ListByCorrelationID(ctx context.Context, correlationID string) ([]*outbox.Event, error) {
	var out []*outbox.Event
	for i := range os.store.outbox {
		if os.store.outbox[i].CorrelationID == correlationID {
			e := os.store.outbox[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

// newTransitionEngine wires the engine against the fake store.
func newTransitionEngine(store *fakeStore) *TransitionBooking {
	tx := &fakeTxManager{store: store}
	guard := NewGuard(serviceCatalog{store})
	return NewTransitionBooking(tx, store, store, notificationSink{store}, outboxSink{store}, guard)
}
