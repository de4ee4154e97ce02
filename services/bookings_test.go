package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []BookingCreated
}

func (n *recordingNotifier) BookingCreated(_ context.Context, ev BookingCreated) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func book(from, to string, roomID uint) BookingInput {
	return BookingInput{RoomID: roomID, DateFrom: date(from), DateTo: date(to)}
}

func TestAddBookingBoundaryOverlap(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingsService(f.db, nil)
	ctx := context.Background()

	first, err := svc.AddBooking(ctx, f.user, book("2024-01-10", "2024-01-15", f.room.ID))
	require.NoError(t, err)
	assert.Equal(t, 100, first.Price)
	assert.Equal(t, 5, first.TotalDays)
	assert.Equal(t, 500, first.TotalCost)
	assert.Equal(t, "2024-01-10", first.DateFrom)

	// Sharing the checkout day is a conflict: ranges are closed.
	_, err = svc.AddBooking(ctx, f.user, book("2024-01-15", "2024-01-20", f.room.ID))
	assert.ErrorIs(t, err, ErrRoomCannotBeBooked)

	_, err = svc.AddBooking(ctx, f.user, book("2024-01-05", "2024-01-10", f.room.ID))
	assert.ErrorIs(t, err, ErrRoomCannotBeBooked)

	_, err = svc.AddBooking(ctx, f.user, book("2024-01-16", "2024-01-20", f.room.ID))
	assert.NoError(t, err)
}

func TestAddBookingValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingsService(f.db, nil)
	ctx := context.Background()

	_, err := svc.AddBooking(ctx, f.user, book("2024-01-10", "2024-01-15", 999))
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = svc.AddBooking(ctx, f.user, book("2024-01-15", "2024-01-10", f.room.ID))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	zero, err := svc.AddBooking(ctx, f.user, book("2024-03-01", "2024-03-01", f.room.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, zero.TotalDays)
	assert.Equal(t, 0, zero.TotalCost)
}

func TestBookingPriceIsSnapshot(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingsService(f.db, nil)
	ctx := context.Background()

	_, err := svc.AddBooking(ctx, f.user, book("2024-01-10", "2024-01-12", f.room.ID))
	require.NoError(t, err)

	changed := *f.room
	changed.Price = 250
	_, err = NewRoomsService(f.db, nil).Update(ctx, f.room.ID, changed)
	require.NoError(t, err)

	list, err := svc.ListForUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 100, list[0].Price)
	assert.Equal(t, 200, list[0].TotalCost)
}

func TestDeleteBookingFreesRoom(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingsService(f.db, nil)
	ctx := context.Background()

	b, err := svc.AddBooking(ctx, f.user, book("2024-01-10", "2024-01-15", f.room.ID))
	require.NoError(t, err)

	// Someone else's delete is silently ignored.
	deleted, err := svc.DeleteBooking(ctx, f.user.ID+1, b.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.DeleteBooking(ctx, f.user.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteBooking(ctx, f.user.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.AddBooking(ctx, f.user, book("2024-01-10", "2024-01-15", f.room.ID))
	assert.NoError(t, err)
}

func TestGetForUserHidesOtherUsersBookings(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingsService(f.db, nil)
	ctx := context.Background()

	b, err := svc.AddBooking(ctx, f.user, book("2024-01-10", "2024-01-15", f.room.ID))
	require.NoError(t, err)

	got, err := svc.GetForUser(ctx, f.user.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.GetForUser(ctx, f.user.ID+1, b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateBooking(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingsService(f.db, nil)
	ctx := context.Background()

	pricey, err := NewRoomsService(f.db, nil).Create(ctx, models.Room{HotelID: f.hotel.ID, Name: "Suite", Price: 300})
	require.NoError(t, err)

	a, err := svc.AddBooking(ctx, f.user, book("2024-01-10", "2024-01-15", f.room.ID))
	require.NoError(t, err)
	_, err = svc.AddBooking(ctx, f.user, book("2024-01-20", "2024-01-25", f.room.ID))
	require.NoError(t, err)

	// Overlapping only itself is fine.
	moved, err := svc.UpdateBooking(ctx, f.user.ID, a.ID, book("2024-01-12", "2024-01-17", f.room.ID))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-12", moved.DateFrom)
	assert.Equal(t, 100, moved.Price)

	_, err = svc.UpdateBooking(ctx, f.user.ID, a.ID, book("2024-01-17", "2024-01-21", f.room.ID))
	assert.ErrorIs(t, err, ErrRoomCannotBeBooked)

	_, err = svc.UpdateBooking(ctx, f.user.ID+1, a.ID, book("2024-01-12", "2024-01-17", f.room.ID))
	assert.ErrorIs(t, err, ErrBookingNotFound)

	switched, err := svc.UpdateBooking(ctx, f.user.ID, a.ID, book("2024-01-12", "2024-01-14", pricey.ID))
	require.NoError(t, err)
	assert.Equal(t, pricey.ID, switched.RoomID)
	assert.Equal(t, 300, switched.Price)
	assert.Equal(t, 600, switched.TotalCost)
}

func TestAddBookingNotifies(t *testing.T) {
	f := newFixture(t)
	n := &recordingNotifier{}
	svc := NewBookingsService(f.db, nil, n)

	b, err := svc.AddBooking(context.Background(), f.user, book("2024-01-10", "2024-01-15", f.room.ID))
	require.NoError(t, err)

	require.Len(t, n.events, 1)
	ev := n.events[0]
	assert.Equal(t, b.ID, ev.Booking.ID)
	assert.Equal(t, f.hotel.ID, ev.HotelID)
	assert.Equal(t, "Alpina", ev.HotelName)
	assert.Equal(t, "guest@example.com", ev.Recipient)
}

func TestConcurrentBookingsOfSameRange(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingsService(f.db, nil)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddBooking(context.Background(), f.user, book("2024-05-01", "2024-05-03", f.room.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrRoomCannotBeBooked):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestAddBookingInvalidatesCachedLists(t *testing.T) {
	f := newFixture(t)
	mr := miniredis.RunT(t)
	store := cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	userKey := "GET:/bookings"
	otherKey := "GET:/bookings:other"
	hotelKey := "GET:/rooms/available/period"
	require.NoError(t, store.Set(ctx, userKey, []byte("[]"), time.Minute, cache.UserBookingsTag(f.user.ID)))
	require.NoError(t, store.Set(ctx, otherKey, []byte("[]"), time.Minute, cache.UserBookingsTag(f.user.ID+1)))
	require.NoError(t, store.Set(ctx, hotelKey, []byte("[]"), time.Minute, cache.HotelAvailabilityTag(f.hotel.ID)))

	svc := NewBookingsService(f.db, store)
	_, err := svc.AddBooking(ctx, f.user, book("2024-01-10", "2024-01-15", f.room.ID))
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, userKey)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, hotelKey)
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, otherKey)
	assert.True(t, ok, "other users' lists stay cached")
}
