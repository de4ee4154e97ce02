// bookings.go - Booking creation with the room conflict check
//
// The room lookup, the overlap check and the insert run in one transaction
// while holding writeMu, so two requests for the same dates cannot both pass
// the check. On PostgreSQL the transaction is also SERIALIZABLE, which covers
// several server instances sharing one database.

package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync"
	"time"

	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/models"
	"hotel-bookings-backend/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BookingInput is what a guest asks for.
type BookingInput struct {
	RoomID   uint      // Room to book
	DateFrom time.Time // First night
	DateTo   time.Time // Checkout day, must be after DateFrom
}

// BookingRead is the public view of a booking.
type BookingRead struct {
	ID        uint   `json:"id"`
	RoomID    uint   `json:"room_id"`
	UserID    uint   `json:"user_id"`
	DateFrom  string `json:"date_from"`  // YYYY-MM-DD
	DateTo    string `json:"date_to"`    // YYYY-MM-DD
	Price     int    `json:"price"`      // Nightly price locked at booking time
	TotalDays int    `json:"total_days"` // Derived, DateTo - DateFrom
	TotalCost int    `json:"total_cost"` // Derived, Price * TotalDays
}

// NewBookingRead converts a stored booking to its public view.
func NewBookingRead(b models.Booking) BookingRead {
	return BookingRead{
		ID:        b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		DateFrom:  time.Time(b.DateFrom).Format(models.DateLayout),
		DateTo:    time.Time(b.DateTo).Format(models.DateLayout),
		Price:     b.Price,
		TotalDays: b.TotalDays(),
		TotalCost: b.TotalCost(),
	}
}

// AsMap flattens the booking into the attribute mapping handed to notifiers.
func (b BookingRead) AsMap() map[string]any {
	return map[string]any{
		"id":         b.ID,
		"room_id":    b.RoomID,
		"user_id":    b.UserID,
		"date_from":  b.DateFrom,
		"date_to":    b.DateTo,
		"price":      b.Price,
		"total_days": b.TotalDays,
		"total_cost": b.TotalCost,
	}
}

// BookingCreated describes a new booking for the notifiers.
type BookingCreated struct {
	Booking   BookingRead
	HotelID   uint
	HotelName string // Empty if the hotel could not be loaded
	Recipient string // Email of the guest
}

// BookingNotifier is told about every booking once it is committed.
type BookingNotifier interface {
	BookingCreated(ctx context.Context, event BookingCreated) error
}

type BookingsService struct {
	db        *gorm.DB
	bookings  *repository.Repository[models.Booking]
	rooms     *repository.Repository[models.Room]
	hotels    *repository.Repository[models.Hotel]
	cache     cache.Store       // Nil disables invalidation
	notifiers []BookingNotifier // Mail, MQTT

	writeMu sync.Mutex // Serializes the conflict check and the write
}

func NewBookingsService(db *gorm.DB, store cache.Store, notifiers ...BookingNotifier) *BookingsService {
	return &BookingsService{
		db:        db,
		bookings:  repository.New[models.Booking](db),
		rooms:     repository.New[models.Room](db),
		hotels:    repository.New[models.Hotel](db),
		cache:     store,
		notifiers: notifiers,
	}
}

// ListForUser returns the bookings owned by userID.
func (s *BookingsService) ListForUser(ctx context.Context, userID uint) ([]BookingRead, error) {
	rows, err := s.bookings.FindAll(ctx, repository.Filters{"user_id": userID})
	if err != nil {
		return nil, err
	}
	out := make([]BookingRead, 0, len(rows))
	for _, b := range rows {
		out = append(out, NewBookingRead(b))
	}
	return out, nil
}

// GetForUser returns a booking only if userID owns it.
func (s *BookingsService) GetForUser(ctx context.Context, userID, id uint) (*BookingRead, error) {
	b, err := s.ownedBooking(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	read := NewBookingRead(*b)
	return &read, nil
}

// AddBooking books a room for user, copying the room's current price.
func (s *BookingsService) AddBooking(ctx context.Context, user *models.User, in BookingInput) (*BookingRead, error) {
	// STEP 1: Reject empty or reversed ranges
	if err := validateRange(in.DateFrom, in.DateTo); err != nil {
		return nil, err
	}

	// STEP 2: Check the room and insert in one transaction
	var (
		created models.Booking
		room    *models.Room
	)
	err := s.write(ctx, func(tx *gorm.DB) error {
		var err error
		room, err = s.bookableRoom(ctx, tx, in, 0)
		if err != nil {
			return err
		}
		created = models.Booking{
			UserID:   user.ID,
			RoomID:   room.ID,
			DateFrom: datatypes.Date(models.Day(in.DateFrom)),
			DateTo:   datatypes.Date(models.Day(in.DateTo)),
			Price:    room.Price, // Later price changes do not touch this booking
		}
		return s.bookings.WithTx(tx).AddOne(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	// STEP 3: Drop the cached lists this booking changes
	cache.Invalidate(ctx, s.cache, cache.UserBookingsTag(user.ID), cache.HotelAvailabilityTag(room.HotelID))

	// STEP 4: Tell the notifiers; their failures are only logged
	read := NewBookingRead(created)
	s.notify(ctx, BookingCreated{
		Booking:   read,
		HotelID:   room.HotelID,
		HotelName: s.hotelName(ctx, room.HotelID),
		Recipient: user.Email,
	})
	return &read, nil
}

// UpdateBooking moves a booking to another room and/or period. The new range is
// conflict-checked against every other booking; the price is taken again only
// when the room changes.
func (s *BookingsService) UpdateBooking(ctx context.Context, userID, id uint, in BookingInput) (*BookingRead, error) {
	// STEP 1: Reject empty or reversed ranges
	if err := validateRange(in.DateFrom, in.DateTo); err != nil {
		return nil, err
	}

	var (
		booking  *models.Booking
		oldHotel uint
		room     *models.Room
	)
	err := s.write(ctx, func(tx *gorm.DB) error {
		var err error
		// STEP 2: Load the booking and remember where it was
		booking, err = s.ownedBookingTx(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if old, err := s.rooms.WithTx(tx).FindByID(ctx, booking.RoomID); err != nil {
			return err
		} else if old != nil {
			oldHotel = old.HotelID
		}

		// STEP 3: Check the target room, ignoring this booking itself
		room, err = s.bookableRoom(ctx, tx, in, booking.ID)
		if err != nil {
			return err
		}
		fields := map[string]any{
			"room_id":   room.ID,
			"date_from": datatypes.Date(models.Day(in.DateFrom)),
			"date_to":   datatypes.Date(models.Day(in.DateTo)),
		}
		if room.ID != booking.RoomID {
			fields["price"] = room.Price // Re-price only on a room change
		}
		return s.bookings.WithTx(tx).UpdateOne(ctx, booking, fields)
	})
	if err != nil {
		return nil, err
	}

	// STEP 4: Invalidate both hotels when the booking moved between them
	tags := []string{cache.UserBookingsTag(userID), cache.HotelAvailabilityTag(room.HotelID)}
	if oldHotel != 0 && oldHotel != room.HotelID {
		tags = append(tags, cache.HotelAvailabilityTag(oldHotel))
	}
	cache.Invalidate(ctx, s.cache, tags...)

	read := NewBookingRead(*booking)
	return &read, nil
}

// DeleteBooking removes a booking owned by userID. It reports whether anything was deleted;
// a missing or foreign booking is not an error.
func (s *BookingsService) DeleteBooking(ctx context.Context, userID, id uint) (bool, error) {
	// STEP 1: Find the booking; someone else's counts as missing
	booking, err := s.ownedBooking(ctx, userID, id)
	if errors.Is(err, ErrBookingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	room, err := s.rooms.FindByID(ctx, booking.RoomID)
	if err != nil {
		return false, err
	}

	// STEP 2: Delete under the write lock
	s.writeMu.Lock()
	err = s.bookings.DeleteOne(ctx, booking)
	s.writeMu.Unlock()
	if err != nil {
		return false, err
	}

	// STEP 3: Invalidate the user's list and the hotel's availability
	tags := []string{cache.UserBookingsTag(userID)}
	if room != nil {
		tags = append(tags, cache.HotelAvailabilityTag(room.HotelID))
	}
	cache.Invalidate(ctx, s.cache, tags...)
	return true, nil
}

// Remove deletes a booking regardless of its owner. Used by the admin panel.
func (s *BookingsService) Remove(ctx context.Context, id uint) error {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	_, err = s.DeleteBooking(ctx, booking.UserID, booking.ID)
	return err
}

// bookableRoom loads the requested room and checks that no booking other than
// exclude overlaps the requested range.
func (s *BookingsService) bookableRoom(ctx context.Context, tx *gorm.DB, in BookingInput, exclude uint) (*models.Room, error) {
	room, err := s.rooms.WithTx(tx).FindByID(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	q := overlapping(tx.WithContext(ctx), in.DateFrom, in.DateTo).Where("room_id = ?", room.ID)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	var conflicts int64
	if err := q.Count(&conflicts).Error; err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, ErrRoomCannotBeBooked
	}
	return room, nil
}

// write runs fn in a transaction while holding writeMu.
func (s *BookingsService) write(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var opts []*sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable}) // Guards against other instances
	}
	return s.db.WithContext(ctx).Transaction(fn, opts...)
}

func (s *BookingsService) ownedBooking(ctx context.Context, userID, id uint) (*models.Booking, error) {
	return s.ownedBookingTx(ctx, s.db, userID, id)
}

func (s *BookingsService) ownedBookingTx(ctx context.Context, tx *gorm.DB, userID, id uint) (*models.Booking, error) {
	b, err := s.bookings.WithTx(tx).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil || b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *BookingsService) hotelName(ctx context.Context, hotelID uint) string {
	hotel, err := s.hotels.FindByID(ctx, hotelID)
	if err != nil || hotel == nil {
		return ""
	}
	return hotel.Name
}

// notify fans the event out to every notifier.
func (s *BookingsService) notify(ctx context.Context, event BookingCreated) {
	for _, n := range s.notifiers {
		if err := n.BookingCreated(ctx, event); err != nil {
			log.Printf("[BOOKINGS] notify booking %d: %v", event.Booking.ID, err)
		}
	}
}
