// rooms.go - Room CRUD and availability queries

package services

import (
	"context"
	"time"

	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/models"
	"hotel-bookings-backend/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomForPeriod is a free room together with what a stay over the requested period costs.
type RoomForPeriod struct {
	ID          uint           `json:"id"`
	HotelID     uint           `json:"hotel_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Price       int            `json:"price"`
	Services    datatypes.JSON `json:"services"`
	Quantity    int            `json:"quantity"`
	ImageID     *int           `json:"image_id"`
	TotalDays   int            `json:"total_days"` // Nights in the requested period
	TotalCost   int            `json:"total_cost"` // TotalDays * Price
}

type RoomsService struct {
	rooms  *repository.Repository[models.Room]
	hotels *repository.Repository[models.Hotel]
	cache  cache.Store      // Nil disables invalidation
	now    func() time.Time // Replaced in tests
}

func NewRoomsService(db *gorm.DB, store cache.Store) *RoomsService {
	return &RoomsService{
		rooms:  repository.New[models.Room](db),
		hotels: repository.New[models.Hotel](db),
		cache:  store,
		now:    time.Now,
	}
}

// AvailableNow lists the rooms of hotelID that have no booking covering today.
func (s *RoomsService) AvailableNow(ctx context.Context, hotelID uint) ([]models.Room, error) {
	today := models.Day(s.now().UTC())
	db := s.rooms.DB(ctx)

	booked := overlapping(db, today, today).Select("room_id") // Rooms occupied today
	rooms := make([]models.Room, 0)
	err := db.Where("hotel_id = ?", hotelID).
		Where("id NOT IN (?)", booked).
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// AvailableForPeriod lists the rooms of hotelID with no booking overlapping
// [from, to], priced for a stay of to - from days.
func (s *RoomsService) AvailableForPeriod(ctx context.Context, hotelID uint, from, to time.Time) ([]RoomForPeriod, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	db := s.rooms.DB(ctx)

	booked := overlapping(db, from, to).Select("room_id")
	var rooms []models.Room
	err := db.Where("hotel_id = ?", hotelID).
		Where("id NOT IN (?)", booked).
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}

	days := models.DaysBetween(from, to) // Same for every room
	out := make([]RoomForPeriod, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomForPeriod{
			ID:          r.ID,
			HotelID:     r.HotelID,
			Name:        r.Name,
			Description: r.Description,
			Price:       r.Price,
			Services:    r.Services,
			Quantity:    r.Quantity,
			ImageID:     r.ImageID,
			TotalDays:   days,
			TotalCost:   days * r.Price,
		})
	}
	return out, nil
}

// List returns all rooms, or those of one hotel when hotelID is set.
func (s *RoomsService) List(ctx context.Context, hotelID *uint) ([]models.Room, error) {
	if hotelID == nil {
		return s.rooms.FindAll(ctx, nil)
	}
	return s.rooms.FindAll(ctx, repository.Filters{"hotel_id": *hotelID})
}

// Get returns ErrRoomNotFound for unknown ids.
func (s *RoomsService) Get(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Create adds a room to an existing hotel.
func (s *RoomsService) Create(ctx context.Context, in models.Room) (*models.Room, error) {
	if err := s.ensureHotel(ctx, in.HotelID); err != nil {
		return nil, err
	}
	in.ID = 0
	if err := s.rooms.AddOne(ctx, &in); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, s.cache, cache.HotelAvailabilityTag(in.HotelID))
	return &in, nil
}

// Update replaces every editable field of the room. Existing bookings keep their price.
func (s *RoomsService) Update(ctx context.Context, id uint, in models.Room) (*models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldHotel := room.HotelID
	if in.HotelID == 0 { // Omitted hotel_id keeps the room where it is
		in.HotelID = oldHotel
	}
	if in.HotelID != oldHotel {
		if err := s.ensureHotel(ctx, in.HotelID); err != nil {
			return nil, err
		}
	}

	err = s.rooms.UpdateOne(ctx, room, map[string]any{
		"hotel_id":    in.HotelID,
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"services":    in.Services,
		"quantity":    in.Quantity,
		"image_id":    in.ImageID,
	})
	if err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, s.cache, cache.HotelAvailabilityTag(oldHotel), cache.HotelAvailabilityTag(room.HotelID))
	return room, nil
}

// Delete removes the room together with its bookings.
func (s *RoomsService) Delete(ctx context.Context, id uint) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// STEP 1: Bookings of the room cascade away with it; their owners' lists go stale
	tags, err := ownerTags(ctx, s.rooms.DB(ctx), "room_id = ?", room.ID)
	if err != nil {
		return err
	}
	// STEP 2: Delete the room and invalidate
	if err := s.rooms.DeleteOne(ctx, room); err != nil {
		return err
	}
	cache.Invalidate(ctx, s.cache, append(tags, cache.HotelAvailabilityTag(room.HotelID))...)
	return nil
}

// ensureHotel returns ErrHotelNotFound unless hotelID exists.
func (s *RoomsService) ensureHotel(ctx context.Context, hotelID uint) error {
	hotel, err := s.hotels.FindByID(ctx, hotelID)
	if err != nil {
		return err
	}
	if hotel == nil {
		return ErrHotelNotFound
	}
	return nil
}
