// hotels.go - Hotel CRUD

package services

import (
	"context"

	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/models"
	"hotel-bookings-backend/repository"

	"gorm.io/gorm"
)

type HotelsService struct {
	hotels *repository.Repository[models.Hotel]
	cache  cache.Store // Nil disables invalidation
}

func NewHotelsService(db *gorm.DB, store cache.Store) *HotelsService {
	return &HotelsService{hotels: repository.New[models.Hotel](db), cache: store}
}

// List returns every hotel ordered by id.
func (s *HotelsService) List(ctx context.Context) ([]models.Hotel, error) {
	return s.hotels.FindAll(ctx, nil)
}

func (s *HotelsService) Get(ctx context.Context, id uint) (*models.Hotel, error) {
	hotel, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, ErrHotelNotFound
	}
	return hotel, nil
}

// Create stores a new hotel. A client-supplied id is ignored.
func (s *HotelsService) Create(ctx context.Context, in models.Hotel) (*models.Hotel, error) {
	in.ID = 0 // Let the database assign it
	if err := s.hotels.AddOne(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// Update replaces every editable field of the hotel with the values in in.
func (s *HotelsService) Update(ctx context.Context, id uint, in models.Hotel) (*models.Hotel, error) {
	hotel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.hotels.UpdateOne(ctx, hotel, map[string]any{
		"name":           in.Name,
		"city":           in.City,
		"location":       in.Location,
		"services":       in.Services,
		"rooms_quantity": in.RoomsQuantity,
		"image_id":       in.ImageID,
	})
	if err != nil {
		return nil, err
	}
	return hotel, nil
}

// Delete removes the hotel; its rooms and their bookings go with it.
func (s *HotelsService) Delete(ctx context.Context, id uint) error {
	hotel, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// STEP 1: Collect the owners of every booking that is about to disappear
	db := s.hotels.DB(ctx)
	rooms := db.Model(&models.Room{}).Select("id").Where("hotel_id = ?", id)
	tags, err := ownerTags(ctx, db, "room_id IN (?)", rooms)
	if err != nil {
		return err
	}
	// STEP 2: Delete; rooms and bookings follow through ON DELETE CASCADE
	if err := s.hotels.DeleteOne(ctx, hotel); err != nil {
		return err
	}
	// STEP 3: Drop their cached lists and the hotel's availability
	cache.Invalidate(ctx, s.cache, append(tags, cache.HotelAvailabilityTag(id))...)
	return nil
}
