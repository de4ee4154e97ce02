package services

import (
	"context"
	"time"

	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/models"

	"gorm.io/gorm"
)

// overlapping selects bookings whose closed range intersects [from, to]:
// existing.date_from <= to AND existing.date_to >= from.
func overlapping(db *gorm.DB, from, to time.Time) *gorm.DB {
	return db.Model(&models.Booking{}).
		Where("date_from <= ? AND date_to >= ?", models.Day(to), models.Day(from))
}

func validateRange(from, to time.Time) error {
	if models.Day(from).After(models.Day(to)) {
		return ErrInvalidDateRange
	}
	return nil
}

// ownerTags returns the booking list tags of every user holding a booking
// that matches query. Deletes that cascade into bookings call it before the
// rows are gone.
func ownerTags(ctx context.Context, db *gorm.DB, query string, args ...any) ([]string, error) {
	var userIDs []uint
	err := db.WithContext(ctx).Model(&models.Booking{}).
		Where(query, args...).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		tags = append(tags, cache.UserBookingsTag(id))
	}
	return tags, nil
}

// bookedHotelTags returns the availability tags of every hotel where userID holds a booking.
func bookedHotelTags(ctx context.Context, db *gorm.DB, userID uint) ([]string, error) {
	var hotelIDs []uint
	err := db.WithContext(ctx).Model(&models.Room{}).
		Joins("JOIN bookings ON bookings.room_id = rooms.id").
		Where("bookings.user_id = ?", userID).
		Distinct("rooms.hotel_id").
		Pluck("rooms.hotel_id", &hotelIDs).Error
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(hotelIDs))
	for _, id := range hotelIDs {
		tags = append(tags, cache.HotelAvailabilityTag(id))
	}
	return tags, nil
}
