// errors.go - Domain errors returned by the services
//
// Handlers translate these into HTTP statuses; see handlers/errors.go.

package services

import (
	"errors"

	"hotel-bookings-backend/auth"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidTokenFormat = auth.ErrTokenMalformed
	ErrTokenExpired       = auth.ErrTokenExpired

	ErrUserNotFound    = errors.New("user not found")
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrRoomCannotBeBooked = errors.New("room cannot be booked")
	ErrInvalidDateRange   = errors.New("date_from must not be after date_to")
)
