// booking.go - Booking model and its derived pricing

package models

import (
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format of every calendar date in the API.
const DateLayout = "2006-01-02"

// Booking reserves a room for the closed range [DateFrom, DateTo].
// Price is copied from the room when the booking is made.
type Booking struct {
	ID       uint           `gorm:"primaryKey"`
	UserID   uint           `gorm:"not null;index"`
	User     User           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	RoomID   uint           `gorm:"not null;index:idx_bookings_room_dates"`
	Room     Room           `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	DateFrom datatypes.Date `gorm:"not null;index:idx_bookings_room_dates"`
	DateTo   datatypes.Date `gorm:"not null;index:idx_bookings_room_dates"`
	Price    int            `gorm:"not null"`
}

// TotalDays is the length of the stay as a pure duration (DateTo - DateFrom).
func (b Booking) TotalDays() int {
	return DaysBetween(time.Time(b.DateFrom), time.Time(b.DateTo))
}

// TotalCost is TotalDays multiplied by the snapshot price.
func (b Booking) TotalCost() int {
	return b.TotalDays() * b.Price
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b. It counts in Unix
// seconds because a time.Duration cannot span more than about 292 years.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60
