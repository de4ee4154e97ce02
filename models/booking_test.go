package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(utcDate(2024, 3, 1), utcDate(2024, 3, 1)))
	assert.Equal(t, 3, DaysBetween(utcDate(2024, 2, 1), utcDate(2024, 2, 4)))
	assert.Equal(t, 29, DaysBetween(utcDate(2024, 2, 1), utcDate(2024, 3, 1)))
	assert.Equal(t, -3, DaysBetween(utcDate(2024, 2, 4), utcDate(2024, 2, 1)))

	// Time of day is ignored.
	assert.Equal(t, 1, DaysBetween(
		time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC),
	))

	// Longer than a time.Duration can hold.
	assert.Equal(t, 146097, DaysBetween(utcDate(1700, 1, 1), utcDate(2100, 1, 1)))
	assert.Equal(t, 3652058, DaysBetween(utcDate(1, 1, 1), utcDate(9999, 12, 31)))
}

func TestBookingTotals(t *testing.T) {
	b := Booking{
		DateFrom: datatypes.Date(utcDate(1700, 1, 1)),
		DateTo:   datatypes.Date(utcDate(2100, 1, 1)),
		Price:    100,
	}
	assert.Equal(t, 146097, b.TotalDays())
	assert.Equal(t, 14609700, b.TotalCost())
}
