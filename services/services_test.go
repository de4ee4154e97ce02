package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hotel-bookings-backend/database"
	"hotel-bookings-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func date(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// fixture is one hotel with one room priced 100 and one guest.
type fixture struct {
	db    *gorm.DB
	user  *models.User
	hotel *models.Hotel
	room  *models.Room
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	ctx := context.Background()

	users := NewUsersService(db, nil, "test-secret", time.Hour)
	user, err := users.Register(ctx, "guest@example.com", "secret")
	require.NoError(t, err)

	hotel, err := NewHotelsService(db, nil).Create(ctx, models.Hotel{
		Name: "Alpina", City: "Zermatt", Location: "Bahnhofstrasse 1", RoomsQuantity: 10,
	})
	require.NoError(t, err)

	room, err := NewRoomsService(db, nil).Create(ctx, models.Room{
		HotelID: hotel.ID, Name: "Double", Price: 100, Quantity: 2,
	})
	require.NoError(t, err)

	return &fixture{db: db, user: user, hotel: hotel, room: room}
}
