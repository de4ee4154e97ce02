// views.go - Model views shown in the admin panel

package admin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hotel-bookings-backend/models"
	"hotel-bookings-backend/repository"
	"hotel-bookings-backend/services"

	"gorm.io/gorm"
)

// View is one model as the admin panel sees it.
type View interface {
	Name() string
	Title() string
	Columns() []string
	Deletable() bool
	List(ctx context.Context) ([][]string, error)
	Details(ctx context.Context, id uint) ([]string, error)
	Delete(ctx context.Context, id uint) error
}

type modelView[T any] struct {
	name    string
	title   string
	columns []string
	repo    *repository.Repository[T]
	cells   func(*T) []string
	remove  func(ctx context.Context, id uint) error
}

func (v *modelView[T]) Name() string      { return v.name }
func (v *modelView[T]) Title() string     { return v.title }
func (v *modelView[T]) Columns() []string { return v.columns }
func (v *modelView[T]) Deletable() bool   { return v.remove != nil }

func (v *modelView[T]) List(ctx context.Context) ([][]string, error) {
	rows, err := v.repo.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for i := range rows {
		out = append(out, v.cells(&rows[i]))
	}
	return out, nil
}

// Details returns the row cells of one record, or nil when it does not exist.
func (v *modelView[T]) Details(ctx context.Context, id uint) ([]string, error) {
	row, err := v.repo.FindByID(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	return v.cells(row), nil
}

func (v *modelView[T]) Delete(ctx context.Context, id uint) error {
	if v.remove == nil {
		return errNotDeletable
	}
	return v.remove(ctx, id)
}

// Services are used for deletes so the response cache is invalidated the
// same way as through the API.
type Services struct {
	Hotels   *services.HotelsService
	Rooms    *services.RoomsService
	Bookings *services.BookingsService
}

// DefaultViews lists users, bookings, hotels and rooms. Users can only be viewed.
func DefaultViews(db *gorm.DB, svc Services) []View {
	return []View{
		&modelView[models.User]{
			name:    "users",
			title:   "Users",
			columns: []string{"id", "email"},
			repo:    repository.New[models.User](db),
			cells: func(u *models.User) []string {
				return []string{id(u.ID), u.Email}
			},
		},
		&modelView[models.Booking]{
			name:    "bookings",
			title:   "Bookings",
			columns: []string{"id", "user_id", "room_id", "date_from", "date_to", "price"},
			repo:    repository.New[models.Booking](db),
			cells: func(b *models.Booking) []string {
				return []string{
					id(b.ID), id(b.UserID), id(b.RoomID),
					time.Time(b.DateFrom).Format(models.DateLayout),
					time.Time(b.DateTo).Format(models.DateLayout),
					strconv.Itoa(b.Price),
				}
			},
			remove: svc.Bookings.Remove,
		},
		&modelView[models.Hotel]{
			name:    "hotels",
			title:   "Hotels",
			columns: []string{"id", "name", "location"},
			repo:    repository.New[models.Hotel](db),
			cells: func(h *models.Hotel) []string {
				return []string{id(h.ID), h.Name, h.Location}
			},
			remove: svc.Hotels.Delete,
		},
		&modelView[models.Room]{
			name:    "rooms",
			title:   "Rooms",
			columns: []string{"id", "hotel_id", "description", "price"},
			repo:    repository.New[models.Room](db),
			cells: func(r *models.Room) []string {
				desc := ""
				if r.Description != nil {
					desc = *r.Description
				}
				return []string{id(r.ID), id(r.HotelID), desc, strconv.Itoa(r.Price)}
			},
			remove: svc.Rooms.Delete,
		},
	}
}

func id(v uint) string {
	return fmt.Sprint(v)
}
