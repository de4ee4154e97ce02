// bookings.go - Booking endpoints; every route needs a logged-in user

package handlers

import (
	"net/http"

	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/middleware"
	"hotel-bookings-backend/services"

	"github.com/gin-gonic/gin"
)

// BookingInput is the body of POST and PUT /bookings.
type BookingInput struct {
	RoomID   uint   `json:"room_id" binding:"required"`                     // Room to book
	DateFrom string `json:"date_from" binding:"required,datetime=2006-01-02"` // First night, YYYY-MM-DD
	DateTo   string `json:"date_to" binding:"required,datetime=2006-01-02"`   // Checkout day, YYYY-MM-DD
}

func (in BookingInput) parse() (services.BookingInput, error) {
	from, err := parseDate(in.DateFrom)
	if err != nil {
		return services.BookingInput{}, err
	}
	to, err := parseDate(in.DateTo)
	if err != nil {
		return services.BookingInput{}, err
	}
	return services.BookingInput{RoomID: in.RoomID, DateFrom: from, DateTo: to}, nil
}

// bindBooking parses the request body, answering 400 itself on bad input.
func bindBooking(c *gin.Context) (services.BookingInput, bool) {
	var input BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return services.BookingInput{}, false
	}
	in, err := input.parse()
	if err != nil {
		badRequest(c, err)
		return services.BookingInput{}, false
	}
	return in, true
}

// UserBookingsTags files a cached booking list under its owner.
func UserBookingsTags(c *gin.Context) []string {
	if user := middleware.CurrentUser(c); user != nil {
		return []string{cache.UserBookingsTag(user.ID)}
	}
	return nil
}

// ListBookings returns the caller's bookings. Cached per user.
func (h *Handler) ListBookings(c *gin.Context) {
	user := middleware.CurrentUser(c) // Set by TokenAuth
	bookings, err := h.Bookings.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking answers 404 for bookings the caller does not own.
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	booking, err := h.Bookings.GetForUser(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CreateBooking books a room; 409 when the dates collide with another booking.
func (h *Handler) CreateBooking(c *gin.Context) {
	in, ok := bindBooking(c)
	if !ok {
		return
	}
	booking, err := h.Bookings.AddBooking(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBooking moves one of the caller's bookings to new dates or another room.
func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, ok := bindBooking(c)
	if !ok {
		return
	}
	booking, err := h.Bookings.UpdateBooking(c.Request.Context(), middleware.CurrentUser(c).ID, id, in)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking answers 204 whether or not the caller owned such a booking.
func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.Bookings.DeleteBooking(c.Request.Context(), middleware.CurrentUser(c).ID, id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
