// errors.go - Domain error to HTTP response mapping

package handlers

import (
	"errors"
	"log"
	"net/http"

	"hotel-bookings-backend/services"

	"github.com/gin-gonic/gin"
)

var errorResponses = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrUserAlreadyExists, http.StatusConflict, "User already exists"},
	{services.ErrRoomCannotBeBooked, http.StatusConflict, "Room cannot be booked"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{services.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{services.ErrInvalidTokenFormat, http.StatusUnauthorized, "Invalid token format"},
	{services.ErrTokenExpired, http.StatusUnauthorized, "Token has expired"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrHotelNotFound, http.StatusNotFound, "Hotel not found"},
	{services.ErrRoomNotFound, http.StatusNotFound, "Room not found"},
	{services.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{services.ErrInvalidDateRange, http.StatusBadRequest, "date_from must not be after date_to"},
}

// RespondError aborts the request with the status and message registered for
// err. Unknown errors are logged and answered with a generic 500.
func RespondError(c *gin.Context, err error) {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			c.AbortWithStatusJSON(r.status, gin.H{"error": r.message})
			return
		}
	}
	log.Printf("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
