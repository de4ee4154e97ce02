// handler.go - Shared state and helpers for the HTTP handlers

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"hotel-bookings-backend/models"
	"hotel-bookings-backend/services"

	"github.com/gin-gonic/gin"
)

// Handler serves the JSON API on top of the domain services.
type Handler struct {
	Users    *services.UsersService
	Hotels   *services.HotelsService
	Rooms    *services.RoomsService
	Bookings *services.BookingsService

	TokenTTL     time.Duration // Max age of the access_token cookie
	CookieSecure bool          // Send the cookie over HTTPS only
}

// Welcome answers GET /.
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Hotel Bookings"})
}

// pathID reads a numeric path parameter, answering 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// parseDate parses a YYYY-MM-DD value. Inputs reaching it were checked by the
// datetime binding tag already.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, s, time.UTC)
}
