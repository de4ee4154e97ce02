package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel-bookings-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondError(c, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body["error"]
}

func TestRespondError(t *testing.T) {
	cases := []struct {
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
		{services.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
		{services.ErrInvalidDateRange, http.StatusBadRequest, "date_from must not be after date_to"},
		{fmt.Errorf("load room: %w", services.ErrRoomNotFound), http.StatusNotFound, "Room not found"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		status, message := respond(t, tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.message, message, tc.err.Error())
	}
}
