// rooms.go - Room endpoints, including the availability queries

package handlers

import (
	"net/http"

	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// RoomInput is the body of POST and PUT /rooms.
type RoomInput struct {
	HotelID     uint           `json:"hotel_id"`                 // Owning hotel; ?hotel_id wins on POST
	Name        string         `json:"name" binding:"required"`  // Room type name
	Description *string        `json:"description"`              // Optional text
	Price       int            `json:"price" binding:"gte=0"`    // Price per night
	Services    datatypes.JSON `json:"services"`                 // Any JSON
	Quantity    int            `json:"quantity" binding:"gte=0"` // Rooms of this type
	ImageID     *int           `json:"image_id"`                 // Optional image reference
}

func (in RoomInput) model() models.Room {
	return models.Room{
		HotelID:     in.HotelID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Services:    in.Services,
		Quantity:    in.Quantity,
		ImageID:     in.ImageID,
	}
}

type hotelQuery struct { // ?hotel_id=
	HotelID uint `form:"hotel_id" binding:"required,gt=0"`
}

type periodQuery struct {
	HotelID  uint   `form:"hotel_id" binding:"required,gt=0"`
	DateFrom string `form:"date_from" binding:"required,datetime=2006-01-02"` // Arrival
	DateTo   string `form:"date_to" binding:"required,datetime=2006-01-02"`   // Departure
}

// AvailabilityTags puts a cached availability answer under the tag of the
// hotel it was asked for.
func AvailabilityTags(c *gin.Context) []string {
	var q hotelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return nil
	}
	return []string{cache.HotelAvailabilityTag(q.HotelID)}
}

// AvailableRooms lists the rooms of ?hotel_id with no booking covering today.
func (h *Handler) AvailableRooms(c *gin.Context) {
	var q hotelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	rooms, err := h.Rooms.AvailableNow(c.Request.Context(), q.HotelID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// AvailableRoomsForPeriod lists free rooms for [date_from, date_to] with
// total_days and total_cost filled in. Cached per hotel.
func (h *Handler) AvailableRoomsForPeriod(c *gin.Context) {
	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	from, err := parseDate(q.DateFrom)
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := parseDate(q.DateTo)
	if err != nil {
		badRequest(c, err)
		return
	}
	rooms, err := h.Rooms.AvailableForPeriod(c.Request.Context(), q.HotelID, from, to)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// ListRooms lists every room, or only those of ?hotel_id.
func (h *Handler) ListRooms(c *gin.Context) {
	var filter *uint
	if c.Query("hotel_id") != "" {
		var q hotelQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}
		filter = &q.HotelID
	}
	rooms, err := h.Rooms.List(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom answers 404 for unknown ids.
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.Rooms.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CreateRoom takes the hotel from ?hotel_id, falling back to the body.
func (h *Handler) CreateRoom(c *gin.Context) {
	var input RoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if c.Query("hotel_id") != "" {
		var q hotelQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}
		input.HotelID = q.HotelID
	}
	if input.HotelID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hotel_id is required"})
		return
	}
	room, err := h.Rooms.Create(c.Request.Context(), input.model())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom replaces the room; an omitted hotel_id keeps the current hotel.
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input RoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.Rooms.Update(c.Request.Context(), id, input.model())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom removes the room and its bookings.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Rooms.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
