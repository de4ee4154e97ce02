package handlers

import (
	"net/http"

	"hotel-bookings-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// HotelInput is the body of POST and PUT /hotels. PUT replaces every field.
type HotelInput struct {
	Name          string         `json:"name" binding:"required"`        // Display name
	City          string         `json:"city" binding:"required"`        // City, used for search
	Location      string         `json:"location" binding:"required"`    // Street address
	Services      datatypes.JSON `json:"services"`                       // Any JSON, e.g. ["wifi", "spa"]
	RoomsQuantity int            `json:"rooms_quantity" binding:"gte=0"` // Number of rooms
	ImageID       string         `json:"image_id"`                       // Image reference
}

func (in HotelInput) model() models.Hotel {
	return models.Hotel{
		Name:          in.Name,
		City:          in.City,
		Location:      in.Location,
		Services:      in.Services,
		RoomsQuantity: in.RoomsQuantity,
		ImageID:       in.ImageID,
	}
}

// ListHotels returns every hotel ordered by id.
func (h *Handler) ListHotels(c *gin.Context) {
	hotels, err := h.Hotels.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotels)
}

// GetHotel answers 404 for unknown ids.
func (h *Handler) GetHotel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	hotel, err := h.Hotels.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// CreateHotel answers 201 with the stored hotel.
func (h *Handler) CreateHotel(c *gin.Context) {
	var input HotelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	hotel, err := h.Hotels.Create(c.Request.Context(), input.model())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hotel)
}

// UpdateHotel replaces every field of the hotel.
func (h *Handler) UpdateHotel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input HotelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	hotel, err := h.Hotels.Update(c.Request.Context(), id, input.model())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// DeleteHotel removes the hotel, its rooms and their bookings.
func (h *Handler) DeleteHotel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Hotels.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
