// hotel.go - Hotel model

package models

import "gorm.io/datatypes"

type Hotel struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"index;not null" json:"name"`
	City          string         `gorm:"index;not null" json:"city"`
	Location      string         `gorm:"index;not null" json:"location"`
	Services      datatypes.JSON `json:"services"` // free-form amenities
	RoomsQuantity int            `gorm:"not null" json:"rooms_quantity"`
	ImageID       string         `json:"image_id"`
}
