// room.go - Room model, owned by a Hotel

package models

import "gorm.io/datatypes"

type Room struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	HotelID     uint           `gorm:"not null;index" json:"hotel_id"`
	Hotel       Hotel          `gorm:"foreignKey:HotelID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Description *string        `json:"description"`
	Price       int            `gorm:"not null" json:"price"`
	Services    datatypes.JSON `json:"services"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	ImageID     *int           `json:"image_id"`
}
