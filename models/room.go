package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	HotelID    uint   `json:"hotel_id" gorm:"column:hotel_id;index"`
	RoomNumber string `json:"room_number" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`

	// Category is the rate segment a pricing rule can target
	// (standard, superior, deluxe, ...).
	Category     string  `json:"category" gorm:"type:varchar(50);index"`
	MaxOccupancy int     `json:"max_occupancy" gorm:"column:max_occupancy"`
	BasePrice    float64 `json:"base_price" gorm:"column:base_price"`
	IsActive     bool    `json:"is_active" gorm:"column:is_active;default:true"`
	Description  string  `json:"description,omitempty" gorm:"type:text"`

	Hotel Hotel `gorm:"foreignKey:HotelID" json:"-"`
}
