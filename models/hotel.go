package models

import (
	"time"

	"gorm.io/gorm"
)

type Hotel struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string `gorm:"size:255" json:"name"`
	City     string `gorm:"size:100" json:"city,omitempty"`
	Currency string `gorm:"size:3;default:'THB'" json:"currency"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Rooms []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}
