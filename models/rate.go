package models

import "time"

// RoomRate is one priced night for one room. Rows are written either by
// manual rate entry or by pricing-rule materialization; Notes records which
// rules produced the price.
type RoomRate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomID uint      `gorm:"column:room_id;uniqueIndex:idx_room_date" json:"room_id"`
	Date   time.Time `gorm:"type:date;uniqueIndex:idx_room_date" json:"date"`

	Price    float64 `json:"price"`
	Currency string  `gorm:"size:3" json:"currency"`
	Notes    string  `gorm:"type:text" json:"notes,omitempty"`
	IsActive bool    `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type TransportRate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RouteID       uint      `gorm:"column:route_id;uniqueIndex:idx_route_date_type" json:"route_id"`
	Date          time.Time `gorm:"type:date;uniqueIndex:idx_route_date_type" json:"date"`
	PassengerType string    `gorm:"column:passenger_type;size:16;uniqueIndex:idx_route_date_type" json:"passenger_type"`

	Price    float64 `json:"price"`
	Currency string  `gorm:"size:3" json:"currency"`
	Notes    string  `gorm:"type:text" json:"notes,omitempty"`
	IsActive bool    `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
