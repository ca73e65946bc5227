package models

import (
	"time"

	"gorm.io/gorm"
)

// Passenger types a transport route can sell seats for. A route opts out of a
// type by leaving its price at zero.
const (
	PassengerAdult  = "adult"
	PassengerChild  = "child"
	PassengerInfant = "infant"
)

var PassengerTypes = []string{PassengerAdult, PassengerChild, PassengerInfant}

type TransportService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:255" json:"name"`
	VehicleType string `gorm:"column:vehicle_type;type:varchar(50)" json:"vehicle_type"`
	Currency    string `gorm:"size:3;default:'THB'" json:"currency"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Routes []TransportRoute `gorm:"foreignKey:ServiceID" json:"routes,omitempty"`
}

type TransportRoute struct {
	gorm.Model

	ServiceID   uint   `json:"service_id" gorm:"column:service_id;index"`
	Origin      string `json:"origin" gorm:"type:varchar(100)"`
	Destination string `json:"destination" gorm:"type:varchar(100)"`

	AdultPrice  float64 `json:"adult_price" gorm:"column:adult_price"`
	ChildPrice  float64 `json:"child_price" gorm:"column:child_price"`
	InfantPrice float64 `json:"infant_price" gorm:"column:infant_price"`
	IsActive    bool    `json:"is_active" gorm:"column:is_active;default:true"`

	Service TransportService `gorm:"foreignKey:ServiceID" json:"-"`
}

// Key is the route segment a pricing rule can target, e.g. "BKK-CNX".
func (r TransportRoute) Key() string {
	return r.Origin + "-" + r.Destination
}

// PriceFor returns the base price for a passenger type and whether the route
// offers that type at all.
func (r TransportRoute) PriceFor(passengerType string) (float64, bool) {
	var price float64
	switch passengerType {
	case PassengerAdult:
		price = r.AdultPrice
	case PassengerChild:
		price = r.ChildPrice
	case PassengerInfant:
		price = r.InfantPrice
	default:
		return 0, false
	}
	if price <= 0 {
		return 0, false
	}
	return price, true
}
