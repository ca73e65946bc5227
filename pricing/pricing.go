// Package pricing holds the rule engine shared by the hotel and transport
// rate flows: matching rules against an inventory item and a date, folding
// their adjustments into a final price, and quoting stays.
package pricing

import (
	"time"

	"travel-pricing-backend/models"
)

// Item is the engine's view of a priceable inventory unit. Rooms and
// transport routes both reduce to this shape, so the engine exists once.
type Item struct {
	ID        uint
	BasePrice float64
	ScopeID   uint   // owning hotel or transport service
	Segment   string // room category or route key, "" when not segmented
}

func RoomItem(r models.Room) Item {
	return Item{ID: r.ID, BasePrice: r.BasePrice, ScopeID: r.HotelID, Segment: r.Category}
}

// RouteItem adapts a transport route for one passenger type. ok is false when
// the route does not sell that type.
func RouteItem(r models.TransportRoute, passengerType string) (Item, bool) {
	price, ok := r.PriceFor(passengerType)
	if !ok {
		return Item{}, false
	}
	return Item{ID: r.ID, BasePrice: price, ScopeID: r.ServiceID, Segment: r.Key()}, true
}

// AppliedRule is one audit-trail entry of a composed price.
type AppliedRule struct {
	RuleID          uint    `json:"rule_id"`
	Name            string  `json:"name"`
	RuleType        string  `json:"rule_type"`
	AdjustmentType  string  `json:"adjustment_type"`
	AdjustmentValue float64 `json:"adjustment_value"`
	Adjustment      float64 `json:"adjustment"`
}

// Quote is the result of a stay calculation.
type Quote struct {
	BasePrice       float64       `json:"base_price"`
	FinalPrice      float64       `json:"final_price"`
	TotalAdjustment float64       `json:"total_adjustment"`
	Nights          int           `json:"nights"`
	AppliedRules    []AppliedRule `json:"applied_rules"`
	TotalCost       float64       `json:"total_cost"`
}

// DateOnly strips the time component, keeping rule windows and rate rows on
// calendar dates in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights is the length of stay between check-in and check-out dates.
func Nights(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
}
