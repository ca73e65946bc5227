package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RuleSeasonal       = "seasonal"
	RuleAdvanceBooking = "advance_booking"
	RuleLengthOfStay   = "length_of_stay"
	RuleDayOfWeek      = "day_of_week"
	RuleOccupancy      = "occupancy"
	RulePromotional    = "promotional"
	RuleBlackout       = "blackout"
	RuleMinimumStay    = "minimum_stay"
)

var RuleTypes = []string{
	RuleSeasonal, RuleAdvanceBooking, RuleLengthOfStay, RuleDayOfWeek,
	RuleOccupancy, RulePromotional, RuleBlackout, RuleMinimumStay,
}

const (
	AdjustPercentage = "percentage"
	AdjustFixed      = "fixed"
	AdjustMultiply   = "multiply"
)

var AdjustmentTypes = []string{AdjustPercentage, AdjustFixed, AdjustMultiply}

// PricingRule adjusts an inventory item's base price inside an inclusive date
// window. ScopeID nil means the rule covers every hotel/service; Segment nil
// means every room category/route.
type PricingRule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string `gorm:"size:255" json:"name"`
	RuleType string `gorm:"column:rule_type;size:32;index" json:"rule_type"`

	ScopeID *uint   `gorm:"column:scope_id;index" json:"scope_id"`
	Segment *string `gorm:"size:100" json:"segment"`

	StartDate time.Time `gorm:"column:start_date;type:date" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date;type:date" json:"end_date"`

	AdjustmentType  string  `gorm:"column:adjustment_type;size:16" json:"adjustment_type"`
	AdjustmentValue float64 `gorm:"column:adjustment_value" json:"adjustment_value"`

	MinNights *int `gorm:"column:min_nights" json:"min_nights,omitempty"`
	MaxNights *int `gorm:"column:max_nights" json:"max_nights,omitempty"`

	// DaysOfWeek restricts the rule to specific weekdays, as a JSON array of
	// lowercase names ("monday", ...). Empty = no restriction.
	DaysOfWeek datatypes.JSON `gorm:"column:days_of_week" json:"days_of_week,omitempty"`

	Priority int  `gorm:"default:1" json:"priority"`
	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`

	// Conditions is opaque metadata carried through storage and export.
	Conditions datatypes.JSON `json:"conditions,omitempty"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Weekdays decodes DaysOfWeek. Nil means the rule applies on any weekday;
// malformed JSON is treated the same way rather than blocking matching.
func (r PricingRule) Weekdays() []string {
	if len(r.DaysOfWeek) == 0 {
		return nil
	}
	var days []string
	if err := json.Unmarshal(r.DaysOfWeek, &days); err != nil {
		return nil
	}
	return days
}
