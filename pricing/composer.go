package pricing

import (
	"time"

	"travel-pricing-backend/models"
)

// Compose folds the rules, in the order given, into a final price. Each
// adjustment is computed against the running price, not the original base,
// so a 10% rule followed by +5 differs from the reverse order. The result is
// clamped at zero.
func Compose(basePrice float64, rules []models.PricingRule) (float64, []AppliedRule) {
	final := basePrice
	applied := make([]AppliedRule, 0, len(rules))
	for _, r := range rules {
		var adjustment float64
		switch r.AdjustmentType {
		case models.AdjustPercentage:
			adjustment = final * r.AdjustmentValue / 100
		case models.AdjustFixed:
			adjustment = r.AdjustmentValue
		case models.AdjustMultiply:
			adjustment = final * (r.AdjustmentValue - 1)
		default:
			continue
		}
		final += adjustment
		applied = append(applied, AppliedRule{
			RuleID:          r.ID,
			Name:            r.Name,
			RuleType:        r.RuleType,
			AdjustmentType:  r.AdjustmentType,
			AdjustmentValue: r.AdjustmentValue,
			Adjustment:      adjustment,
		})
	}
	if final < 0 {
		final = 0
	}
	return final, applied
}

// Calculate quotes a stay: match the rules covering it, compose once over the
// base price, and extend to the total cost for the night count. Read-only.
func Calculate(basePrice float64, item Item, checkIn, checkOut time.Time, rules []models.PricingRule) Quote {
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		nights = 1
	}
	matched := MatchStay(rules, item, checkIn, checkOut)
	final, applied := Compose(basePrice, matched)
	return Quote{
		BasePrice:       basePrice,
		FinalPrice:      final,
		TotalAdjustment: final - basePrice,
		Nights:          nights,
		AppliedRules:    applied,
		TotalCost:       final * float64(nights),
	}
}
