package pricing

import (
	"sort"
	"strings"
	"time"

	"travel-pricing-backend/models"
)

// MatchOptions carries optional gates for a match call.
type MatchOptions struct {
	// Nights enables length-of-stay gating against each rule's
	// min_nights/max_nights when > 0.
	Nights int
}

// Match returns the active rules applicable to item on date, ordered by
// priority descending. Ties keep storage order. An empty result is a valid
// outcome, not an error.
func Match(rules []models.PricingRule, item Item, date time.Time, opts MatchOptions) []models.PricingRule {
	day := DateOnly(date)
	matched := make([]models.PricingRule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if day.Before(DateOnly(r.StartDate)) || day.After(DateOnly(r.EndDate)) {
			continue
		}
		if !scopeMatches(r, item) {
			continue
		}
		if opts.Nights > 0 && !nightsAllowed(r, opts.Nights) {
			continue
		}
		if days := r.Weekdays(); len(days) > 0 && !weekdayAllowed(days, day.Weekday()) {
			continue
		}
		matched = append(matched, r)
	}
	sortByPriority(matched)
	return matched
}

// MatchStay returns the active rules applicable to any night of the stay
// [checkIn, checkOut), gated by the stay length. Weekday restrictions are a
// per-date concern and are not applied to whole-stay quotes.
func MatchStay(rules []models.PricingRule, item Item, checkIn, checkOut time.Time) []models.PricingRule {
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		nights = 1
	}
	firstNight := DateOnly(checkIn)
	lastNight := firstNight.AddDate(0, 0, nights-1)

	matched := make([]models.PricingRule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if lastNight.Before(DateOnly(r.StartDate)) || firstNight.After(DateOnly(r.EndDate)) {
			continue
		}
		if !scopeMatches(r, item) {
			continue
		}
		if !nightsAllowed(r, nights) {
			continue
		}
		matched = append(matched, r)
	}
	sortByPriority(matched)
	return matched
}

func scopeMatches(r models.PricingRule, item Item) bool {
	if r.ScopeID != nil && *r.ScopeID != item.ScopeID {
		return false
	}
	if r.Segment != nil && *r.Segment != item.Segment {
		return false
	}
	return true
}

func nightsAllowed(r models.PricingRule, nights int) bool {
	if r.MinNights != nil && nights < *r.MinNights {
		return false
	}
	if r.MaxNights != nil && nights > *r.MaxNights {
		return false
	}
	return true
}

func weekdayAllowed(days []string, weekday time.Weekday) bool {
	name := strings.ToLower(weekday.String())
	for _, d := range days {
		if strings.ToLower(strings.TrimSpace(d)) == name {
			return true
		}
	}
	return false
}

// Composition is order-sensitive, so the priority sort must be stable.
func sortByPriority(rules []models.PricingRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
}
