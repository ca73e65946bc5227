package pricing

import (
	"testing"
	"time"

	"travel-pricing-backend/models"

	"gorm.io/datatypes"
)

func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func activeRule(id uint, start, end time.Time) models.PricingRule {
	return models.PricingRule{
		ID: id, Name: "r", RuleType: models.RuleSeasonal,
		StartDate: start, EndDate: end,
		AdjustmentType: models.AdjustPercentage, AdjustmentValue: 10,
		Priority: 5, IsActive: true,
	}
}

func TestMatch_WindowIsInclusive(t *testing.T) {
	item := Item{ID: 1, ScopeID: 1}
	rules := []models.PricingRule{activeRule(1, date(2025, 6, 10), date(2025, 6, 20))}

	cases := []struct {
		day  time.Time
		want int
	}{
		{date(2025, 6, 9), 0},
		{date(2025, 6, 10), 1}, // boundary: start date matches
		{date(2025, 6, 15), 1},
		{date(2025, 6, 20), 1}, // boundary: end date matches
		{date(2025, 6, 21), 0},
	}
	for _, tc := range cases {
		got := Match(rules, item, tc.day, MatchOptions{})
		if len(got) != tc.want {
			t.Fatalf("%s: expected %d matches, got %d", tc.day.Format("2006-01-02"), tc.want, len(got))
		}
	}
}

func TestMatch_InactiveExcludedUnconditionally(t *testing.T) {
	item := Item{ID: 1, ScopeID: 1}
	rule := activeRule(1, date(2025, 6, 1), date(2025, 6, 30))
	rule.IsActive = false

	if got := Match([]models.PricingRule{rule}, item, date(2025, 6, 15), MatchOptions{}); len(got) != 0 {
		t.Fatalf("inactive rule matched: %+v", got)
	}
}

func TestMatch_ScopeAndSegmentWildcards(t *testing.T) {
	item := Item{ID: 7, ScopeID: 3, Segment: "deluxe"}
	day := date(2025, 6, 15)

	wildcard := activeRule(1, date(2025, 6, 1), date(2025, 6, 30)) // nil scope, nil segment
	scoped := activeRule(2, date(2025, 6, 1), date(2025, 6, 30))
	scoped.ScopeID = uintPtr(3)
	scoped.Segment = strPtr("deluxe")
	wrongScope := activeRule(3, date(2025, 6, 1), date(2025, 6, 30))
	wrongScope.ScopeID = uintPtr(9)
	wrongSegment := activeRule(4, date(2025, 6, 1), date(2025, 6, 30))
	wrongSegment.Segment = strPtr("standard")

	got := Match([]models.PricingRule{wildcard, scoped, wrongScope, wrongSegment}, item, day, MatchOptions{})
	if len(got) != 2 {
		t.Fatalf("expected wildcard+scoped, got %d: %+v", len(got), got)
	}
}

func TestMatch_NightsGate(t *testing.T) {
	item := Item{ID: 1, ScopeID: 1}
	rule := activeRule(1, date(2025, 6, 1), date(2025, 6, 30))
	rule.MinNights = intPtr(3)
	rule.MaxNights = intPtr(7)
	rules := []models.PricingRule{rule}
	day := date(2025, 6, 15)

	if got := Match(rules, item, day, MatchOptions{Nights: 2}); len(got) != 0 {
		t.Fatalf("2 nights should fail min gate")
	}
	if got := Match(rules, item, day, MatchOptions{Nights: 5}); len(got) != 1 {
		t.Fatalf("5 nights should pass")
	}
	if got := Match(rules, item, day, MatchOptions{Nights: 8}); len(got) != 0 {
		t.Fatalf("8 nights should fail max gate")
	}
	// Nights 0 = gate disabled
	if got := Match(rules, item, day, MatchOptions{}); len(got) != 1 {
		t.Fatalf("unset nights should not gate")
	}
}

func TestMatch_DaysOfWeek(t *testing.T) {
	item := Item{ID: 1, ScopeID: 1}
	rule := activeRule(1, date(2025, 6, 1), date(2025, 6, 30))
	rule.DaysOfWeek = datatypes.JSON([]byte(`["friday","saturday"]`))
	rules := []models.PricingRule{rule}

	friday := date(2025, 6, 6)
	monday := date(2025, 6, 9)
	if got := Match(rules, item, friday, MatchOptions{}); len(got) != 1 {
		t.Fatalf("friday should match")
	}
	if got := Match(rules, item, monday, MatchOptions{}); len(got) != 0 {
		t.Fatalf("monday should not match")
	}
}

func TestMatch_PriorityDescendingStable(t *testing.T) {
	item := Item{ID: 1, ScopeID: 1}
	low := activeRule(1, date(2025, 6, 1), date(2025, 6, 30))
	low.Priority = 2
	highA := activeRule(2, date(2025, 6, 1), date(2025, 6, 30))
	highA.Priority = 9
	highB := activeRule(3, date(2025, 6, 1), date(2025, 6, 30))
	highB.Priority = 9

	got := Match([]models.PricingRule{low, highA, highB}, item, date(2025, 6, 15), MatchOptions{})
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 3 || got[2].ID != 1 {
		t.Fatalf("wrong order: %d, %d, %d", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestMatchStay_OverlapAndNights(t *testing.T) {
	item := Item{ID: 1, ScopeID: 1}
	// Stay 2025-06-10 .. 2025-06-13 (3 nights: 10, 11, 12)
	checkIn, checkOut := date(2025, 6, 10), date(2025, 6, 13)

	covering := activeRule(1, date(2025, 6, 1), date(2025, 6, 30))
	endsBefore := activeRule(2, date(2025, 6, 1), date(2025, 6, 9))
	startsAfter := activeRule(3, date(2025, 6, 13), date(2025, 6, 30)) // checkout day is not a night
	partial := activeRule(4, date(2025, 6, 12), date(2025, 6, 12))
	tooLong := activeRule(5, date(2025, 6, 1), date(2025, 6, 30))
	tooLong.MinNights = intPtr(5)

	got := MatchStay([]models.PricingRule{covering, endsBefore, startsAfter, partial, tooLong}, item, checkIn, checkOut)
	if len(got) != 2 {
		t.Fatalf("expected covering+partial, got %d: %+v", len(got), got)
	}
	for _, r := range got {
		if r.ID != 1 && r.ID != 4 {
			t.Fatalf("unexpected rule %d in match", r.ID)
		}
	}
}

func TestNights(t *testing.T) {
	if n := Nights(date(2025, 6, 1), date(2025, 6, 4)); n != 3 {
		t.Fatalf("expected 3 nights, got %d", n)
	}
	if n := Nights(date(2025, 6, 1), date(2025, 6, 1)); n != 0 {
		t.Fatalf("expected 0 nights, got %d", n)
	}
}
