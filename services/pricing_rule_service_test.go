package services

import (
	"testing"

	"travel-pricing-backend/models"

	"github.com/stretchr/testify/require"
)

func baseRule(name string) models.PricingRule {
	return models.PricingRule{
		Name:            name,
		RuleType:        models.RuleSeasonal,
		StartDate:       day(2025, 6, 1),
		EndDate:         day(2025, 6, 30),
		AdjustmentType:  models.AdjustPercentage,
		AdjustmentValue: 10,
		Priority:        5,
		IsActive:        true,
	}
}

func TestRuleCRUDAndToggle(t *testing.T) {
	db := setupDB(t)
	svc := NewPricingRuleService(db)

	rule := baseRule("summer")
	require.NoError(t, svc.Create(&rule))
	require.NotZero(t, rule.ID)

	got, err := svc.Get(rule.ID)
	require.NoError(t, err)
	require.Equal(t, "summer", got.Name)

	got.AdjustmentValue = 15
	updated, err := svc.Update(rule.ID, got)
	require.NoError(t, err)
	require.Equal(t, 15.0, updated.AdjustmentValue)

	toggled, err := svc.Toggle(rule.ID)
	require.NoError(t, err)
	require.False(t, toggled.IsActive)

	require.NoError(t, svc.Delete(rule.ID))
	require.ErrorIs(t, svc.Delete(rule.ID), ErrRuleNotFound)
	_, err = svc.Get(rule.ID)
	require.ErrorIs(t, err, ErrRuleNotFound)
}

func TestList_OrderAndScopeFilter(t *testing.T) {
	db := setupDB(t)
	svc := NewPricingRuleService(db)

	scope := uint(7)
	low := baseRule("low")
	low.Priority = 2
	high := baseRule("high")
	high.Priority = 9
	foreign := baseRule("foreign")
	other := uint(8)
	foreign.ScopeID = &other
	global := baseRule("global") // nil scope applies everywhere
	scoped := baseRule("scoped")
	scoped.ScopeID = &scope

	for _, r := range []*models.PricingRule{&low, &high, &foreign, &global, &scoped} {
		require.NoError(t, svc.Create(r))
	}

	rules, err := svc.List(RuleFilter{ScopeID: &scope})
	require.NoError(t, err)
	require.Len(t, rules, 4) // everything except the foreign-scoped rule
	require.Equal(t, "high", rules[0].Name)

	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	require.NotContains(t, names, "foreign")
}

func TestImport_CreateNewIgnoresIDs(t *testing.T) {
	db := setupDB(t)
	svc := NewPricingRuleService(db)

	existing := baseRule("existing")
	require.NoError(t, svc.Create(&existing))

	incoming := baseRule("incoming")
	incoming.ID = existing.ID // collision must not update

	summary, err := svc.Import(ImportCreateNew, []models.PricingRule{incoming})
	require.NoError(t, err)
	require.Equal(t, ImportSummary{Created: 1}, summary)

	kept, err := svc.Get(existing.ID)
	require.NoError(t, err)
	require.Equal(t, "existing", kept.Name)

	rules, err := svc.List(RuleFilter{})
	require.NoError(t, err)
	require.Len(t, rules, 2)
}

func TestImport_ReplaceExistingUpdatesByID(t *testing.T) {
	db := setupDB(t)
	svc := NewPricingRuleService(db)

	existing := baseRule("existing")
	require.NoError(t, svc.Create(&existing))

	replacement := baseRule("replacement")
	replacement.ID = existing.ID
	replacement.AdjustmentValue = 33
	fresh := baseRule("fresh") // no stored id, inserted

	summary, err := svc.Import(ImportReplaceExisting, []models.PricingRule{replacement, fresh})
	require.NoError(t, err)
	require.Equal(t, ImportSummary{Created: 1, Updated: 1}, summary)

	got, err := svc.Get(existing.ID)
	require.NoError(t, err)
	require.Equal(t, "replacement", got.Name)
	require.Equal(t, 33.0, got.AdjustmentValue)
}

func TestImport_MergeKeepsExisting(t *testing.T) {
	db := setupDB(t)
	svc := NewPricingRuleService(db)

	existing := baseRule("existing")
	require.NoError(t, svc.Create(&existing))

	colliding := baseRule("colliding")
	colliding.ID = existing.ID
	fresh := baseRule("fresh")

	summary, err := svc.Import(ImportMerge, []models.PricingRule{colliding, fresh})
	require.NoError(t, err)
	require.Equal(t, ImportSummary{Created: 1, Skipped: 1}, summary)

	got, err := svc.Get(existing.ID)
	require.NoError(t, err)
	require.Equal(t, "existing", got.Name)
}

func TestExport_RoundTripsThroughImport(t *testing.T) {
	db := setupDB(t)
	svc := NewPricingRuleService(db)

	for _, name := range []string{"a", "b", "c"} {
		rule := baseRule(name)
		require.NoError(t, svc.Create(&rule))
	}

	export, err := svc.Export(RuleFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, export.ExportID)
	require.Equal(t, 3, export.Count)
	require.Len(t, export.Rules, 3)

	// Importing the export into a clean store recreates every rule
	db2 := setupDB(t)
	svc2 := NewPricingRuleService(db2)
	summary, err := svc2.Import(ImportCreateNew, export.Rules)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Created)
}

func TestCreateBatch_AllOrNothing(t *testing.T) {
	db := setupDB(t)
	svc := NewPricingRuleService(db)

	created, err := svc.CreateBatch([]models.PricingRule{baseRule("one"), baseRule("two")})
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, r := range created {
		require.NotZero(t, r.ID)
	}
}
