package services

import (
	"testing"
	"time"

	"travel-pricing-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// in-memory sqlite is per-connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Hotel{},
		&models.Room{},
		&models.TransportService{},
		&models.TransportRoute{},
		&models.PricingRule{},
		&models.RoomRate{},
		&models.TransportRate{},
	))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedHotel(t *testing.T, db *gorm.DB, roomCount int, basePrice float64) (models.Hotel, []models.Room) {
	t.Helper()
	hotel := models.Hotel{Name: "Test Hotel", Currency: "THB"}
	require.NoError(t, db.Create(&hotel).Error)

	rooms := make([]models.Room, 0, roomCount)
	for i := 0; i < roomCount; i++ {
		rooms = append(rooms, models.Room{
			HotelID:      hotel.ID,
			RoomNumber:   string(rune('A' + i)),
			Category:     "standard",
			MaxOccupancy: 2,
			BasePrice:    basePrice,
			IsActive:     true,
		})
	}
	require.NoError(t, db.Create(&rooms).Error)
	return hotel, rooms
}

func seedRule(t *testing.T, db *gorm.DB, rule models.PricingRule) models.PricingRule {
	t.Helper()
	require.NoError(t, db.Create(&rule).Error)
	return rule
}

func newRoomRateService(db *gorm.DB) *RoomRateService {
	return NewRoomRateService(db, NewPricingRuleService(db))
}

func TestApplyBulk_WritesOnlyCoveredDates(t *testing.T) {
	db := setupDB(t)
	_, rooms := seedHotel(t, db, 5, 1000)
	svc := newRoomRateService(db)

	// Rule covers 3 of the 7 target days
	seedRule(t, db, models.PricingRule{
		Name: "midweek peak", RuleType: models.RuleSeasonal,
		StartDate: day(2025, 6, 3), EndDate: day(2025, 6, 5),
		AdjustmentType: models.AdjustPercentage, AdjustmentValue: 15,
		Priority: 5, IsActive: true,
	})

	ids := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}

	summary, err := svc.ApplyBulk(ids, day(2025, 6, 1), day(2025, 6, 7), ApplyOptions{})
	require.NoError(t, err)
	require.Equal(t, 5, summary.Items)
	require.Equal(t, 15, summary.Created) // 5 rooms x 3 covered days
	require.Equal(t, 0, summary.Updated)
	require.Equal(t, 20, summary.Skipped) // 5 rooms x 4 uncovered days

	var count int64
	require.NoError(t, db.Model(&models.RoomRate{}).Count(&count).Error)
	require.EqualValues(t, 15, count)

	var rate models.RoomRate
	require.NoError(t, db.Where("room_id = ? AND date = ?", rooms[0].ID, day(2025, 6, 3)).First(&rate).Error)
	require.Equal(t, 1150.0, rate.Price)
	require.Equal(t, "THB", rate.Currency)
	require.Contains(t, rate.Notes, "midweek peak")
}

func TestApply_DryRunLeavesStoreUntouched(t *testing.T) {
	db := setupDB(t)
	_, rooms := seedHotel(t, db, 1, 1000)
	svc := newRoomRateService(db)

	seedRule(t, db, models.PricingRule{
		Name: "season", RuleType: models.RuleSeasonal,
		StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 30),
		AdjustmentType: models.AdjustPercentage, AdjustmentValue: 20,
		Priority: 5, IsActive: true,
	})

	dry, err := svc.Apply(rooms[0].ID, day(2025, 6, 1), day(2025, 6, 3), ApplyOptions{DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 3, dry.Created)
	require.Len(t, dry.Preview, 3)

	var count int64
	require.NoError(t, db.Model(&models.RoomRate{}).Count(&count).Error)
	require.EqualValues(t, 0, count, "dry run must not write")

	// A real run produces the identical outcome the preview promised
	wet, err := svc.Apply(rooms[0].ID, day(2025, 6, 1), day(2025, 6, 3), ApplyOptions{})
	require.NoError(t, err)
	require.Equal(t, dry.Created, wet.Created)
	require.Equal(t, dry.Skipped, wet.Skipped)
	require.Len(t, wet.Preview, len(dry.Preview))
	for i := range dry.Preview {
		require.Equal(t, dry.Preview[i].Price, wet.Preview[i].Price)
		require.Equal(t, dry.Preview[i].Date, wet.Preview[i].Date)
	}

	require.NoError(t, db.Model(&models.RoomRate{}).Count(&count).Error)
	require.EqualValues(t, 3, count)
}

func TestApply_OverrideReappliesFromBasePrice(t *testing.T) {
	db := setupDB(t)
	_, rooms := seedHotel(t, db, 1, 1000)
	svc := newRoomRateService(db)
	room := rooms[0]

	seedRule(t, db, models.PricingRule{
		Name: "season", RuleType: models.RuleSeasonal,
		StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 30),
		AdjustmentType: models.AdjustPercentage, AdjustmentValue: 10,
		Priority: 5, IsActive: true,
	})

	// Manual rate exists for the date
	stored, err := svc.Store(room.ID, day(2025, 6, 10), day(2025, 6, 10), 2000, "manual")
	require.NoError(t, err)
	require.Equal(t, 1, stored)

	// Without override the manual row is untouched
	summary, err := svc.Apply(room.ID, day(2025, 6, 10), day(2025, 6, 10), ApplyOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, summary.Created)
	require.Equal(t, 0, summary.Updated)
	require.Equal(t, 1, summary.Skipped)

	var rate models.RoomRate
	require.NoError(t, db.Where("room_id = ? AND date = ?", room.ID, day(2025, 6, 10)).First(&rate).Error)
	require.Equal(t, 2000.0, rate.Price)

	// With override the price is re-derived from the room's base price,
	// not compounded on the manual 2000
	summary, err = svc.Apply(room.ID, day(2025, 6, 10), day(2025, 6, 10), ApplyOptions{OverrideExisting: true})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Updated)

	require.NoError(t, db.Where("room_id = ? AND date = ?", room.ID, day(2025, 6, 10)).First(&rate).Error)
	require.Equal(t, 1100.0, rate.Price)
}

func TestApply_NoMatchingRulesIsNoOp(t *testing.T) {
	db := setupDB(t)
	_, rooms := seedHotel(t, db, 1, 1000)
	svc := newRoomRateService(db)

	summary, err := svc.Apply(rooms[0].ID, day(2025, 6, 1), day(2025, 6, 5), ApplyOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, summary.Created)
	require.Equal(t, 5, summary.Skipped)
	require.Empty(t, summary.Preview)
}

func TestStore_ReplacesExistingRange(t *testing.T) {
	db := setupDB(t)
	_, rooms := seedHotel(t, db, 1, 1000)
	svc := newRoomRateService(db)
	room := rooms[0]

	count, err := svc.Store(room.ID, day(2025, 7, 1), day(2025, 7, 5), 900, "low season")
	require.NoError(t, err)
	require.Equal(t, 5, count)

	// Re-storing the overlapping range replaces, never duplicates
	count, err = svc.Store(room.ID, day(2025, 7, 3), day(2025, 7, 7), 950, "")
	require.NoError(t, err)
	require.Equal(t, 5, count)

	var total int64
	require.NoError(t, db.Model(&models.RoomRate{}).Where("room_id = ?", room.ID).Count(&total).Error)
	require.EqualValues(t, 7, total)

	var rate models.RoomRate
	require.NoError(t, db.Where("room_id = ? AND date = ?", room.ID, day(2025, 7, 3)).First(&rate).Error)
	require.Equal(t, 950.0, rate.Price)
}

func TestStore_UnknownRoom(t *testing.T) {
	db := setupDB(t)
	svc := newRoomRateService(db)

	_, err := svc.Store(999, day(2025, 7, 1), day(2025, 7, 2), 900, "")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestClear_RemovesOnlyRange(t *testing.T) {
	db := setupDB(t)
	_, rooms := seedHotel(t, db, 1, 1000)
	svc := newRoomRateService(db)
	room := rooms[0]

	_, err := svc.Store(room.ID, day(2025, 8, 1), day(2025, 8, 10), 800, "")
	require.NoError(t, err)

	removed, err := svc.Clear(room.ID, day(2025, 8, 1), day(2025, 8, 4))
	require.NoError(t, err)
	require.EqualValues(t, 4, removed)

	var total int64
	require.NoError(t, db.Model(&models.RoomRate{}).Where("room_id = ?", room.ID).Count(&total).Error)
	require.EqualValues(t, 6, total)
}

func TestQuote_UsesScopedRules(t *testing.T) {
	db := setupDB(t)
	hotel, rooms := seedHotel(t, db, 1, 100)
	svc := newRoomRateService(db)

	seedRule(t, db, models.PricingRule{
		Name: "season", RuleType: models.RuleSeasonal, ScopeID: &hotel.ID,
		StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 30),
		AdjustmentType: models.AdjustPercentage, AdjustmentValue: 20,
		Priority: 10, IsActive: true,
	})
	seedRule(t, db, models.PricingRule{
		Name: "fee", RuleType: models.RulePromotional,
		StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 30),
		AdjustmentType: models.AdjustFixed, AdjustmentValue: 10,
		Priority: 5, IsActive: true,
	})
	// Scoped to a different hotel, must not apply
	other := uint(4242)
	seedRule(t, db, models.PricingRule{
		Name: "other hotel", RuleType: models.RuleSeasonal, ScopeID: &other,
		StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 30),
		AdjustmentType: models.AdjustPercentage, AdjustmentValue: 99,
		Priority: 9, IsActive: true,
	})

	quote, err := svc.Quote(rooms[0].ID, nil, day(2025, 6, 1), day(2025, 6, 4))
	require.NoError(t, err)
	require.Equal(t, 3, quote.Nights)
	require.Equal(t, 130.0, quote.FinalPrice)
	require.Equal(t, 390.0, quote.TotalCost)
	require.Len(t, quote.AppliedRules, 2)
}

func TestGroupApply_ResolvesByCriteria(t *testing.T) {
	db := setupDB(t)
	hotel, rooms := seedHotel(t, db, 3, 1000)
	// One deluxe room outside the target group
	deluxe := models.Room{HotelID: hotel.ID, RoomNumber: "D1", Category: "deluxe", MaxOccupancy: 4, BasePrice: 2500, IsActive: true}
	require.NoError(t, db.Create(&deluxe).Error)
	svc := newRoomRateService(db)

	seedRule(t, db, models.PricingRule{
		Name: "season", RuleType: models.RuleSeasonal,
		StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 2),
		AdjustmentType: models.AdjustFixed, AdjustmentValue: 100,
		Priority: 5, IsActive: true,
	})

	summary, err := svc.ApplyGroup(GroupCriteria{HotelID: hotel.ID, Category: "standard"},
		day(2025, 6, 1), day(2025, 6, 2), ApplyOptions{})
	require.NoError(t, err)
	require.Equal(t, len(rooms), summary.Items)
	require.Equal(t, 6, summary.Created) // 3 standard rooms x 2 days

	var count int64
	require.NoError(t, db.Model(&models.RoomRate{}).Where("room_id = ?", deluxe.ID).Count(&count).Error)
	require.EqualValues(t, 0, count, "deluxe room is outside the group")
}

func TestGroupApply_ZeroMatchesIsNoOp(t *testing.T) {
	db := setupDB(t)
	hotel, _ := seedHotel(t, db, 2, 1000)
	svc := newRoomRateService(db)

	summary, err := svc.ApplyGroup(GroupCriteria{HotelID: hotel.ID, Category: "penthouse"},
		day(2025, 6, 1), day(2025, 6, 2), ApplyOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, summary.Items)
	require.Equal(t, 0, summary.Created)
}
