package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-pricing-backend/models"
	"travel-pricing-backend/pricing"

	"gorm.io/gorm"
)

var (
	ErrRoomNotFound  = errors.New("room_not_found")
	ErrRouteNotFound = errors.New("route_not_found")
)

// ApplyOptions controls one materialization run. DryRun computes the
// identical preview without touching the store; OverrideExisting lets the run
// replace rows that already exist for a (item, date) tuple, re-deriving the
// price from the item's base price rather than compounding on the stored one.
type ApplyOptions struct {
	DryRun           bool
	OverrideExisting bool
}

// PreviewEntry is one row a materialization run wrote or would write.
type PreviewEntry struct {
	ItemID        uint                  `json:"item_id"`
	Date          time.Time             `json:"date"`
	PassengerType string                `json:"passenger_type,omitempty"`
	Price         float64               `json:"price"`
	Action        string                `json:"action"` // created | updated
	AppliedRules  []pricing.AppliedRule `json:"applied_rules"`
}

type ApplySummary struct {
	Created int            `json:"created"`
	Updated int            `json:"updated"`
	Skipped int            `json:"skipped"`
	Preview []PreviewEntry `json:"preview"`
}

func (s *ApplySummary) add(other ApplySummary) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Preview = append(s.Preview, other.Preview...)
}

// BulkSummary aggregates a bulk/group run over several inventory items.
type BulkSummary struct {
	Items int `json:"items"`
	ApplySummary
}

// GroupCriteria selects the rooms a group apply targets.
type GroupCriteria struct {
	HotelID      uint
	Category     string
	MaxOccupancy *int
	BasePrice    *float64
}

func ruleNotes(applied []pricing.AppliedRule) string {
	parts := make([]string, 0, len(applied))
	for _, a := range applied {
		parts = append(parts, fmt.Sprintf("%s (%+.2f)", a.Name, a.Adjustment))
	}
	return "Auto-priced: " + strings.Join(parts, ", ")
}

// RoomRateService is the rate materializer for hotel rooms: manual rate
// entry, range clearing, and rule-driven application (single, bulk, group).
type RoomRateService struct {
	DB    *gorm.DB
	Rules *PricingRuleService
}

func NewRoomRateService(db *gorm.DB, rules *PricingRuleService) *RoomRateService {
	return &RoomRateService{DB: db, Rules: rules}
}

func (s *RoomRateService) getRoom(roomID uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.Preload("Hotel").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Room{}, ErrRoomNotFound
		}
		return models.Room{}, fmt.Errorf("failed to load room: %w", err)
	}
	return room, nil
}

func (s *RoomRateService) List(roomID uint, from, to time.Time) ([]models.RoomRate, error) {
	var rates []models.RoomRate
	err := s.DB.
		Where("room_id = ? AND date BETWEEN ? AND ?", roomID, pricing.DateOnly(from), pricing.DateOnly(to)).
		Order("date ASC").
		Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list room rates: %w", err)
	}
	return rates, nil
}

// Store is the manual, authoritative rate-entry path. It bypasses rule
// matching entirely: existing rows in the range are removed and the given
// price is written verbatim for every date.
func (s *RoomRateService) Store(roomID uint, from, to time.Time, price float64, notes string) (int, error) {
	room, err := s.getRoom(roomID)
	if err != nil {
		return 0, err
	}
	from, to = pricing.DateOnly(from), pricing.DateOnly(to)

	count := 0
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ? AND date BETWEEN ? AND ?", roomID, from, to).
			Delete(&models.RoomRate{}).Error; err != nil {
			return err
		}
		rows := make([]models.RoomRate, 0)
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			rows = append(rows, models.RoomRate{
				RoomID:   roomID,
				Date:     d,
				Price:    price,
				Currency: room.Hotel.Currency,
				Notes:    notes,
				IsActive: true,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		count = len(rows)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store room rates: %w", err)
	}
	return count, nil
}

// Clear removes every rate row for the room inside the range.
func (s *RoomRateService) Clear(roomID uint, from, to time.Time) (int64, error) {
	result := s.DB.
		Where("room_id = ? AND date BETWEEN ? AND ?", roomID, pricing.DateOnly(from), pricing.DateOnly(to)).
		Delete(&models.RoomRate{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear room rates: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Apply materializes rule-derived rates for one room over a date range.
func (s *RoomRateService) Apply(roomID uint, from, to time.Time, opts ApplyOptions) (ApplySummary, error) {
	room, err := s.getRoom(roomID)
	if err != nil {
		return ApplySummary{}, err
	}
	rules, err := s.Rules.loadApplicable(room.HotelID)
	if err != nil {
		return ApplySummary{}, err
	}

	if opts.DryRun {
		return s.applyRoom(s.DB, room, from, to, rules, opts)
	}
	var summary ApplySummary
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		summary, txErr = s.applyRoom(tx, room, from, to, rules, opts)
		return txErr
	})
	if err != nil {
		return ApplySummary{}, fmt.Errorf("failed to apply pricing rules: %w", err)
	}
	return summary, nil
}

// ApplyBulk materializes rates for an explicit set of rooms in one
// transaction; a failure on any room rolls back all of them.
func (s *RoomRateService) ApplyBulk(roomIDs []uint, from, to time.Time, opts ApplyOptions) (BulkSummary, error) {
	var rooms []models.Room
	if err := s.DB.Preload("Hotel").Where("id IN ?", roomIDs).Find(&rooms).Error; err != nil {
		return BulkSummary{}, fmt.Errorf("failed to resolve rooms: %w", err)
	}
	return s.applyRooms(rooms, from, to, opts)
}

// ApplyGroup resolves all active rooms matching the criteria, then runs the
// same per-room flow over each member. Zero matches is a no-op, not an error.
func (s *RoomRateService) ApplyGroup(criteria GroupCriteria, from, to time.Time, opts ApplyOptions) (BulkSummary, error) {
	q := s.DB.Preload("Hotel").Where("hotel_id = ? AND is_active = ?", criteria.HotelID, true)
	if criteria.Category != "" {
		q = q.Where("category = ?", criteria.Category)
	}
	if criteria.MaxOccupancy != nil {
		q = q.Where("max_occupancy = ?", *criteria.MaxOccupancy)
	}
	if criteria.BasePrice != nil {
		q = q.Where("base_price = ?", *criteria.BasePrice)
	}
	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return BulkSummary{}, fmt.Errorf("failed to resolve room group: %w", err)
	}
	return s.applyRooms(rooms, from, to, opts)
}

func (s *RoomRateService) applyRooms(rooms []models.Room, from, to time.Time, opts ApplyOptions) (BulkSummary, error) {
	summary := BulkSummary{Items: len(rooms)}
	if len(rooms) == 0 {
		return summary, nil
	}

	scopes := map[uint][]models.PricingRule{}
	for _, room := range rooms {
		if _, ok := scopes[room.HotelID]; ok {
			continue
		}
		rules, err := s.Rules.loadApplicable(room.HotelID)
		if err != nil {
			return BulkSummary{}, err
		}
		scopes[room.HotelID] = rules
	}

	run := func(tx *gorm.DB) error {
		for _, room := range rooms {
			sub, err := s.applyRoom(tx, room, from, to, scopes[room.HotelID], opts)
			if err != nil {
				return fmt.Errorf("room %d: %w", room.ID, err)
			}
			summary.add(sub)
		}
		return nil
	}

	if opts.DryRun {
		if err := run(s.DB); err != nil {
			return BulkSummary{}, err
		}
		return summary, nil
	}
	if err := s.DB.Transaction(run); err != nil {
		return BulkSummary{}, fmt.Errorf("bulk apply failed: %w", err)
	}
	return summary, nil
}

// applyRoom walks every date in [from, to]. Dates where no rule matched, or
// where the composed price equals the base price, are skipped; existing rows
// are only replaced under OverrideExisting, and the replacement price is
// derived from the room's base price, never from the stored rate.
func (s *RoomRateService) applyRoom(tx *gorm.DB, room models.Room, from, to time.Time, rules []models.PricingRule, opts ApplyOptions) (ApplySummary, error) {
	item := pricing.RoomItem(room)
	from, to = pricing.DateOnly(from), pricing.DateOnly(to)

	var summary ApplySummary
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		matched := pricing.Match(rules, item, d, pricing.MatchOptions{})
		price, applied := pricing.Compose(room.BasePrice, matched)
		if len(matched) == 0 || price == room.BasePrice {
			summary.Skipped++
			continue
		}

		entry := PreviewEntry{ItemID: room.ID, Date: d, Price: price, AppliedRules: applied}

		var existing models.RoomRate
		err := tx.Where("room_id = ? AND date = ?", room.ID, d).First(&existing).Error
		switch {
		case err == nil:
			if !opts.OverrideExisting {
				summary.Skipped++
				continue
			}
			entry.Action = "updated"
			if !opts.DryRun {
				existing.Price = price
				existing.Notes = ruleNotes(applied)
				if err := tx.Save(&existing).Error; err != nil {
					return ApplySummary{}, err
				}
			}
			summary.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry.Action = "created"
			if !opts.DryRun {
				rate := models.RoomRate{
					RoomID:   room.ID,
					Date:     d,
					Price:    price,
					Currency: room.Hotel.Currency,
					Notes:    ruleNotes(applied),
					IsActive: true,
				}
				if err := tx.Create(&rate).Error; err != nil {
					return ApplySummary{}, err
				}
			}
			summary.Created++
		default:
			return ApplySummary{}, err
		}
		summary.Preview = append(summary.Preview, entry)
	}
	return summary, nil
}

// Quote prices a stay for a room without writing anything. basePrice
// overrides the room's stored base price when non-nil (live quotes during
// manual rate entry).
func (s *RoomRateService) Quote(roomID uint, basePrice *float64, checkIn, checkOut time.Time) (pricing.Quote, error) {
	room, err := s.getRoom(roomID)
	if err != nil {
		return pricing.Quote{}, err
	}
	rules, err := s.Rules.loadApplicable(room.HotelID)
	if err != nil {
		return pricing.Quote{}, err
	}
	base := room.BasePrice
	if basePrice != nil {
		base = *basePrice
	}
	return pricing.Calculate(base, pricing.RoomItem(room), checkIn, checkOut, rules), nil
}

// ApplicableRules lists the rules that would touch the room during the range.
func (s *RoomRateService) ApplicableRules(roomID uint, from, to time.Time) ([]models.PricingRule, error) {
	room, err := s.getRoom(roomID)
	if err != nil {
		return nil, err
	}
	rules, err := s.Rules.loadApplicable(room.HotelID)
	if err != nil {
		return nil, err
	}
	return pricing.MatchStay(rules, pricing.RoomItem(room), from, to.AddDate(0, 0, 1)), nil
}
