package services

import (
	"errors"
	"fmt"
	"time"

	"travel-pricing-backend/models"
	"travel-pricing-backend/pricing"

	"gorm.io/gorm"
)

// TransportRateService is the rate materializer for transport routes. It is
// the same per-item flow as rooms, fanned out over the route's offered
// passenger types, each priced from its own base fare.
type TransportRateService struct {
	DB    *gorm.DB
	Rules *PricingRuleService
}

func NewTransportRateService(db *gorm.DB, rules *PricingRuleService) *TransportRateService {
	return &TransportRateService{DB: db, Rules: rules}
}

func (s *TransportRateService) getRoute(routeID uint) (models.TransportRoute, error) {
	var route models.TransportRoute
	if err := s.DB.Preload("Service").First(&route, routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TransportRoute{}, ErrRouteNotFound
		}
		return models.TransportRoute{}, fmt.Errorf("failed to load route: %w", err)
	}
	return route, nil
}

func (s *TransportRateService) List(routeID uint, from, to time.Time) ([]models.TransportRate, error) {
	var rates []models.TransportRate
	err := s.DB.
		Where("route_id = ? AND date BETWEEN ? AND ?", routeID, pricing.DateOnly(from), pricing.DateOnly(to)).
		Order("date ASC, passenger_type ASC").
		Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transport rates: %w", err)
	}
	return rates, nil
}

// Store writes a manual fare for one passenger type over the range,
// replacing whatever was there. Rule matching is bypassed.
func (s *TransportRateService) Store(routeID uint, passengerType string, from, to time.Time, price float64, notes string) (int, error) {
	route, err := s.getRoute(routeID)
	if err != nil {
		return 0, err
	}
	from, to = pricing.DateOnly(from), pricing.DateOnly(to)

	count := 0
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("route_id = ? AND passenger_type = ? AND date BETWEEN ? AND ?",
			routeID, passengerType, from, to).
			Delete(&models.TransportRate{}).Error; err != nil {
			return err
		}
		rows := make([]models.TransportRate, 0)
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			rows = append(rows, models.TransportRate{
				RouteID:       routeID,
				Date:          d,
				PassengerType: passengerType,
				Price:         price,
				Currency:      route.Service.Currency,
				Notes:         notes,
				IsActive:      true,
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
		return 0, fmt.Errorf("failed to store transport rates: %w", err)
	}
	return count, nil
}

func (s *TransportRateService) Clear(routeID uint, from, to time.Time) (int64, error) {
	result := s.DB.
		Where("route_id = ? AND date BETWEEN ? AND ?", routeID, pricing.DateOnly(from), pricing.DateOnly(to)).
		Delete(&models.TransportRate{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear transport rates: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Apply materializes rule-derived fares for one route over a date range.
func (s *TransportRateService) Apply(routeID uint, from, to time.Time, opts ApplyOptions) (ApplySummary, error) {
	route, err := s.getRoute(routeID)
	if err != nil {
		return ApplySummary{}, err
	}
	rules, err := s.Rules.loadApplicable(route.ServiceID)
	if err != nil {
		return ApplySummary{}, err
	}

	if opts.DryRun {
		return s.applyRoute(s.DB, route, from, to, rules, opts)
	}
	var summary ApplySummary
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		summary, txErr = s.applyRoute(tx, route, from, to, rules, opts)
		return txErr
	})
	if err != nil {
		return ApplySummary{}, fmt.Errorf("failed to apply pricing rules: %w", err)
	}
	return summary, nil
}

// ApplyService fans the per-route flow out over every active route of a
// service inside one transaction. Zero routes is a no-op, not an error.
func (s *TransportRateService) ApplyService(serviceID uint, from, to time.Time, opts ApplyOptions) (BulkSummary, error) {
	var routes []models.TransportRoute
	err := s.DB.Preload("Service").
		Where("service_id = ? AND is_active = ?", serviceID, true).
		Find(&routes).Error
	if err != nil {
		return BulkSummary{}, fmt.Errorf("failed to resolve routes: %w", err)
	}

	summary := BulkSummary{Items: len(routes)}
	if len(routes) == 0 {
		return summary, nil
	}
	rules, err := s.Rules.loadApplicable(serviceID)
	if err != nil {
		return BulkSummary{}, err
	}

	run := func(tx *gorm.DB) error {
		for _, route := range routes {
			sub, err := s.applyRoute(tx, route, from, to, rules, opts)
			if err != nil {
				return fmt.Errorf("route %d: %w", route.ID, err)
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
		return BulkSummary{}, fmt.Errorf("service apply failed: %w", err)
	}
	return summary, nil
}

// applyRoute is the transport twin of applyRoom: dates × offered passenger
// types, each composed from that type's base fare, written only when a rule
// actually moved the price.
func (s *TransportRateService) applyRoute(tx *gorm.DB, route models.TransportRoute, from, to time.Time, rules []models.PricingRule, opts ApplyOptions) (ApplySummary, error) {
	from, to = pricing.DateOnly(from), pricing.DateOnly(to)

	var summary ApplySummary
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		for _, ptype := range models.PassengerTypes {
			item, ok := pricing.RouteItem(route, ptype)
			if !ok {
				continue
			}
			matched := pricing.Match(rules, item, d, pricing.MatchOptions{})
			price, applied := pricing.Compose(item.BasePrice, matched)
			if len(matched) == 0 || price == item.BasePrice {
				summary.Skipped++
				continue
			}

			entry := PreviewEntry{
				ItemID:        route.ID,
				Date:          d,
				PassengerType: ptype,
				Price:         price,
				AppliedRules:  applied,
			}

			var existing models.TransportRate
			err := tx.Where("route_id = ? AND date = ? AND passenger_type = ?", route.ID, d, ptype).
				First(&existing).Error
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
					rate := models.TransportRate{
						RouteID:       route.ID,
						Date:          d,
						PassengerType: ptype,
						Price:         price,
						Currency:      route.Service.Currency,
						Notes:         ruleNotes(applied),
						IsActive:      true,
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
	}
	return summary, nil
}

// Quote prices a journey for one passenger type without writing anything.
func (s *TransportRateService) Quote(routeID uint, passengerType string, basePrice *float64, travelFrom, travelTo time.Time) (pricing.Quote, error) {
	route, err := s.getRoute(routeID)
	if err != nil {
		return pricing.Quote{}, err
	}
	item, ok := pricing.RouteItem(route, passengerType)
	if !ok {
		return pricing.Quote{}, ErrRouteNotFound
	}
	rules, err := s.Rules.loadApplicable(route.ServiceID)
	if err != nil {
		return pricing.Quote{}, err
	}
	base := item.BasePrice
	if basePrice != nil {
		base = *basePrice
	}
	return pricing.Calculate(base, item, travelFrom, travelTo, rules), nil
}

// ApplicableRules lists the rules that would touch the route during the range.
func (s *TransportRateService) ApplicableRules(routeID uint, from, to time.Time) ([]models.PricingRule, error) {
	route, err := s.getRoute(routeID)
	if err != nil {
		return nil, err
	}
	item, ok := pricing.RouteItem(route, models.PassengerAdult)
	if !ok {
		item = pricing.Item{ID: route.ID, ScopeID: route.ServiceID, Segment: route.Key()}
	}
	rules, err := s.Rules.loadApplicable(route.ServiceID)
	if err != nil {
		return nil, err
	}
	return pricing.MatchStay(rules, item, from, to.AddDate(0, 0, 1)), nil
}
