package services

import (
	"errors"
	"fmt"
	"time"

	"travel-pricing-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRuleNotFound = errors.New("rule_not_found")

// Import modes for PricingRuleService.Import.
const (
	ImportCreateNew       = "create_new"
	ImportReplaceExisting = "replace_existing"
	ImportMerge           = "merge"
)

var ImportModes = []string{ImportCreateNew, ImportReplaceExisting, ImportMerge}

// PricingRuleService owns pricing-rule storage: CRUD, bulk create and the
// export/import round trip.
type PricingRuleService struct {
	DB *gorm.DB
}

func NewPricingRuleService(db *gorm.DB) *PricingRuleService {
	return &PricingRuleService{DB: db}
}

type RuleFilter struct {
	ScopeID    *uint
	RuleType   string
	ActiveOnly bool
}

// List returns rules ordered the way the composer consumes them: priority
// descending, storage order for ties. A scope filter keeps provider-wide
// (scope_id NULL) rules in the result since they apply everywhere.
func (s *PricingRuleService) List(f RuleFilter) ([]models.PricingRule, error) {
	q := s.DB.Order("priority DESC, id ASC")
	if f.ScopeID != nil {
		q = q.Where("scope_id = ? OR scope_id IS NULL", *f.ScopeID)
	}
	if f.RuleType != "" {
		q = q.Where("rule_type = ?", f.RuleType)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	var rules []models.PricingRule
	if err := q.Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}
	return rules, nil
}

func (s *PricingRuleService) Get(id uint) (models.PricingRule, error) {
	var rule models.PricingRule
	if err := s.DB.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PricingRule{}, ErrRuleNotFound
		}
		return models.PricingRule{}, fmt.Errorf("failed to load pricing rule: %w", err)
	}
	return rule, nil
}

func (s *PricingRuleService) Create(rule *models.PricingRule) error {
	return s.DB.Create(rule).Error
}

// CreateBatch inserts rules all-or-nothing.
func (s *PricingRuleService) CreateBatch(rules []models.PricingRule) ([]models.PricingRule, error) {
	if len(rules) == 0 {
		return rules, nil
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rules).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bulk create pricing rules: %w", err)
	}
	return rules, nil
}

func (s *PricingRuleService) Update(id uint, rule models.PricingRule) (models.PricingRule, error) {
	existing, err := s.Get(id)
	if err != nil {
		return models.PricingRule{}, err
	}
	rule.ID = existing.ID
	rule.CreatedAt = existing.CreatedAt
	if err := s.DB.Save(&rule).Error; err != nil {
		return models.PricingRule{}, fmt.Errorf("failed to update pricing rule: %w", err)
	}
	return rule, nil
}

func (s *PricingRuleService) Delete(id uint) error {
	result := s.DB.Delete(&models.PricingRule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete pricing rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// Toggle flips is_active and returns the updated rule.
func (s *PricingRuleService) Toggle(id uint) (models.PricingRule, error) {
	rule, err := s.Get(id)
	if err != nil {
		return models.PricingRule{}, err
	}
	if err := s.DB.Model(&rule).Update("is_active", !rule.IsActive).Error; err != nil {
		return models.PricingRule{}, fmt.Errorf("failed to toggle pricing rule: %w", err)
	}
	rule.IsActive = !rule.IsActive
	return rule, nil
}

// RuleExport is the JSON payload of an export; it round-trips through Import.
type RuleExport struct {
	ExportID    string               `json:"export_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Count       int                  `json:"count"`
	Rules       []models.PricingRule `json:"rules"`
}

func (s *PricingRuleService) Export(f RuleFilter) (RuleExport, error) {
	rules, err := s.List(f)
	if err != nil {
		return RuleExport{}, err
	}
	return RuleExport{
		ExportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Count:       len(rules),
		Rules:       rules,
	}, nil
}

type ImportSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Import applies a rule set in one transaction.
//
//	create_new:        always insert, ignoring supplied ids
//	replace_existing:  a supplied id matching a stored rule replaces that
//	                   rule's fields; otherwise insert
//	merge:             insert unknown rules, leave existing ones untouched
func (s *PricingRuleService) Import(mode string, rules []models.PricingRule) (ImportSummary, error) {
	var summary ImportSummary
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range rules {
			rule := rules[i]
			switch mode {
			case ImportCreateNew:
				rule.ID = 0
				if err := tx.Create(&rule).Error; err != nil {
					return err
				}
				summary.Created++
			case ImportReplaceExisting, ImportMerge:
				var existing models.PricingRule
				found := false
				if rule.ID != 0 {
					err := tx.First(&existing, rule.ID).Error
					if err == nil {
						found = true
					} else if !errors.Is(err, gorm.ErrRecordNotFound) {
						return err
					}
				}
				if !found {
					rule.ID = 0
					if err := tx.Create(&rule).Error; err != nil {
						return err
					}
					summary.Created++
					continue
				}
				if mode == ImportMerge {
					summary.Skipped++
					continue
				}
				rule.CreatedAt = existing.CreatedAt
				if err := tx.Save(&rule).Error; err != nil {
					return err
				}
				summary.Updated++
			default:
				return fmt.Errorf("unknown import mode %q", mode)
			}
		}
		return nil
	})
	if err != nil {
		return ImportSummary{}, fmt.Errorf("rule import failed: %w", err)
	}
	return summary, nil
}

// loadApplicable fetches the active rules a scope can see, in composer order.
func (s *PricingRuleService) loadApplicable(scopeID uint) ([]models.PricingRule, error) {
	id := scopeID
	return s.List(RuleFilter{ScopeID: &id, ActiveOnly: true})
}
