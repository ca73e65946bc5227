package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"travel-pricing-backend/models"
	"travel-pricing-backend/services"
	"travel-pricing-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type PricingRuleController struct {
	Rules          *services.PricingRuleService
	RoomRates      *services.RoomRateService
	TransportRates *services.TransportRateService
}

func NewPricingRuleController(rules *services.PricingRuleService, roomRates *services.RoomRateService, transportRates *services.TransportRateService) *PricingRuleController {
	return &PricingRuleController{Rules: rules, RoomRates: roomRates, TransportRates: transportRates}
}

// rulePayload is the wire shape of a rule on create/update/bulk/import.
// Dates come in as YYYY-MM-DD strings and are validated before any matching
// or composition runs.
type rulePayload struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name" binding:"required"`
	RuleType        string          `json:"rule_type" binding:"required,ruletype"`
	ScopeID         *uint           `json:"scope_id"`
	Segment         *string         `json:"segment"`
	StartDate       string          `json:"start_date" binding:"required"`
	EndDate         string          `json:"end_date" binding:"required"`
	AdjustmentType  string          `json:"adjustment_type" binding:"required,adjustmenttype"`
	AdjustmentValue float64         `json:"adjustment_value"`
	MinNights       *int            `json:"min_nights" binding:"omitempty,min=1"`
	MaxNights       *int            `json:"max_nights" binding:"omitempty,min=1"`
	DaysOfWeek      []string        `json:"days_of_week" binding:"omitempty,dive,weekday"`
	Priority        int             `json:"priority" binding:"omitempty,min=1,max=10"`
	IsActive        *bool           `json:"is_active"`
	Conditions      json.RawMessage `json:"conditions"`
}

func (p rulePayload) toModel() (models.PricingRule, error) {
	start, end, err := utils.ParseDateRange(p.StartDate, p.EndDate)
	if err != nil {
		return models.PricingRule{}, err
	}
	if p.MinNights != nil && p.MaxNights != nil && *p.MaxNights < *p.MinNights {
		return models.PricingRule{}, fmt.Errorf("max_nights %d is below min_nights %d", *p.MaxNights, *p.MinNights)
	}

	rule := models.PricingRule{
		ID:              p.ID,
		Name:            p.Name,
		RuleType:        p.RuleType,
		ScopeID:         p.ScopeID,
		Segment:         p.Segment,
		StartDate:       start,
		EndDate:         end,
		AdjustmentType:  p.AdjustmentType,
		AdjustmentValue: p.AdjustmentValue,
		MinNights:       p.MinNights,
		MaxNights:       p.MaxNights,
		Priority:        p.Priority,
		IsActive:        true,
	}
	if rule.Priority == 0 {
		rule.Priority = 1
	}
	if p.IsActive != nil {
		rule.IsActive = *p.IsActive
	}
	if len(p.DaysOfWeek) > 0 {
		raw, err := json.Marshal(p.DaysOfWeek)
		if err != nil {
			return models.PricingRule{}, err
		}
		rule.DaysOfWeek = datatypes.JSON(raw)
	}
	if len(p.Conditions) > 0 {
		rule.Conditions = datatypes.JSON(p.Conditions)
	}
	return rule, nil
}

// GET /api/pricing-rules
func (ctrl *PricingRuleController) List(c *gin.Context) {
	var filter services.RuleFilter
	if raw := c.Query("scope_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "scope_id must be an integer")
			return
		}
		scopeID := uint(id)
		filter.ScopeID = &scopeID
	}
	filter.RuleType = c.Query("rule_type")
	filter.ActiveOnly = c.Query("active") == "true"

	rules, err := ctrl.Rules.List(filter)
	if err != nil {
		log.Printf("list pricing rules: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to list pricing rules")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rules)
}

// GET /api/pricing-rules/:id
func (ctrl *PricingRuleController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	rule, err := ctrl.Rules.Get(id)
	if err != nil {
		respondRuleErr(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rule)
}

// POST /api/pricing-rules
func (ctrl *PricingRuleController) Create(c *gin.Context) {
	var payload rulePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	rule, err := payload.toModel()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	rule.ID = 0
	if err := ctrl.Rules.Create(&rule); err != nil {
		log.Printf("create pricing rule: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to create pricing rule")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rule)
}

// POST /api/pricing-rules/bulk
func (ctrl *PricingRuleController) BulkCreate(c *gin.Context) {
	var req struct {
		Rules []rulePayload `json:"rules" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	rules := make([]models.PricingRule, 0, len(req.Rules))
	for i, payload := range req.Rules {
		rule, err := payload.toModel()
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, fmt.Sprintf("rules[%d]: %s", i, err.Error()))
			return
		}
		rule.ID = 0
		rules = append(rules, rule)
	}

	created, err := ctrl.Rules.CreateBatch(rules)
	if err != nil {
		log.Printf("bulk create pricing rules: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to create pricing rules")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"created": len(created), "rules": created})
}

// PUT /api/pricing-rules/:id
func (ctrl *PricingRuleController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload rulePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	rule, err := payload.toModel()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := ctrl.Rules.Update(id, rule)
	if err != nil {
		respondRuleErr(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// DELETE /api/pricing-rules/:id
func (ctrl *PricingRuleController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.Rules.Delete(id); err != nil {
		respondRuleErr(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// PATCH /api/pricing-rules/:id/toggle
func (ctrl *PricingRuleController) Toggle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	rule, err := ctrl.Rules.Toggle(id)
	if err != nil {
		respondRuleErr(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rule)
}

// GET /api/pricing-rules/applicable?item_type=&item_id=&start_date=&end_date=
func (ctrl *PricingRuleController) Applicable(c *gin.Context) {
	itemType := c.Query("item_type")
	itemID, err := strconv.ParseUint(c.Query("item_id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "item_id must be an integer")
		return
	}
	from, to, err := utils.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	var rules []models.PricingRule
	switch itemType {
	case "room":
		rules, err = ctrl.RoomRates.ApplicableRules(uint(itemID), from, to)
	case "route":
		rules, err = ctrl.TransportRates.ApplicableRules(uint(itemID), from, to)
	default:
		utils.JSONError(c, http.StatusBadRequest, "item_type must be room or route")
		return
	}
	if err != nil {
		respondRuleErr(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rules)
}

type calculateRequest struct {
	ItemType      string   `json:"item_type" binding:"required,oneof=room route"`
	ItemID        uint     `json:"item_id" binding:"required"`
	BasePrice     *float64 `json:"base_price"`
	PassengerType string   `json:"passenger_type" binding:"omitempty,oneof=adult child infant"`
	CheckIn       string   `json:"check_in" binding:"required"`
	CheckOut      string   `json:"check_out" binding:"required"`
}

// POST /api/pricing-rules/calculate
//
// Live price preview: pure computation, no rate rows are written.
func (ctrl *PricingRuleController) Calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !checkOut.After(checkIn) {
		utils.JSONError(c, http.StatusBadRequest, "check_out must be after check_in")
		return
	}

	switch req.ItemType {
	case "room":
		quote, err := ctrl.RoomRates.Quote(req.ItemID, req.BasePrice, checkIn, checkOut)
		if err != nil {
			respondRuleErr(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, quote)
	case "route":
		ptype := req.PassengerType
		if ptype == "" {
			ptype = models.PassengerAdult
		}
		quote, err := ctrl.TransportRates.Quote(req.ItemID, ptype, req.BasePrice, checkIn, checkOut)
		if err != nil {
			respondRuleErr(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, quote)
	}
}

// GET /api/pricing-rules/export
func (ctrl *PricingRuleController) Export(c *gin.Context) {
	var filter services.RuleFilter
	if raw := c.Query("scope_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "scope_id must be an integer")
			return
		}
		scopeID := uint(id)
		filter.ScopeID = &scopeID
	}
	export, err := ctrl.Rules.Export(filter)
	if err != nil {
		log.Printf("export pricing rules: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to export pricing rules")
		return
	}
	c.JSON(http.StatusOK, export)
}

// POST /api/pricing-rules/import
func (ctrl *PricingRuleController) Import(c *gin.Context) {
	var req struct {
		Mode  string        `json:"mode" binding:"required,importmode"`
		Rules []rulePayload `json:"rules" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	rules := make([]models.PricingRule, 0, len(req.Rules))
	for i, payload := range req.Rules {
		rule, err := payload.toModel()
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, fmt.Sprintf("rules[%d]: %s", i, err.Error()))
			return
		}
		rules = append(rules, rule)
	}

	summary, err := ctrl.Rules.Import(req.Mode, rules)
	if err != nil {
		log.Printf("import pricing rules: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "rule import failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return uint(id), true
}

func respondRuleErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRuleNotFound):
		utils.JSONError(c, http.StatusNotFound, "pricing rule not found")
	case errors.Is(err, services.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "room not found")
	case errors.Is(err, services.ErrRouteNotFound):
		utils.JSONError(c, http.StatusNotFound, "route not found")
	default:
		log.Printf("pricing rule operation failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}
