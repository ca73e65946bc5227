package controllers

import (
	"log"
	"net/http"
	"strconv"

	"travel-pricing-backend/services"
	"travel-pricing-backend/utils"

	"github.com/gin-gonic/gin"
)

type TransportRatesController struct {
	Rates *services.TransportRateService
}

func NewTransportRatesController(rates *services.TransportRateService) *TransportRatesController {
	return &TransportRatesController{Rates: rates}
}

// GET /api/transport-rates?route_id=&start_date=&end_date=
func (ctrl *TransportRatesController) List(c *gin.Context) {
	routeID, err := strconv.ParseUint(c.Query("route_id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "route_id must be an integer")
		return
	}
	from, to, err := utils.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	rates, err := ctrl.Rates.List(uint(routeID), from, to)
	if err != nil {
		log.Printf("list transport rates: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to list transport rates")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rates)
}

// POST /api/transport-rates
func (ctrl *TransportRatesController) Store(c *gin.Context) {
	var req struct {
		RouteID       uint    `json:"route_id" binding:"required"`
		PassengerType string  `json:"passenger_type" binding:"required,oneof=adult child infant"`
		StartDate     string  `json:"start_date" binding:"required"`
		EndDate       string  `json:"end_date" binding:"required"`
		Price         float64 `json:"price" binding:"required,gt=0"`
		Notes         string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := utils.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	count, err := ctrl.Rates.Store(req.RouteID, req.PassengerType, from, to, req.Price, req.Notes)
	if err != nil {
		respondRuleErr(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"stored": count})
}

// DELETE /api/transport-rates/clear?route_id=&start_date=&end_date=
func (ctrl *TransportRatesController) Clear(c *gin.Context) {
	routeID, err := strconv.ParseUint(c.Query("route_id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "route_id must be an integer")
		return
	}
	from, to, err := utils.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := ctrl.Rates.Clear(uint(routeID), from, to)
	if err != nil {
		log.Printf("clear transport rates: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to clear transport rates")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"removed": removed})
}

// POST /api/transport-rates/apply
func (ctrl *TransportRatesController) Apply(c *gin.Context) {
	var req struct {
		RouteID          uint   `json:"route_id" binding:"required"`
		StartDate        string `json:"start_date" binding:"required"`
		EndDate          string `json:"end_date" binding:"required"`
		DryRun           bool   `json:"dry_run"`
		OverrideExisting bool   `json:"override_existing"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := utils.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := ctrl.Rates.Apply(req.RouteID, from, to, services.ApplyOptions{
		DryRun:           req.DryRun,
		OverrideExisting: req.OverrideExisting,
	})
	if err != nil {
		respondRuleErr(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

// POST /api/transport-rates/service-apply
//
// Applies rules across every active route of a service, all passenger types.
func (ctrl *TransportRatesController) ServiceApply(c *gin.Context) {
	var req struct {
		ServiceID        uint   `json:"service_id" binding:"required"`
		StartDate        string `json:"start_date" binding:"required"`
		EndDate          string `json:"end_date" binding:"required"`
		DryRun           bool   `json:"dry_run"`
		OverrideExisting bool   `json:"override_existing"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := utils.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := ctrl.Rates.ApplyService(req.ServiceID, from, to, services.ApplyOptions{
		DryRun:           req.DryRun,
		OverrideExisting: req.OverrideExisting,
	})
	if err != nil {
		log.Printf("service apply transport rates: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "service apply failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}
