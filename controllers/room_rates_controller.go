package controllers

import (
	"log"
	"net/http"
	"strconv"

	"travel-pricing-backend/services"
	"travel-pricing-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomRatesController struct {
	Rates *services.RoomRateService
}

func NewRoomRatesController(rates *services.RoomRateService) *RoomRatesController {
	return &RoomRatesController{Rates: rates}
}

type dateRangeQuery struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

// GET /api/room-rates?room_id=&start_date=&end_date=
func (ctrl *RoomRatesController) List(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room_id must be an integer")
		return
	}
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := utils.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	rates, err := ctrl.Rates.List(uint(roomID), from, to)
	if err != nil {
		log.Printf("list room rates: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to list room rates")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rates)
}

// POST /api/room-rates
//
// Manual rate entry: replaces whatever is stored for the range with the
// given price, no rule matching involved.
func (ctrl *RoomRatesController) Store(c *gin.Context) {
	var req struct {
		RoomID    uint    `json:"room_id" binding:"required"`
		StartDate string  `json:"start_date" binding:"required"`
		EndDate   string  `json:"end_date" binding:"required"`
		Price     float64 `json:"price" binding:"required,gt=0"`
		Notes     string  `json:"notes"`
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

	count, err := ctrl.Rates.Store(req.RoomID, from, to, req.Price, req.Notes)
	if err != nil {
		respondRuleErr(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"stored": count})
}

// DELETE /api/room-rates/clear?room_id=&start_date=&end_date=
func (ctrl *RoomRatesController) Clear(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room_id must be an integer")
		return
	}
	from, to, err := utils.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := ctrl.Rates.Clear(uint(roomID), from, to)
	if err != nil {
		log.Printf("clear room rates: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to clear room rates")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"removed": removed})
}

type applyRequest struct {
	RoomID           uint   `json:"room_id" binding:"required"`
	StartDate        string `json:"start_date" binding:"required"`
	EndDate          string `json:"end_date" binding:"required"`
	DryRun           bool   `json:"dry_run"`
	OverrideExisting bool   `json:"override_existing"`
}

// POST /api/room-rates/apply
func (ctrl *RoomRatesController) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := utils.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := ctrl.Rates.Apply(req.RoomID, from, to, services.ApplyOptions{
		DryRun:           req.DryRun,
		OverrideExisting: req.OverrideExisting,
	})
	if err != nil {
		respondRuleErr(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

// POST /api/room-rates/bulk-apply
func (ctrl *RoomRatesController) BulkApply(c *gin.Context) {
	var req struct {
		RoomIDs          []uint `json:"room_ids" binding:"required,min=1"`
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

	summary, err := ctrl.Rates.ApplyBulk(req.RoomIDs, from, to, services.ApplyOptions{
		DryRun:           req.DryRun,
		OverrideExisting: req.OverrideExisting,
	})
	if err != nil {
		log.Printf("bulk apply room rates: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "bulk apply failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

// POST /api/room-rates/group-apply
//
// Applies rules across every active room matching the criteria. Zero
// matching rooms returns a zero-count summary, not an error.
func (ctrl *RoomRatesController) GroupApply(c *gin.Context) {
	var req struct {
		HotelID          uint     `json:"hotel_id" binding:"required"`
		Category         string   `json:"category"`
		MaxOccupancy     *int     `json:"max_occupancy"`
		BasePrice        *float64 `json:"base_price"`
		StartDate        string   `json:"start_date" binding:"required"`
		EndDate          string   `json:"end_date" binding:"required"`
		DryRun           bool     `json:"dry_run"`
		OverrideExisting bool     `json:"override_existing"`
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

	summary, err := ctrl.Rates.ApplyGroup(services.GroupCriteria{
		HotelID:      req.HotelID,
		Category:     req.Category,
		MaxOccupancy: req.MaxOccupancy,
		BasePrice:    req.BasePrice,
	}, from, to, services.ApplyOptions{
		DryRun:           req.DryRun,
		OverrideExisting: req.OverrideExisting,
	})
	if err != nil {
		log.Printf("group apply room rates: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "group apply failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}
