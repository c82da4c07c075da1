package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ecotrip/internal/eco"
	"ecotrip/internal/models"
	"ecotrip/internal/services"
	"ecotrip/internal/utils"

	"github.com/gin-gonic/gin"
)

type EcoHandler struct {
	ecoService services.EcoService
}

func NewEcoHandler(ecoService services.EcoService) *EcoHandler {
	return &EcoHandler{
		ecoService: ecoService,
	}
}

// GetStats returns the bucket history for one period type.
// GET /eco/stats?period=week&limit=12
func (h *EcoHandler) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	periodType := models.PeriodType(c.DefaultQuery("period", string(models.PeriodTypeDay)))
	switch periodType {
	case models.PeriodTypeDay, models.PeriodTypeWeek, models.PeriodTypeMonth:
	default:
		utils.BadRequestResponse(c, "Invalid period, must be day, week or month")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	stats, err := h.ecoService.ListEcoStats(c.Request.Context(), userID, periodType, limit)
	if err != nil {
		respondEcoError(c, err)
		return
	}

	utils.SuccessResponse(c, "Eco stats retrieved successfully", stats)
}

// GetStat returns one bucket, defaulting to the current period.
// GET /eco/stats/current?period=week&date=2026-08-31
func (h *EcoHandler) GetStat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	periodType := models.PeriodType(c.DefaultQuery("period", string(models.PeriodTypeDay)))
	switch periodType {
	case models.PeriodTypeDay, models.PeriodTypeWeek, models.PeriodTypeMonth:
	default:
		utils.BadRequestResponse(c, "Invalid period, must be day, week or month")
		return
	}

	at := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := utils.ParseDate(dateStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		at = parsed
	}

	stat, err := h.ecoService.GetEcoStat(c.Request.Context(), userID, periodType, at)
	if err != nil {
		respondEcoError(c, err)
		return
	}

	utils.SuccessResponse(c, "Eco stat retrieved successfully", stat)
}

// GetSummary returns the dashboard view: today, this week, this month and
// all-time totals.
func (h *EcoHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.ecoService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondEcoError(c, err)
		return
	}

	utils.SuccessResponse(c, "Eco summary retrieved successfully", summary)
}

// GetGoals returns the user's configured targets
func (h *EcoHandler) GetGoals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	goals, err := h.ecoService.GetGoals(c.Request.Context(), userID)
	if err != nil {
		respondEcoError(c, err)
		return
	}

	utils.SuccessResponse(c, "Goals retrieved successfully", goals)
}

// UpdateGoals replaces the user's targets
func (h *EcoHandler) UpdateGoals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request models.UpdateGoalsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	goals := &models.EcoGoals{
		WeeklyWalkDistanceKm: request.WeeklyWalkDistanceKm,
		MonthlyTransitTrips:  request.MonthlyTransitTrips,
	}
	if err := h.ecoService.UpdateGoals(c.Request.Context(), userID, goals); err != nil {
		respondEcoError(c, err)
		return
	}

	utils.SuccessResponse(c, "Goals updated successfully", goals)
}

func respondEcoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, eco.ErrInvalidTripData):
		utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage temporarily unavailable")
	case errors.Is(err, services.ErrAggregationConflict):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}
