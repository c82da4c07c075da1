package handlers

import (
	"errors"
	"net/http"

	"ecotrip/internal/eco"
	"ecotrip/internal/models"
	"ecotrip/internal/repositories/interfaces"
	"ecotrip/internal/services"
	"ecotrip/internal/utils"
	"ecotrip/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripHandler struct {
	tripService services.TripService
}

func NewTripHandler(tripService services.TripService) *TripHandler {
	return &TripHandler{
		tripService: tripService,
	}
}

// currentUserID pulls the authenticated user from the context set by the
// auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	return userID, true
}

func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateTrip plans a new trip
func (h *TripHandler) CreateTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request models.CreateTripRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if err := validators.ValidateCreateTripRequest(&request); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), userID, &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "TRIP_CREATION_FAILED", "Failed to create trip: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Trip created successfully", trip)
}

// GetTrip returns one of the user's trips
func (h *TripHandler) GetTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tripID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripService.GetTrip(c.Request.Context(), tripID, userID)
	if err != nil {
		respondTripError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip retrieved successfully", trip)
}

// GetTrips lists the user's trips, optionally filtered by status
func (h *TripHandler) GetTrips(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	status := models.TripStatus(c.Query("status"))

	trips, total, err := h.tripService.GetUserTrips(c.Request.Context(), userID, status, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "TRIP_LIST_FAILED", "Failed to list trips: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Trips retrieved successfully", trips, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// UpdateTrip edits a trip that has not finished yet
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tripID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request models.UpdateTripRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if err := validators.ValidateUpdateTripRequest(&request); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), tripID, userID, &request)
	if err != nil {
		respondTripError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip updated successfully", trip)
}

// StartTrip moves a planned trip into progress
func (h *TripHandler) StartTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tripID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripService.StartTrip(c.Request.Context(), tripID, userID)
	if err != nil {
		respondTripError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip started successfully", trip)
}

// CompleteTrip finishes a trip and folds it into the user's eco stats
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tripID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request models.CompleteTripRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if err := validators.ValidateCompleteTripRequest(&request); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	trip, err := h.tripService.CompleteTrip(c.Request.Context(), tripID, userID, &request)
	if err != nil {
		respondTripError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip completed successfully", trip)
}

// CancelTrip cancels a trip that has not finished yet
func (h *TripHandler) CancelTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tripID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request models.CancelTripRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	trip, err := h.tripService.CancelTrip(c.Request.Context(), tripID, userID, request.Reason)
	if err != nil {
		respondTripError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip cancelled successfully", trip)
}

// DeleteTrip removes a trip, reversing its aggregation first if needed
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tripID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.tripService.DeleteTrip(c.Request.Context(), tripID, userID); err != nil {
		respondTripError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip deleted successfully", nil)
}

func respondTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interfaces.ErrTripNotFound):
		utils.NotFoundResponse(c, "Trip")
	case errors.Is(err, services.ErrTripNotOwned):
		utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Trip does not belong to user")
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrTripNotEditable):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, eco.ErrInvalidTripData):
		utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage temporarily unavailable")
	default:
		utils.InternalServerErrorResponse(c)
	}
}
