package routes

import (
	"ecotrip/internal/handlers"

	"github.com/gin-gonic/gin"
)

func SetupTripRoutes(group *gin.RouterGroup, h *handlers.TripHandler) {
	trips := group.Group("/trips")
	{
		trips.POST("", h.CreateTrip)
		trips.GET("", h.GetTrips)
		trips.GET("/:id", h.GetTrip)
		trips.PUT("/:id", h.UpdateTrip)
		trips.DELETE("/:id", h.DeleteTrip)

		// Lifecycle
		trips.POST("/:id/start", h.StartTrip)
		trips.POST("/:id/complete", h.CompleteTrip)
		trips.POST("/:id/cancel", h.CancelTrip)
	}
}
