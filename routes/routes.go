package routes

import (
	"ecotrip/internal/handlers"
	"ecotrip/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Trip         *handlers.TripHandler
	Eco          *handlers.EcoHandler
	Notification *handlers.NotificationHandler
}

// SetupRoutes wires the versioned API. Every /api/v1 route sits behind the
// auth middleware.
func SetupRoutes(router *gin.Engine, h *Handlers, jwtSecret string) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtSecret))

	SetupTripRoutes(v1, h.Trip)
	SetupEcoRoutes(v1, h.Eco)
	SetupNotificationRoutes(v1, h.Notification)
}
