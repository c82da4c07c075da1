package routes

import (
	"ecotrip/internal/handlers"

	"github.com/gin-gonic/gin"
)

func SetupNotificationRoutes(group *gin.RouterGroup, h *handlers.NotificationHandler) {
	notifications := group.Group("/notifications")
	{
		notifications.GET("", h.GetNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.PUT("/:id/read", h.MarkAsRead)
		notifications.PUT("/read-all", h.MarkAllAsRead)

		// Push devices
		notifications.POST("/devices", h.RegisterDevice)
		notifications.DELETE("/devices", h.UnregisterDevice)
	}
}
