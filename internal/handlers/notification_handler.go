package handlers

import (
	"net/http"

	"ecotrip/internal/models"
	"ecotrip/internal/services"
	"ecotrip/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications lists the user's notification inbox
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	notifications, total, err := h.notificationService.GetUserNotifications(c.Request.Context(), userID, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "NOTIFICATION_LIST_FAILED", "Failed to list notifications: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Notifications retrieved successfully", notifications, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetUnreadCount returns the unread badge count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "UNREAD_COUNT_FAILED", "Failed to get unread count: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Unread count retrieved successfully", gin.H{"unread_count": count})
}

// MarkAsRead marks one notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	notificationID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), notificationID, userID); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "MARK_READ_FAILED", "Failed to mark notification read: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", nil)
}

// MarkAllAsRead clears the unread state for the whole inbox
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "MARK_ALL_READ_FAILED", "Failed to mark notifications read: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "All notifications marked as read", nil)
}

// RegisterDevice stores a push token for the user
func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request models.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.notificationService.RegisterDevice(c.Request.Context(), userID, &request); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "DEVICE_REGISTRATION_FAILED", "Failed to register device: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Device registered successfully", nil)
}

// UnregisterDevice removes a push token
func (h *NotificationHandler) UnregisterDevice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	token := c.Query("token")
	if token == "" {
		utils.BadRequestResponse(c, "Missing token")
		return
	}

	if err := h.notificationService.UnregisterDevice(c.Request.Context(), userID, token); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "DEVICE_UNREGISTRATION_FAILED", "Failed to unregister device: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Device unregistered successfully", nil)
}
