package services

import (
	"context"
	"fmt"
	"time"

	"ecotrip/internal/models"
	"ecotrip/internal/repositories/interfaces"
	"ecotrip/internal/utils"
	"ecotrip/pkg/logger"
	"ecotrip/pkg/push"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	NotificationDispatcher

	// Inbox
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, userID primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error

	// Devices
	RegisterDevice(ctx context.Context, userID primitive.ObjectID, request *models.RegisterDeviceRequest) error
	UnregisterDevice(ctx context.Context, userID primitive.ObjectID, token string) error
}

type notificationService struct {
	notificationRepo interfaces.NotificationRepository
	userRepo         interfaces.UserRepository
	fcm              push.Provider
	apns             push.Provider
	logger           *logger.Logger
}

// NewNotificationService wires the inbox storage to the push transports.
// Either provider may be nil when the platform is not configured.
func NewNotificationService(
	notificationRepo interfaces.NotificationRepository,
	userRepo interfaces.UserRepository,
	fcm push.Provider,
	apns push.Provider,
	logger *logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		fcm:              fcm,
		apns:             apns,
		logger:           logger,
	}
}

// Dispatch persists the notification and pushes it to every registered
// device. The inbox row is the durable record; push delivery only updates
// its status.
func (s *notificationService) Dispatch(ctx context.Context, req *models.NotificationRequest) error {
	notification := &models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Status:  models.NotificationStatusUnread,
		Title:   req.Title,
		Message: req.Message,
		Data:    req.Data,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		s.logger.WithError(err).WithUserID(req.UserID).Warn("Notification stored but user lookup failed, skipping push")
		return nil
	}
	if len(user.DeviceTokens) == 0 {
		return nil
	}

	msg := &push.Message{
		Title: req.Title,
		Body:  req.Message,
		Data:  stringifyData(req.Data),
	}

	delivered := false
	for _, device := range user.DeviceTokens {
		provider := s.providerFor(device.Platform)
		if provider == nil {
			continue
		}

		pushCtx, cancel := context.WithTimeout(ctx, utils.NotificationTimeout)
		deviceMsg := *msg
		deviceMsg.Token = device.Token
		err := provider.Send(pushCtx, &deviceMsg)
		cancel()

		if err != nil {
			s.logger.WithError(err).WithUserID(req.UserID).WithField("platform", string(device.Platform)).Warn("Push delivery failed")
			continue
		}
		delivered = true
	}

	status := models.NotificationStatusFailed
	if delivered {
		status = models.NotificationStatusSent
	}
	if err := s.notificationRepo.Update(ctx, notification.ID, map[string]interface{}{
		"status":  status,
		"sent_at": time.Now().UTC(),
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to update notification delivery status")
	}
	return nil
}

func (s *notificationService) providerFor(platform models.DevicePlatform) push.Provider {
	switch platform {
	case models.DevicePlatformAndroid:
		return s.fcm
	case models.DevicePlatformIOS:
		return s.apns
	default:
		return nil
	}
}

func stringifyData(data map[string]interface{}) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	return s.notificationRepo.GetByUserID(ctx, userID, params)
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.notificationRepo.GetUnreadCount(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, notificationID, userID primitive.ObjectID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return fmt.Errorf("notification does not belong to user")
	}
	return s.notificationRepo.MarkAsRead(ctx, notificationID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) RegisterDevice(ctx context.Context, userID primitive.ObjectID, request *models.RegisterDeviceRequest) error {
	token := &models.DeviceToken{
		Platform:     request.Platform,
		Token:        request.Token,
		RegisteredAt: time.Now().UTC(),
	}
	if err := s.userRepo.AddDeviceToken(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (s *notificationService) UnregisterDevice(ctx context.Context, userID primitive.ObjectID, token string) error {
	if err := s.userRepo.RemoveDeviceToken(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to unregister device: %w", err)
	}
	return nil
}
