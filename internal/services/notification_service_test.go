package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ecotrip/internal/models"
	"ecotrip/internal/repositories/interfaces"
	"ecotrip/internal/utils"
	"ecotrip/pkg/push"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[primitive.ObjectID]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[primitive.ObjectID]*models.Notification{}}
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	r.notifications[notification.ID] = notification
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[id]
	if !ok {
		return nil, errors.New("notification not found")
	}
	return notification, nil
}

func (r *fakeNotificationRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[id]
	if !ok {
		return errors.New("notification not found")
	}
	if status, ok := updates["status"].(models.NotificationStatus); ok {
		notification.Status = status
	}
	return nil
}

func (r *fakeNotificationRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifications[id]; ok {
		now := time.Now()
		n.ReadAt = &now
		n.Status = models.NotificationStatusRead
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.ReadAt = &now
			n.Status = models.NotificationStatusRead
		}
	}
	return nil
}

func (r *fakeNotificationRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.NotificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifications[id]; ok {
		n.Status = status
	}
	return nil
}

func (r *fakeNotificationRepo) byUser(userID primitive.ObjectID) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakePushProvider struct {
	mu   sync.Mutex
	sent []*push.Message
	fail bool
}

func (p *fakePushProvider) Send(_ context.Context, msg *push.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("push gateway unavailable")
	}
	p.sent = append(p.sent, msg)
	return nil
}

func newNotificationFixture(t *testing.T, devices ...models.DeviceToken) (NotificationService, *fakeNotificationRepo, *fakePushProvider, *fakePushProvider, primitive.ObjectID) {
	t.Helper()
	repo := newFakeNotificationRepo()
	userRepo := newFakeUserRepo()
	fcm := &fakePushProvider{}
	apns := &fakePushProvider{}

	user := &models.User{Email: "rider@example.com", DeviceTokens: devices}
	require.NoError(t, userRepo.Create(context.Background(), user))

	svc := NewNotificationService(repo, userRepo, fcm, apns, newTestLogger(t))
	return svc, repo, fcm, apns, user.ID
}

func TestDispatchStoresAndPushes(t *testing.T) {
	svc, repo, fcm, apns, userID := newNotificationFixture(t,
		models.DeviceToken{Platform: models.DevicePlatformAndroid, Token: "android-token"},
		models.DeviceToken{Platform: models.DevicePlatformIOS, Token: "ios-token"},
	)

	require.NoError(t, svc.Dispatch(context.Background(), &models.NotificationRequest{
		UserID:  userID,
		Type:    models.NotificationTypeAchievement,
		Title:   "10 kg CO2 saved",
		Message: "Keep it up!",
		Data:    map[string]interface{}{"milestone_kg": 10.0},
	}))

	stored := repo.byUser(userID)
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationStatusSent, stored[0].Status)

	require.Len(t, fcm.sent, 1)
	assert.Equal(t, "android-token", fcm.sent[0].Token)
	require.Len(t, apns.sent, 1)
	assert.Equal(t, "ios-token", apns.sent[0].Token)
}

func TestDispatchWithoutDevicesStillStores(t *testing.T) {
	svc, repo, fcm, _, userID := newNotificationFixture(t)

	require.NoError(t, svc.Dispatch(context.Background(), &models.NotificationRequest{
		UserID:  userID,
		Type:    models.NotificationTypeGoalCompleted,
		Title:   "Weekly goal",
		Message: "Done",
	}))

	stored := repo.byUser(userID)
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationStatusUnread, stored[0].Status)
	assert.Empty(t, fcm.sent)
}

func TestDispatchMarksFailedWhenPushFails(t *testing.T) {
	svc, repo, fcm, _, userID := newNotificationFixture(t,
		models.DeviceToken{Platform: models.DevicePlatformAndroid, Token: "android-token"},
	)
	fcm.fail = true

	require.NoError(t, svc.Dispatch(context.Background(), &models.NotificationRequest{
		UserID:  userID,
		Type:    models.NotificationTypeAchievement,
		Title:   "5 kg CO2 saved",
		Message: "Nice",
	}))

	stored := repo.byUser(userID)
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationStatusFailed, stored[0].Status)
}

func TestMarkAsReadEnforcesOwnership(t *testing.T) {
	svc, repo, _, _, userID := newNotificationFixture(t)
	require.NoError(t, svc.Dispatch(context.Background(), &models.NotificationRequest{
		UserID:  userID,
		Type:    models.NotificationTypeGeneral,
		Title:   "Hello",
		Message: "World",
	}))
	stored := repo.byUser(userID)
	require.Len(t, stored, 1)

	stranger := primitive.NewObjectID()
	assert.Error(t, svc.MarkAsRead(context.Background(), stored[0].ID, stranger))

	require.NoError(t, svc.MarkAsRead(context.Background(), stored[0].ID, userID))
	count, err := svc.GetUnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

var _ interfaces.NotificationRepository = (*fakeNotificationRepo)(nil)
