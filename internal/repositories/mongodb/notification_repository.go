package mongodb

import (
	"context"
	"fmt"
	"time"

	"ecotrip/internal/models"
	"ecotrip/internal/repositories/interfaces"
	"ecotrip/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CacheService is the subset of the cache the repositories use for
// read-side caching. Nil is valid and disables caching.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type notificationRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewNotificationRepository(db *mongo.Database, cache CacheService) interfaces.NotificationRepository {
	return &notificationRepository{
		collection: db.Collection("notifications"),
		cache:      cache,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, notification.UserID)

	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("notification not found")
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &notification, nil
}

func (r *notificationRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("notification not found")
	}

	if _, exists := updates["status"]; exists {
		notification, err := r.GetByID(ctx, id)
		if err == nil {
			r.invalidateUnreadCountCache(ctx, notification.UserID)
		}
	}

	return nil
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*models.Notification
	for cursor.Next(ctx) {
		var notification models.Notification
		if err := cursor.Decode(&notification); err != nil {
			return nil, 0, fmt.Errorf("failed to decode notification: %w", err)
		}
		notifications = append(notifications, &notification)
	}

	return notifications, total, nil
}

func (r *notificationRepository) GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	cacheKey := fmt.Sprintf(utils.CacheKeyUnreadCount, userID.Hex())
	if r.cache != nil {
		var count int64
		if err := r.cache.Get(ctx, cacheKey, &count); err == nil {
			return count, nil
		}
	}

	filter := bson.M{
		"user_id": userID,
		"status":  models.NotificationStatusUnread,
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, count, 5*time.Minute)
	}

	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	updates := map[string]interface{}{
		"status":  models.NotificationStatusRead,
		"read_at": time.Now(),
	}
	return r.Update(ctx, id, updates)
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{
		"user_id": userID,
		"status":  models.NotificationStatusUnread,
	}
	updates := bson.M{
		"$set": bson.M{
			"status":     models.NotificationStatusRead,
			"read_at":    time.Now(),
			"updated_at": time.Now(),
		},
	}

	_, err := r.collection.UpdateMany(ctx, filter, updates)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, userID)

	return nil
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.NotificationStatus) error {
	updates := map[string]interface{}{
		"status": status,
	}

	if status == models.NotificationStatusRead {
		updates["read_at"] = time.Now()
	} else if status == models.NotificationStatusSent {
		updates["sent_at"] = time.Now()
	}

	return r.Update(ctx, id, updates)
}

func (r *notificationRepository) invalidateUnreadCountCache(ctx context.Context, userID primitive.ObjectID) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf(utils.CacheKeyUnreadCount, userID.Hex())
		r.cache.Delete(ctx, cacheKey)
	}
}
