package interfaces

import (
	"context"
	"errors"

	"ecotrip/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// Goals and devices
	UpdateGoals(ctx context.Context, id primitive.ObjectID, goals *models.EcoGoals) error
	AddDeviceToken(ctx context.Context, id primitive.ObjectID, token *models.DeviceToken) error
	RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error
}
