package interfaces

import (
	"context"
	"errors"

	"ecotrip/internal/models"
	"ecotrip/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrTripNotFound = errors.New("trip not found")

type TripRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// User trips
	GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error)
	GetByUserAndStatus(ctx context.Context, userID primitive.ObjectID, status models.TripStatus, params *utils.PaginationParams) ([]*models.Trip, int64, error)

	// Status transitions
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TripStatus, updates map[string]interface{}) error

	// Derived metrics, written only by the aggregation engine at completion.
	SetDerivedMetrics(ctx context.Context, id primitive.ObjectID, co2SavedKg float64, ecoScore int) error
	SetAggregationError(ctx context.Context, id primitive.ObjectID, reason string) error
	MarkAggregated(ctx context.Context, id primitive.ObjectID, aggregated bool) error
}
