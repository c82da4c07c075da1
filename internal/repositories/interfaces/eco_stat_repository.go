package interfaces

import (
	"context"
	"time"

	"ecotrip/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EcoStatRepository interface {
	// GetByPeriod returns the row for one bucket, or nil when no trip has
	// contributed to that period yet.
	GetByPeriod(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, periodStart time.Time) (*models.EcoStat, error)

	// ApplyDelta folds one trip's contribution into a bucket with the
	// incremental-mean update, creating the row lazily. Callers must hold
	// the per-user fold lock; multi-bucket atomicity comes from running all
	// deltas of a trip inside one transaction.
	ApplyDelta(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, periodStart time.Time, delta *models.EcoStatDelta) (*models.EcoStat, error)

	// Query surface
	ListByUser(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, limit int) ([]*models.EcoStat, error)
}

type EcoTotalRepository interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.EcoTotal, error)
	ApplyDelta(ctx context.Context, userID primitive.ObjectID, delta *models.EcoStatDelta) (*models.EcoTotal, error)
}
