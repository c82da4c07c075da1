package mongodb

import (
	"context"
	"fmt"
	"time"

	"ecotrip/internal/models"
	"ecotrip/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ecoStatRepository struct {
	collection *mongo.Collection
}

func NewEcoStatRepository(db *mongo.Database) interfaces.EcoStatRepository {
	return &ecoStatRepository{
		collection: db.Collection("eco_stats"),
	}
}

func (r *ecoStatRepository) GetByPeriod(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, periodStart time.Time) (*models.EcoStat, error) {
	filter := bson.M{
		"user_id":      userID,
		"period_type":  periodType,
		"period_start": periodStart,
	}

	var stat models.EcoStat
	err := r.collection.FindOne(ctx, filter).Decode(&stat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get eco stat: %w", err)
	}

	return &stat, nil
}

// ApplyDelta is a read-modify-write: the caller holds the per-user fold lock,
// and transactional atomicity across a trip's buckets comes from the session
// on ctx. The incremental mean uses the pre-update count read here.
func (r *ecoStatRepository) ApplyDelta(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, periodStart time.Time, delta *models.EcoStatDelta) (*models.EcoStat, error) {
	stat, err := r.GetByPeriod(ctx, userID, periodType, periodStart)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if stat == nil {
		stat = &models.EcoStat{
			ID:          primitive.NewObjectID(),
			UserID:      userID,
			PeriodType:  periodType,
			PeriodStart: periodStart,
			CreatedAt:   now,
		}
	}

	stat.Apply(delta)
	stat.UpdatedAt = now

	filter := bson.M{
		"user_id":      userID,
		"period_type":  periodType,
		"period_start": periodStart,
	}
	_, err = r.collection.ReplaceOne(ctx, filter, stat, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("failed to apply eco stat delta: %w", err)
	}

	return stat, nil
}

func (r *ecoStatRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, limit int) ([]*models.EcoStat, error) {
	filter := bson.M{
		"user_id":     userID,
		"period_type": periodType,
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "period_start", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list eco stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []*models.EcoStat
	for cursor.Next(ctx) {
		var stat models.EcoStat
		if err := cursor.Decode(&stat); err != nil {
			return nil, fmt.Errorf("failed to decode eco stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	return stats, nil
}
