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
)

type processedTripRepository struct {
	collection *mongo.Collection
}

func NewProcessedTripRepository(db *mongo.Database) interfaces.ProcessedTripRepository {
	return &processedTripRepository{
		collection: db.Collection("processed_trips"),
	}
}

// Claim inserts the ledger entry; the unique index on trip_id turns a
// duplicate claim into a clean false, never a double count.
func (r *processedTripRepository) Claim(ctx context.Context, tripID, userID primitive.ObjectID) (bool, error) {
	entry := &models.ProcessedTrip{
		ID:          primitive.NewObjectID(),
		TripID:      tripID,
		UserID:      userID,
		ProcessedAt: time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim trip: %w", err)
	}

	return true, nil
}

func (r *processedTripRepository) Release(ctx context.Context, tripID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"trip_id": tripID})
	if err != nil {
		return fmt.Errorf("failed to release trip claim: %w", err)
	}

	return nil
}

func (r *processedTripRepository) IsProcessed(ctx context.Context, tripID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"trip_id": tripID})
	if err != nil {
		return false, fmt.Errorf("failed to check trip claim: %w", err)
	}

	return count > 0, nil
}
