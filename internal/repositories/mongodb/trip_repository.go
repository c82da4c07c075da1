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

type tripRepository struct {
	collection *mongo.Collection
}

func NewTripRepository(db *mongo.Database) interfaces.TripRepository {
	return &tripRepository{
		collection: db.Collection("trips"),
	}
}

func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	trip.ID = primitive.NewObjectID()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, trip)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	var trip models.Trip
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &trip, nil
}

func (r *tripRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrTripNotFound
	}

	return nil
}

func (r *tripRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrTripNotFound
	}

	return nil
}

func (r *tripRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	filter := bson.M{"user_id": userID}
	return r.findTripsWithFilter(ctx, filter, params)
}

func (r *tripRepository) GetByUserAndStatus(ctx context.Context, userID primitive.ObjectID, status models.TripStatus, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	filter := bson.M{
		"user_id": userID,
		"status":  status,
	}
	return r.findTripsWithFilter(ctx, filter, params)
}

func (r *tripRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TripStatus, updates map[string]interface{}) error {
	if updates == nil {
		updates = make(map[string]interface{})
	}
	updates["status"] = status

	return r.Update(ctx, id, updates)
}

func (r *tripRepository) SetDerivedMetrics(ctx context.Context, id primitive.ObjectID, co2SavedKg float64, ecoScore int) error {
	return r.Update(ctx, id, map[string]interface{}{
		"co2_saved_kg": co2SavedKg,
		"eco_score":    ecoScore,
	})
}

func (r *tripRepository) SetAggregationError(ctx context.Context, id primitive.ObjectID, reason string) error {
	return r.Update(ctx, id, map[string]interface{}{
		"aggregation_error": reason,
	})
}

func (r *tripRepository) MarkAggregated(ctx context.Context, id primitive.ObjectID, aggregated bool) error {
	return r.Update(ctx, id, map[string]interface{}{
		"aggregated":        aggregated,
		"aggregation_error": "",
	})
}

func (r *tripRepository) findTripsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*models.Trip
	for cursor.Next(ctx) {
		var trip models.Trip
		if err := cursor.Decode(&trip); err != nil {
			return nil, 0, fmt.Errorf("failed to decode trip: %w", err)
		}
		trips = append(trips, &trip)
	}

	return trips, total, nil
}
