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

type achievementRepository struct {
	collection *mongo.Collection
}

func NewAchievementRepository(db *mongo.Database) interfaces.AchievementRepository {
	return &achievementRepository{
		collection: db.Collection("achievement_states"),
	}
}

func (r *achievementRepository) Get(ctx context.Context, userID primitive.ObjectID) (*models.AchievementState, error) {
	var state models.AchievementState
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &models.AchievementState{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get achievement state: %w", err)
	}

	return &state, nil
}

func (r *achievementRepository) Save(ctx context.Context, state *models.AchievementState) error {
	now := time.Now()
	if state.ID.IsZero() {
		state.ID = primitive.NewObjectID()
		state.CreatedAt = now
	}
	state.UpdatedAt = now

	_, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": state.UserID}, state, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save achievement state: %w", err)
	}

	return nil
}
