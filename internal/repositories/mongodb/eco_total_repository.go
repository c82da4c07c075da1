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

type ecoTotalRepository struct {
	collection *mongo.Collection
}

func NewEcoTotalRepository(db *mongo.Database) interfaces.EcoTotalRepository {
	return &ecoTotalRepository{
		collection: db.Collection("eco_totals"),
	}
}

func (r *ecoTotalRepository) Get(ctx context.Context, userID primitive.ObjectID) (*models.EcoTotal, error) {
	var total models.EcoTotal
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&total)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &models.EcoTotal{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get eco total: %w", err)
	}

	return &total, nil
}

func (r *ecoTotalRepository) ApplyDelta(ctx context.Context, userID primitive.ObjectID, delta *models.EcoStatDelta) (*models.EcoTotal, error) {
	total, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if total.ID.IsZero() {
		total.ID = primitive.NewObjectID()
		total.CreatedAt = now
	}

	total.Apply(delta)
	total.UpdatedAt = now

	_, err = r.collection.ReplaceOne(ctx, bson.M{"user_id": userID}, total, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("failed to apply eco total delta: %w", err)
	}

	return total, nil
}
