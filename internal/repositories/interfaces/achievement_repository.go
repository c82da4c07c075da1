package interfaces

import (
	"context"

	"ecotrip/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AchievementRepository interface {
	// Get returns the user's achievement state, creating a zero state in
	// memory (not persisted) when none exists yet.
	Get(ctx context.Context, userID primitive.ObjectID) (*models.AchievementState, error)

	// Save upserts the state. Milestones only ever advance; callers enforce
	// monotonicity before saving.
	Save(ctx context.Context, state *models.AchievementState) error
}
