package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProcessedTrip is the per-trip idempotency marker. A unique index on
// trip_id makes the insert the single authority for "already aggregated".
type ProcessedTrip struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID      primitive.ObjectID `json:"trip_id" bson:"trip_id"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id"`
	ProcessedAt time.Time          `json:"processed_at" bson:"processed_at"`
}
