package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProcessedTripRepository is the idempotency ledger. Claim is the single
// authority for "already aggregated": it succeeds exactly once per trip.
type ProcessedTripRepository interface {
	// Claim durably records the trip as aggregated. Returns false without
	// side effects when the trip was already claimed.
	Claim(ctx context.Context, tripID, userID primitive.ObjectID) (bool, error)

	// Release removes the claim, used by the compensating fold when an
	// aggregated trip is deleted.
	Release(ctx context.Context, tripID primitive.ObjectID) error

	IsProcessed(ctx context.Context, tripID primitive.ObjectID) (bool, error)
}
