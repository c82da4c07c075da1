package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EcoTotal is the all-time cumulative row for a user, kept apart from the
// day/week/month buckets. Milestone detection reads this row.
type EcoTotal struct {
	ID                        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID                    primitive.ObjectID `json:"user_id" bson:"user_id"`
	TripsCount                int64              `json:"trips_count" bson:"trips_count"`
	TotalCO2Saved             float64            `json:"total_co2_saved" bson:"total_co2_saved"` // kg
	TotalDistanceWalked       float64            `json:"total_distance_walked" bson:"total_distance_walked"`
	TotalPublicTransportTrips int64              `json:"total_public_transport_trips" bson:"total_public_transport_trips"`
	AverageEcoScore           float64            `json:"average_eco_score" bson:"average_eco_score"`
	TotalCost                 int64              `json:"total_cost" bson:"total_cost"`
	CreatedAt                 time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt                 time.Time          `json:"updated_at" bson:"updated_at"`
}

// Apply folds one trip's contribution into the cumulative totals using the
// same incremental update as the period buckets.
func (t *EcoTotal) Apply(d *EcoStatDelta) {
	oldCount := t.TripsCount
	newCount := oldCount + int64(d.Sign)
	if newCount <= 0 {
		t.TripsCount = 0
		t.AverageEcoScore = 0
	} else {
		t.AverageEcoScore = (t.AverageEcoScore*float64(oldCount) + float64(d.Sign)*float64(d.EcoScore)) / float64(newCount)
		t.TripsCount = newCount
	}

	t.TotalCO2Saved += float64(d.Sign) * d.CO2SavedKg
	if t.TotalCO2Saved < 0 {
		t.TotalCO2Saved = 0
	}
	t.TotalDistanceWalked += float64(d.Sign) * d.DistanceWalkedKm
	if t.TotalDistanceWalked < 0 {
		t.TotalDistanceWalked = 0
	}
	t.TotalPublicTransportTrips += int64(d.Sign) * d.PublicTransportTrips
	if t.TotalPublicTransportTrips < 0 {
		t.TotalPublicTransportTrips = 0
	}
	t.TotalCost += int64(d.Sign) * d.CostMinorUnits
	if t.TotalCost < 0 {
		t.TotalCost = 0
	}
}
