package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PeriodType string

const (
	PeriodTypeDay   PeriodType = "day"
	PeriodTypeWeek  PeriodType = "week"
	PeriodTypeMonth PeriodType = "month"
)

// EcoStat is one aggregate row per (user, period type, period start).
// Rows are created lazily on the first contributing trip, never deleted,
// and written only by the aggregation engine.
type EcoStat struct {
	ID                        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID                    primitive.ObjectID `json:"user_id" bson:"user_id"`
	PeriodType                PeriodType         `json:"period_type" bson:"period_type"`
	PeriodStart               time.Time          `json:"period_start" bson:"period_start"`
	TripsCount                int64              `json:"trips_count" bson:"trips_count"`
	TotalCO2Saved             float64            `json:"total_co2_saved" bson:"total_co2_saved"`             // kg
	TotalDistanceWalked       float64            `json:"total_distance_walked" bson:"total_distance_walked"` // km
	TotalPublicTransportTrips int64              `json:"total_public_transport_trips" bson:"total_public_transport_trips"`
	AverageEcoScore           float64            `json:"average_eco_score" bson:"average_eco_score"`
	TotalCost                 int64              `json:"total_cost" bson:"total_cost"` // minor currency units
	CreatedAt                 time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt                 time.Time          `json:"updated_at" bson:"updated_at"`
}

// EcoStatDelta is one trip's contribution to a single period bucket.
// Sign = -1 reverses a previous contribution (trip deletion).
type EcoStatDelta struct {
	Sign                 int
	EcoScore             int
	CO2SavedKg           float64
	DistanceWalkedKm     float64
	PublicTransportTrips int64
	CostMinorUnits       int64
}

// Apply folds the delta into the stat using the incremental-mean update.
// The mean uses the pre-update count, so it must run under the same
// per-user serialization as the count increment.
func (s *EcoStat) Apply(d *EcoStatDelta) {
	oldCount := s.TripsCount
	newCount := oldCount + int64(d.Sign)
	if newCount <= 0 {
		s.TripsCount = 0
		s.AverageEcoScore = 0
	} else {
		s.AverageEcoScore = (s.AverageEcoScore*float64(oldCount) + float64(d.Sign)*float64(d.EcoScore)) / float64(newCount)
		s.TripsCount = newCount
	}

	s.TotalCO2Saved += float64(d.Sign) * d.CO2SavedKg
	if s.TotalCO2Saved < 0 {
		s.TotalCO2Saved = 0
	}
	s.TotalDistanceWalked += float64(d.Sign) * d.DistanceWalkedKm
	if s.TotalDistanceWalked < 0 {
		s.TotalDistanceWalked = 0
	}
	s.TotalPublicTransportTrips += int64(d.Sign) * d.PublicTransportTrips
	if s.TotalPublicTransportTrips < 0 {
		s.TotalPublicTransportTrips = 0
	}
	s.TotalCost += int64(d.Sign) * d.CostMinorUnits
	if s.TotalCost < 0 {
		s.TotalCost = 0
	}
}
