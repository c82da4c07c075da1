package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripStatus string
type TransportMode string

const (
	TripStatusPlanned    TripStatus = "planned"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"

	ModeWalk  TransportMode = "walk"
	ModeBike  TransportMode = "bike"
	ModeBus   TransportMode = "bus"
	ModeTrain TransportMode = "train"
	ModeAuto  TransportMode = "auto"
	ModeCar   TransportMode = "car"
)

// AllTransportModes lists every mode the scoring table knows about.
// Adding a mode here without extending the eco policy is a compile-time
// decision, not a silent fallthrough.
var AllTransportModes = []TransportMode{ModeWalk, ModeBike, ModeBus, ModeTrain, ModeAuto, ModeCar}

func (m TransportMode) Valid() bool {
	for _, known := range AllTransportModes {
		if m == known {
			return true
		}
	}
	return false
}

// TripSegment is one leg of a trip using a single transport mode.
// Segment order is travel order and is significant.
type TripSegment struct {
	Mode            TransportMode `json:"mode" bson:"mode" validate:"required,oneof=walk bike bus train auto car"`
	DurationMinutes int           `json:"duration_minutes" bson:"duration_minutes" validate:"min=0"`
	DistanceKm      float64       `json:"distance_km" bson:"distance_km" validate:"min=0"`
	CostMinorUnits  int64         `json:"cost_minor_units" bson:"cost_minor_units" validate:"min=0"`
}

type Trip struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID            primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Label             string             `json:"label" bson:"label"`
	Segments          []TripSegment      `json:"segments" bson:"segments"`
	Status            TripStatus         `json:"status" bson:"status" default:"planned"`
	StartTime         *time.Time         `json:"start_time" bson:"start_time"`
	EndTime           *time.Time         `json:"end_time" bson:"end_time"`
	EstimatedDuration int                `json:"estimated_duration" bson:"estimated_duration"` // minutes, 0 = no estimate
	CO2SavedKg        float64            `json:"co2_saved_kg" bson:"co2_saved_kg"`
	EcoScore          int                `json:"eco_score" bson:"eco_score"`
	AggregationError  string             `json:"aggregation_error,omitempty" bson:"aggregation_error,omitempty"`
	Aggregated        bool               `json:"aggregated" bson:"aggregated"`
	CancelReason      string             `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

func (t *Trip) TotalDistanceKm() float64 {
	var total float64
	for _, s := range t.Segments {
		total += s.DistanceKm
	}
	return total
}

func (t *Trip) WalkDistanceKm() float64 {
	var total float64
	for _, s := range t.Segments {
		if s.Mode == ModeWalk {
			total += s.DistanceKm
		}
	}
	return total
}

func (t *Trip) TotalCostMinorUnits() int64 {
	var total int64
	for _, s := range t.Segments {
		total += s.CostMinorUnits
	}
	return total
}

// HasPublicTransport reports whether the trip contains at least one bus or
// train segment. Such a trip counts once toward transit totals, no matter
// how many transit legs it has.
func (t *Trip) HasPublicTransport() bool {
	for _, s := range t.Segments {
		if s.Mode == ModeBus || s.Mode == ModeTrain {
			return true
		}
	}
	return false
}

// ActualDurationMinutes prefers the recorded segment durations and falls
// back to the start/end timestamps when segments carry no timing.
func (t *Trip) ActualDurationMinutes() int {
	var total int
	for _, s := range t.Segments {
		total += s.DurationMinutes
	}
	if total > 0 {
		return total
	}
	if t.StartTime != nil && t.EndTime != nil {
		return int(t.EndTime.Sub(*t.StartTime).Minutes())
	}
	return 0
}

func (s TripStatus) Terminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}
