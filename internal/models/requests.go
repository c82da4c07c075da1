package models

// CreateTripRequest plans a new trip. Segments may be provided up front or
// filled in at completion time.
type CreateTripRequest struct {
	Label             string        `json:"label" validate:"max=120"`
	Segments          []TripSegment `json:"segments" validate:"dive"`
	EstimatedDuration int           `json:"estimated_duration" validate:"min=0"` // minutes
}

// UpdateTripRequest edits a trip that has not finished yet.
type UpdateTripRequest struct {
	Label             *string        `json:"label,omitempty"`
	Segments          *[]TripSegment `json:"segments,omitempty" validate:"omitempty,dive"`
	EstimatedDuration *int           `json:"estimated_duration,omitempty" validate:"omitempty,min=0"`
}

// CompleteTripRequest closes out a trip. When segments are present they
// replace whatever was planned; the recorded legs win over the plan.
type CompleteTripRequest struct {
	Segments []TripSegment `json:"segments" validate:"omitempty,dive"`
}

type CancelTripRequest struct {
	Reason string `json:"reason" validate:"max=250"`
}

type UpdateGoalsRequest struct {
	WeeklyWalkDistanceKm float64 `json:"weekly_walk_distance_km" validate:"min=0"`
	MonthlyTransitTrips  int64   `json:"monthly_transit_trips" validate:"min=0"`
}

type RegisterDeviceRequest struct {
	Platform DevicePlatform `json:"platform" validate:"required,oneof=android ios"`
	Token    string         `json:"token" validate:"required"`
}
