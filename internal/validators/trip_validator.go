package validators

import (
	"fmt"

	"ecotrip/internal/models"
	"ecotrip/internal/utils"
)

// ValidateSegments does the request-level checks: segment count, per-segment
// ranges, and total distance. Emission-level validation happens again in the
// scoring engine; this layer exists to reject bad payloads with a 400 before
// anything is persisted.
func ValidateSegments(segments []models.TripSegment) error {
	if len(segments) > utils.MaxSegmentsPerTrip {
		return fmt.Errorf("trip cannot have more than %d segments", utils.MaxSegmentsPerTrip)
	}

	var totalDistance float64
	for i, s := range segments {
		if !s.Mode.Valid() {
			return fmt.Errorf("segment %d: unknown transport mode %q", i, s.Mode)
		}
		if s.DistanceKm < 0 {
			return fmt.Errorf("segment %d: distance cannot be negative", i)
		}
		if s.DurationMinutes < 0 {
			return fmt.Errorf("segment %d: duration cannot be negative", i)
		}
		if s.CostMinorUnits < 0 {
			return fmt.Errorf("segment %d: cost cannot be negative", i)
		}
		totalDistance += s.DistanceKm
	}

	if totalDistance > utils.MaxTripDistance {
		return fmt.Errorf("trip distance %.1f km exceeds the %.0f km limit", totalDistance, utils.MaxTripDistance)
	}
	return nil
}

func ValidateCreateTripRequest(request *models.CreateTripRequest) error {
	if request.EstimatedDuration < 0 {
		return fmt.Errorf("estimated duration cannot be negative")
	}
	return ValidateSegments(request.Segments)
}

func ValidateUpdateTripRequest(request *models.UpdateTripRequest) error {
	if request.EstimatedDuration != nil && *request.EstimatedDuration < 0 {
		return fmt.Errorf("estimated duration cannot be negative")
	}
	if request.Segments != nil {
		return ValidateSegments(*request.Segments)
	}
	return nil
}

// ValidateCompleteTripRequest requires at least the recorded legs to be
// well-formed; an empty list means the planned segments stand.
func ValidateCompleteTripRequest(request *models.CompleteTripRequest) error {
	return ValidateSegments(request.Segments)
}
