package eco

import (
	"errors"
	"fmt"
	"math"

	"ecotrip/internal/models"
)

var ErrInvalidTripData = errors.New("invalid trip data")

// Result is the scoring outcome for one completed trip.
type Result struct {
	CO2SavedKg float64
	EcoScore   int

	// EmissionsExceededBaseline is informational: the trip emitted more than
	// the equivalent car trip, so savings were clamped to zero. Callers can
	// distinguish this from a true zero-distance trip.
	EmissionsExceededBaseline bool
}

// ValidateSegments rejects malformed segment data before scoring. A trip
// that fails here stays completed in storage but is flagged with an
// aggregation error instead of being silently scored as zero.
func ValidateSegments(segments []models.TripSegment) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: trip has no segments", ErrInvalidTripData)
	}
	for i, s := range segments {
		if !s.Mode.Valid() {
			return fmt.Errorf("%w: segment %d has unknown mode %q", ErrInvalidTripData, i, s.Mode)
		}
		if s.DistanceKm < 0 || math.IsNaN(s.DistanceKm) || math.IsInf(s.DistanceKm, 0) {
			return fmt.Errorf("%w: segment %d has invalid distance %v", ErrInvalidTripData, i, s.DistanceKm)
		}
		if s.DurationMinutes < 0 {
			return fmt.Errorf("%w: segment %d has negative duration %d", ErrInvalidTripData, i, s.DurationMinutes)
		}
		if s.CostMinorUnits < 0 {
			return fmt.Errorf("%w: segment %d has negative cost %d", ErrInvalidTripData, i, s.CostMinorUnits)
		}
	}
	return nil
}

// Score computes CO2 saved and the composite eco score for a completed trip.
// Pure and deterministic: identical input always yields an identical result.
func Score(trip *models.Trip, policy *Policy) (*Result, error) {
	if err := ValidateSegments(trip.Segments); err != nil {
		return nil, err
	}

	totalDistance := trip.TotalDistanceKm()
	if totalDistance == 0 {
		// Zero-distance trips score zero rather than dividing by zero.
		return &Result{}, nil
	}

	baseline := policy.CarEmissionFactorKgPerKm * totalDistance
	var actual float64
	for _, s := range trip.Segments {
		factor, ok := policy.EmissionFactorsKgPerKm[s.Mode]
		if !ok {
			return nil, fmt.Errorf("%w: no emission factor for mode %q", ErrInvalidTripData, s.Mode)
		}
		actual += s.DistanceKm * factor
	}

	saved := baseline - actual
	exceeded := saved < 0
	if exceeded {
		saved = 0
	}

	modeScore := modeSustainabilityScore(trip.Segments, totalDistance, policy)
	timeScore := timeEfficiencyScore(trip.EstimatedDuration, trip.ActualDurationMinutes())
	costScore := costEfficiencyScore(trip.TotalCostMinorUnits(), totalDistance, policy)

	composite := policy.ModeWeight*modeScore + policy.TimeWeight*timeScore + policy.CostWeight*costScore

	return &Result{
		CO2SavedKg:                saved,
		EcoScore:                  int(math.Round(clamp(composite, 0, 100))),
		EmissionsExceededBaseline: exceeded,
	}, nil
}

// modeSustainabilityScore is the distance-weighted average of the per-mode
// sustainability values.
func modeSustainabilityScore(segments []models.TripSegment, totalDistance float64, policy *Policy) float64 {
	var weighted float64
	for _, s := range segments {
		weighted += s.DistanceKm * policy.SustainabilityValues[s.Mode]
	}
	return weighted / totalDistance
}

// timeEfficiencyScore rewards trips finishing at or under the planned time.
// No estimate means no penalty.
func timeEfficiencyScore(estimatedMinutes, actualMinutes int) float64 {
	if estimatedMinutes <= 0 || actualMinutes <= 0 {
		return 100
	}
	return clamp(100*float64(estimatedMinutes)/float64(actualMinutes), 0, 100)
}

// costEfficiencyScore compares the actual spend against a flat-rate per-km
// reference fare. Free trips score 100, trips at or above the reference
// score 0, never below.
func costEfficiencyScore(actualCostMinor int64, totalDistance float64, policy *Policy) float64 {
	reference := policy.ReferenceCostMinorPerKm * totalDistance
	if reference <= 0 {
		return 100
	}
	return clamp(100*(1-float64(actualCostMinor)/reference), 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
