package eco

import (
	"math"
	"testing"

	"ecotrip/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreMixedModeTrip(t *testing.T) {
	policy := DefaultPolicy()
	trip := &models.Trip{
		Segments: []models.TripSegment{
			{Mode: models.ModeWalk, DistanceKm: 0.5, DurationMinutes: 6},
			{Mode: models.ModeTrain, DistanceKm: 10, DurationMinutes: 25, CostMinorUnits: 3000},
			{Mode: models.ModeWalk, DistanceKm: 0.3, DurationMinutes: 4},
		},
	}

	result, err := Score(trip, policy)
	require.NoError(t, err)

	// Baseline 10.8 km by car minus the train's actual emissions.
	expected := 0.192*10.8 - 0.041*10
	assert.InDelta(t, expected, result.CO2SavedKg, 1e-9)
	assert.False(t, result.EmissionsExceededBaseline)
	assert.GreaterOrEqual(t, result.EcoScore, 0)
	assert.LessOrEqual(t, result.EcoScore, 100)
}

func TestScoreDeterministic(t *testing.T) {
	policy := DefaultPolicy()
	trip := &models.Trip{
		Segments: []models.TripSegment{
			{Mode: models.ModeBus, DistanceKm: 7.2, DurationMinutes: 30, CostMinorUnits: 2500},
			{Mode: models.ModeWalk, DistanceKm: 0.8, DurationMinutes: 10},
		},
		EstimatedDuration: 35,
	}

	first, err := Score(trip, policy)
	require.NoError(t, err)
	second, err := Score(trip, policy)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScoreZeroDistance(t *testing.T) {
	trip := &models.Trip{
		Segments: []models.TripSegment{
			{Mode: models.ModeWalk, DistanceKm: 0, DurationMinutes: 5},
		},
	}

	result, err := Score(trip, DefaultPolicy())
	require.NoError(t, err)
	assert.Zero(t, result.CO2SavedKg)
	assert.Zero(t, result.EcoScore)
	assert.False(t, result.EmissionsExceededBaseline)
}

func TestScoreCarOnlyTrip(t *testing.T) {
	trip := &models.Trip{
		Segments: []models.TripSegment{
			{Mode: models.ModeCar, DistanceKm: 12, DurationMinutes: 20},
		},
	}

	result, err := Score(trip, DefaultPolicy())
	require.NoError(t, err)

	// Driving the baseline saves nothing.
	assert.Zero(t, result.CO2SavedKg)
	assert.False(t, result.EmissionsExceededBaseline)
}

func TestScoreWalkOnlyTripIsPerfect(t *testing.T) {
	trip := &models.Trip{
		Segments: []models.TripSegment{
			{Mode: models.ModeWalk, DistanceKm: 2.4, DurationMinutes: 30},
		},
	}

	result, err := Score(trip, DefaultPolicy())
	require.NoError(t, err)

	assert.InDelta(t, 0.192*2.4, result.CO2SavedKg, 1e-9)
	assert.Equal(t, 100, result.EcoScore)
}

func TestScoreTimePenalty(t *testing.T) {
	trip := &models.Trip{
		Segments: []models.TripSegment{
			{Mode: models.ModeWalk, DistanceKm: 2, DurationMinutes: 60},
		},
		EstimatedDuration: 30,
	}

	result, err := Score(trip, DefaultPolicy())
	require.NoError(t, err)

	// Twice the planned time halves the time sub-score:
	// 0.5*100 + 0.25*50 + 0.25*100 = 87.5, rounded.
	assert.Equal(t, 88, result.EcoScore)
}

func TestScoreEmissionsExceededBaseline(t *testing.T) {
	policy := DefaultPolicy()
	policy.CarEmissionFactorKgPerKm = 0.05
	policy.EmissionFactorsKgPerKm[models.ModeBus] = 0.2

	trip := &models.Trip{
		Segments: []models.TripSegment{
			{Mode: models.ModeBus, DistanceKm: 10, DurationMinutes: 40},
		},
	}

	result, err := Score(trip, policy)
	require.NoError(t, err)

	// Savings clamp to zero, never negative, and the clamp is reported.
	assert.Zero(t, result.CO2SavedKg)
	assert.True(t, result.EmissionsExceededBaseline)
}

func TestValidateSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []models.TripSegment
	}{
		{"empty", nil},
		{"unknown mode", []models.TripSegment{{Mode: "spaceship", DistanceKm: 1}}},
		{"negative distance", []models.TripSegment{{Mode: models.ModeWalk, DistanceKm: -1}}},
		{"nan distance", []models.TripSegment{{Mode: models.ModeWalk, DistanceKm: math.NaN()}}},
		{"negative duration", []models.TripSegment{{Mode: models.ModeWalk, DistanceKm: 1, DurationMinutes: -5}}},
		{"negative cost", []models.TripSegment{{Mode: models.ModeBus, DistanceKm: 1, CostMinorUnits: -100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSegments(tt.segments)
			assert.ErrorIs(t, err, ErrInvalidTripData)
		})
	}
}

func TestScoreRejectsInvalidTrip(t *testing.T) {
	trip := &models.Trip{}

	result, err := Score(trip, DefaultPolicy())
	assert.ErrorIs(t, err, ErrInvalidTripData)
	assert.Nil(t, result)
}
