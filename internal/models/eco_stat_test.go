package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEcoStatApplyIncrementalMean(t *testing.T) {
	stat := &EcoStat{}

	stat.Apply(&EcoStatDelta{Sign: 1, EcoScore: 80, CO2SavedKg: 2.5, DistanceWalkedKm: 1.0})
	assert.Equal(t, int64(1), stat.TripsCount)
	assert.InDelta(t, 80, stat.AverageEcoScore, 1e-9)

	stat.Apply(&EcoStatDelta{Sign: 1, EcoScore: 60, CO2SavedKg: 1.5, PublicTransportTrips: 1})
	assert.Equal(t, int64(2), stat.TripsCount)
	assert.InDelta(t, 70, stat.AverageEcoScore, 1e-9)
	assert.InDelta(t, 4.0, stat.TotalCO2Saved, 1e-9)
	assert.Equal(t, int64(1), stat.TotalPublicTransportTrips)
}

func TestEcoStatApplyCompensation(t *testing.T) {
	stat := &EcoStat{}
	stat.Apply(&EcoStatDelta{Sign: 1, EcoScore: 80, CO2SavedKg: 2.5})
	stat.Apply(&EcoStatDelta{Sign: 1, EcoScore: 60, CO2SavedKg: 1.5})

	// Removing the second trip restores the first trip's numbers exactly.
	stat.Apply(&EcoStatDelta{Sign: -1, EcoScore: 60, CO2SavedKg: 1.5})
	assert.Equal(t, int64(1), stat.TripsCount)
	assert.InDelta(t, 80, stat.AverageEcoScore, 1e-9)
	assert.InDelta(t, 2.5, stat.TotalCO2Saved, 1e-9)
}

func TestEcoStatApplyClampsAtZero(t *testing.T) {
	stat := &EcoStat{}
	stat.Apply(&EcoStatDelta{Sign: -1, EcoScore: 50, CO2SavedKg: 3, DistanceWalkedKm: 2, PublicTransportTrips: 1})

	assert.Zero(t, stat.TripsCount)
	assert.Zero(t, stat.AverageEcoScore)
	assert.Zero(t, stat.TotalCO2Saved)
	assert.Zero(t, stat.TotalDistanceWalked)
	assert.Zero(t, stat.TotalPublicTransportTrips)
}

func TestTripHelpers(t *testing.T) {
	trip := &Trip{
		Segments: []TripSegment{
			{Mode: ModeWalk, DistanceKm: 0.5, DurationMinutes: 6},
			{Mode: ModeTrain, DistanceKm: 10, DurationMinutes: 25, CostMinorUnits: 3000},
			{Mode: ModeWalk, DistanceKm: 0.3, DurationMinutes: 4},
		},
	}

	assert.InDelta(t, 10.8, trip.TotalDistanceKm(), 1e-9)
	assert.InDelta(t, 0.8, trip.WalkDistanceKm(), 1e-9)
	assert.Equal(t, int64(3000), trip.TotalCostMinorUnits())
	assert.True(t, trip.HasPublicTransport())
	assert.Equal(t, 35, trip.ActualDurationMinutes())
}
