package eco

import "ecotrip/internal/models"

// Policy carries the emission and scoring constants. The app never hard-codes
// these in the engine; they are injected from configuration so deployments can
// tune them without a rebuild.
type Policy struct {
	// CarEmissionFactorKgPerKm is the baseline a private car would have
	// emitted over the trip's total distance.
	CarEmissionFactorKgPerKm float64

	// EmissionFactorsKgPerKm maps each transport mode to its per-km factor.
	EmissionFactorsKgPerKm map[models.TransportMode]float64

	// SustainabilityValues maps each mode to a 0-100 sustainability rating
	// for the distance-weighted mode sub-score.
	SustainabilityValues map[models.TransportMode]float64

	// Weights of the three eco-score components. Must sum to 1.0.
	ModeWeight float64
	TimeWeight float64
	CostWeight float64

	// ReferenceCostMinorPerKm is the flat-rate cost baseline for the cost
	// efficiency sub-score, in minor currency units per km.
	ReferenceCostMinorPerKm float64

	// MilestoneStepKg is the cumulative CO2-saved step between achievement
	// notifications.
	MilestoneStepKg float64
}

// DefaultPolicy returns the documented defaults. Emission factors follow
// commonly published per-passenger-km figures: petrol car 0.192, bus 0.089,
// rail 0.041, auto rickshaw 0.120 kg CO2e/km.
func DefaultPolicy() *Policy {
	return &Policy{
		CarEmissionFactorKgPerKm: 0.192,
		EmissionFactorsKgPerKm: map[models.TransportMode]float64{
			models.ModeWalk:  0,
			models.ModeBike:  0,
			models.ModeBus:   0.089,
			models.ModeTrain: 0.041,
			models.ModeAuto:  0.120,
			models.ModeCar:   0.192,
		},
		SustainabilityValues: map[models.TransportMode]float64{
			models.ModeWalk:  100,
			models.ModeBike:  100,
			models.ModeBus:   75,
			models.ModeTrain: 75,
			models.ModeAuto:  40,
			models.ModeCar:   0,
		},
		ModeWeight:              0.5,
		TimeWeight:              0.25,
		CostWeight:              0.25,
		ReferenceCostMinorPerKm: 1500, // flat-rate fare baseline per km
		MilestoneStepKg:         5,
	}
}
