package config

import (
	"ecotrip/internal/eco"
	"ecotrip/internal/models"
)

// EcoConfig carries the sustainability policy constants. They are injected
// here rather than hard-coded in the engine so deployments can tune emission
// factors and goal thresholds without a rebuild.
type EcoConfig struct {
	CarEmissionFactorKgPerKm   float64 `yaml:"car_emission_factor_kg_per_km"`
	BusEmissionFactorKgPerKm   float64 `yaml:"bus_emission_factor_kg_per_km"`
	TrainEmissionFactorKgPerKm float64 `yaml:"train_emission_factor_kg_per_km"`
	AutoEmissionFactorKgPerKm  float64 `yaml:"auto_emission_factor_kg_per_km"`

	ModeWeight float64 `yaml:"mode_weight"`
	TimeWeight float64 `yaml:"time_weight"`
	CostWeight float64 `yaml:"cost_weight"`

	ReferenceCostMinorPerKm float64 `yaml:"reference_cost_minor_per_km"`
	MilestoneStepKg         float64 `yaml:"milestone_step_kg"`
}

func loadEcoConfig() *EcoConfig {
	defaults := eco.DefaultPolicy()
	return &EcoConfig{
		CarEmissionFactorKgPerKm:   getEnvAsFloat64("ECO_CAR_FACTOR_KG_PER_KM", defaults.CarEmissionFactorKgPerKm),
		BusEmissionFactorKgPerKm:   getEnvAsFloat64("ECO_BUS_FACTOR_KG_PER_KM", defaults.EmissionFactorsKgPerKm[models.ModeBus]),
		TrainEmissionFactorKgPerKm: getEnvAsFloat64("ECO_TRAIN_FACTOR_KG_PER_KM", defaults.EmissionFactorsKgPerKm[models.ModeTrain]),
		AutoEmissionFactorKgPerKm:  getEnvAsFloat64("ECO_AUTO_FACTOR_KG_PER_KM", defaults.EmissionFactorsKgPerKm[models.ModeAuto]),
		ModeWeight:                 getEnvAsFloat64("ECO_MODE_WEIGHT", defaults.ModeWeight),
		TimeWeight:                 getEnvAsFloat64("ECO_TIME_WEIGHT", defaults.TimeWeight),
		CostWeight:                 getEnvAsFloat64("ECO_COST_WEIGHT", defaults.CostWeight),
		ReferenceCostMinorPerKm:    getEnvAsFloat64("ECO_REFERENCE_COST_MINOR_PER_KM", defaults.ReferenceCostMinorPerKm),
		MilestoneStepKg:            getEnvAsFloat64("ECO_MILESTONE_STEP_KG", defaults.MilestoneStepKg),
	}
}

// Policy materializes the configured constants into the scoring policy the
// engine consumes.
func (c *EcoConfig) Policy() *eco.Policy {
	policy := eco.DefaultPolicy()
	policy.CarEmissionFactorKgPerKm = c.CarEmissionFactorKgPerKm
	policy.EmissionFactorsKgPerKm[models.ModeBus] = c.BusEmissionFactorKgPerKm
	policy.EmissionFactorsKgPerKm[models.ModeTrain] = c.TrainEmissionFactorKgPerKm
	policy.EmissionFactorsKgPerKm[models.ModeAuto] = c.AutoEmissionFactorKgPerKm
	policy.EmissionFactorsKgPerKm[models.ModeCar] = c.CarEmissionFactorKgPerKm
	policy.ModeWeight = c.ModeWeight
	policy.TimeWeight = c.TimeWeight
	policy.CostWeight = c.CostWeight
	policy.ReferenceCostMinorPerKm = c.ReferenceCostMinorPerKm
	policy.MilestoneStepKg = c.MilestoneStepKg
	return policy
}
