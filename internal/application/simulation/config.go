package simulation

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/config"
)

// OptionsFromConfig maps the operator settings onto world options. Events, logger and the last
// mission ID are left for the caller.
func OptionsFromConfig(cfg config.SimulationConfig) Options {
	tuning := mission.DefaultTuning()
	if cfg.FuelRangeErrorMargin > 0 {
		tuning.FuelRangeErrorMargin = cfg.FuelRangeErrorMargin
	}
	tuning.AutoApprovePopulation = cfg.AutoApprovePopulation
	return Options{
		Seed:        cfg.Seed,
		Tuning:      tuning,
		ReviewPlans: cfg.ReviewPlans,
	}
}

// TickConfigFromConfig maps the operator settings onto the tick pace
func TickConfigFromConfig(cfg config.SimulationConfig) TickConfig {
	tc := DefaultTickConfig()
	if cfg.MillisolsPerTick > 0 {
		tc.MillisolsPerTick = cfg.MillisolsPerTick
	}
	if cfg.NewMissionChance > 0 {
		tc.NewMissionChance = cfg.NewMissionChance
	}
	return tc
}
