package config

// SimulationConfig drives the tick loop and the engine tuning that operators may change
type SimulationConfig struct {
	// Seed of the random source; 0 seeds from the clock
	Seed int64 `mapstructure:"seed"`

	// Millisols the clock advances per tick
	MillisolsPerTick float64 `mapstructure:"millisols_per_tick" validate:"gt=0,lte=1000"`

	// Ticks per real second
	TicksPerSecond float64 `mapstructure:"ticks_per_second" validate:"gt=0"`

	// MaxTicks stops the scheduler after that many ticks (0 runs until cancelled)
	MaxTicks int `mapstructure:"max_ticks" validate:"min=0"`

	// Scenario is the YAML world file; empty uses the built-in colony
	Scenario string `mapstructure:"scenario"`

	// NewMissionChance is the percent chance per tick that an idle person considers a mission
	NewMissionChance float64 `mapstructure:"new_mission_chance" validate:"min=0,max=100"`

	// FuelRangeErrorMargin multiplies fuel estimates when a margin is requested
	FuelRangeErrorMargin float64 `mapstructure:"fuel_range_error_margin" validate:"gte=1"`

	// ReviewPlans sends new mission plans through settlement review before they proceed
	ReviewPlans bool `mapstructure:"review_plans"`

	// AutoApprovePopulation approves plans outright at settlements this small (0 disables)
	AutoApprovePopulation int `mapstructure:"auto_approve_population" validate:"min=0"`
}
