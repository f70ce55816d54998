package mission

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// Tuning holds the numeric knobs of the engine
type Tuning struct {
	// FuelRangeErrorMargin multiplies fuel estimates when a margin is requested
	FuelRangeErrorMargin float64
	// ReserveDistanceKm is the extra range kept in the tank when a margin is requested
	ReserveDistanceKm float64
	// TripTimeMargin multiplies trip time estimates when a margin is requested
	TripTimeMargin float64
	// DefaultAverageSpeed (km/h) applies when nobody aboard has a driving record
	DefaultAverageSpeed float64
	// LifeSupportMargin multiplies life support estimates when a margin is requested
	LifeSupportMargin float64

	BaseAccidentChance    float64
	AverageNumMalfunction float64
	PartsNumberModifier   float64
	ExcludedParts         []resource.ID
	WheelOverrides        map[vehicle.Type]int

	// ResourceCheckMillisols is the interval between resource checks while travelling
	ResourceCheckMillisols float64
	// LoadTaskChance is the percent chance per pulse to hand out a loading task
	LoadTaskChance float64
	// LoadChunkKg is how much a loader moves per action
	LoadChunkKg float64

	// PassingScore is the average review score needed for approval
	PassingScore float64
	// AutoApprovePopulation approves plans outright at settlements this small (0 disables)
	AutoApprovePopulation int

	MiningSiteMillisols     float64
	CollectionSiteMillisols float64
	SitePrepareMillisols    float64
	ConstructionMillisols   float64
	NegotiationMillisols    float64

	// Work rates in kg per member millisol
	MiningRate     float64
	CollectionRate float64
}

// DefaultTuning returns the stock engine settings
func DefaultTuning() Tuning {
	return Tuning{
		FuelRangeErrorMargin:   1.5,
		ReserveDistanceKm:      50,
		TripTimeMargin:         1.2,
		DefaultAverageSpeed:    10,
		LifeSupportMargin:      1.5,
		BaseAccidentChance:     0.01,
		AverageNumMalfunction:  2.5,
		PartsNumberModifier:    7.5,
		ExcludedParts:          []resource.ID{resource.SolarPanel, resource.Drill},
		WheelOverrides: map[vehicle.Type]int{
			vehicle.TypeExplorerRover:  2,
			vehicle.TypeCargoRover:     4,
			vehicle.TypeTransportRover: 4,
		},
		ResourceCheckMillisols:  40,
		LoadTaskChance:          75,
		LoadChunkKg:             200,
		PassingScore:            50,
		AutoApprovePopulation:   0,
		MiningSiteMillisols:     4000,
		CollectionSiteMillisols: 1000,
		SitePrepareMillisols:    500,
		ConstructionMillisols:   2000,
		NegotiationMillisols:    100,
		MiningRate:              0.2,
		CollectionRate:          0.5,
	}
}

// Life support consumption per person per sol (kg)
const (
	OxygenPerSol = 0.84
	WaterPerSol  = 4.0
	FoodPerSol   = 0.62
)

// Environment carries every collaborator the engine needs. It replaces process-wide singletons.
type Environment struct {
	Clock       shared.Clock
	Random      shared.RandomSource
	Settlements *settlement.Registry
	Roster      *worker.Roster
	Vehicles    VehicleIndex
	Events      EventRecorder
	Membership  MembershipIndex
	IDs         Identifiers
	Logger      Logger
	Tuning      Tuning
}

// withDefaults fills optional collaborators so the engine never dereferences nil
func (e *Environment) withDefaults() *Environment {
	if e.Clock == nil {
		e.Clock = shared.NewMockClock(shared.NewMarsTime(0))
	}
	if e.Random == nil {
		e.Random = shared.NewSeededRandom(1)
	}
	if e.Settlements == nil {
		e.Settlements = settlement.NewRegistry()
	}
	if e.Roster == nil {
		e.Roster = worker.NewRoster()
	}
	if e.Events == nil {
		e.Events = NewMemoryRecorder()
	}
	if e.IDs == nil {
		e.IDs = NewSequenceIdentifiers(0, nil)
	}
	if e.Logger == nil {
		e.Logger = noOpLogger{}
	}
	if e.Tuning.TripTimeMargin == 0 {
		e.Tuning = DefaultTuning()
	}
	return e
}

func (e *Environment) nextMissionID() int {
	return e.IDs.NextMissionID()
}

func (e *Environment) nextDesignationID(code string) int {
	return e.IDs.NextDesignationID(code)
}

func (e *Environment) log(level, message string, metadata map[string]interface{}) {
	e.Logger.Log(level, message, metadata)
}
