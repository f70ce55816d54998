package simulation

import (
	"sync"
	"time"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission/kinds"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/scenario"
)

// Options configures a World
type Options struct {
	// Seed of the random source; 0 seeds from the wall clock
	Seed   int64
	Random shared.RandomSource

	Tuning      mission.Tuning
	ReviewPlans bool

	// Clock lets adapters built before the world share its time; nil starts one at the colony start
	Clock *shared.SimulationClock

	Events mission.EventRecorder
	Logger mission.Logger

	// LastMissionID continues numbering after a restart
	LastMissionID int
}

// World owns every live domain object of one simulation. All mutation happens under its lock:
// the tick loop and command handlers both go through Do.
type World struct {
	mu sync.Mutex

	name        string
	clock       *shared.SimulationClock
	random      shared.RandomSource
	settlements *settlement.Registry
	roster      *worker.Roster
	fleet       *vehicle.Fleet
	manager     *mission.Manager
	planner     *kinds.Planner
	env         *mission.Environment
}

// NewWorld wires a colony into a mission engine with every mission kind registered
func NewWorld(colony *scenario.Colony, opts Options) *World {
	random := opts.Random
	if random == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		random = shared.NewSeededRandom(seed)
	}
	tuning := opts.Tuning
	if tuning.TripTimeMargin == 0 {
		tuning = mission.DefaultTuning()
	}

	clock := opts.Clock
	if clock == nil {
		clock = shared.NewSimulationClock(colony.Start)
	}
	env := &mission.Environment{
		Clock:       clock,
		Random:      random,
		Settlements: colony.Settlements,
		Roster:      colony.Roster,
		Vehicles:    colony.Fleet,
		Events:      opts.Events,
		IDs:         mission.NewSequenceIdentifiers(opts.LastMissionID, nil),
		Logger:      opts.Logger,
		Tuning:      tuning,
	}
	manager := mission.NewManager(env)

	surveyor := colony.Surveyor
	if surveyor == nil {
		surveyor = kinds.NewRandomSurveyor(random)
	}
	planner := &kinds.Planner{
		Env:         env,
		Missions:    manager,
		Surveyor:    surveyor,
		NeedsReview: opts.ReviewPlans,
	}
	for _, meta := range planner.MetaMissions() {
		manager.RegisterMetaMission(meta)
	}

	return &World{
		name:        colony.Name,
		clock:       clock,
		random:      random,
		settlements: colony.Settlements,
		roster:      colony.Roster,
		fleet:       colony.Fleet,
		manager:     manager,
		planner:     planner,
		env:         env,
	}
}

func (w *World) Name() string                      { return w.name }
func (w *World) Clock() *shared.SimulationClock    { return w.clock }
func (w *World) Random() shared.RandomSource       { return w.random }
func (w *World) Settlements() *settlement.Registry { return w.settlements }
func (w *World) Roster() *worker.Roster            { return w.roster }
func (w *World) Fleet() *vehicle.Fleet             { return w.fleet }
func (w *World) Manager() *mission.Manager         { return w.manager }
func (w *World) Planner() *kinds.Planner           { return w.planner }
func (w *World) Environment() *mission.Environment { return w.env }

// Do runs fn while holding the world lock
func (w *World) Do(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
}

// Person finds a person by name
func (w *World) Person(name string) *worker.Person {
	if p, ok := w.roster.Find(name).(*worker.Person); ok {
		return p
	}
	return nil
}
