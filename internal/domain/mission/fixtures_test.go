package mission_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// testWorld is a two settlement colony with one explorer rover parked at home
type testWorld struct {
	env      *mission.Environment
	clock    *shared.MockClock
	recorder *mission.MemoryRecorder
	home     *settlement.Settlement
	outpost  *settlement.Settlement
	fleet    *vehicle.Fleet
	rover    *vehicle.Vehicle
	lead     *worker.Person
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	home, err := settlement.NewSettlement("Alpha Base", shared.Coordinates{}, 10, 2)
	require.NoError(t, err)
	outpost, err := settlement.NewSettlement("Beta Outpost", shared.Coordinates{Latitude: 0.5}, 6, 2)
	require.NoError(t, err)

	home.Inventory().StoreAmount(resource.Methanol, 2000)
	home.Inventory().StoreAmount(resource.Oxygen, 5000)
	home.Inventory().StoreAmount(resource.Water, 2000)
	home.Inventory().StoreAmount(resource.Food, 1000)
	home.Inventory().StoreItem(resource.Wheel, 10)
	home.Inventory().StoreItem(resource.Battery, 10)
	home.Inventory().StoreItem(resource.Filter, 10)
	home.Inventory().StoreItem(resource.FuelCell, 10)
	home.Inventory().StoreItem(resource.Pipe, 10)
	home.Inventory().StoreItem(resource.Barrel, 20)

	rover, err := vehicle.NewVehicle("Rover 1", vehicle.TypeExplorerRover, home.Name(), home.Coordinates())
	require.NoError(t, err)
	rover.Park(home.Name(), home.Coordinates())
	home.ParkVehicle(rover.Name())

	lead, err := worker.NewPerson("Ada Lovelace", home.Name(), worker.JobPilot, worker.RoleMissionSpecialist)
	require.NoError(t, err)

	clock := shared.NewMockClock(shared.NewMarsTime(1000))
	recorder := mission.NewMemoryRecorder()
	fleet := vehicle.NewFleet(rover)
	env := &mission.Environment{
		Clock:       clock,
		Random:      shared.NewFixedRandom(0),
		Settlements: settlement.NewRegistry(home, outpost),
		Roster:      worker.NewRoster(lead),
		Vehicles:    fleet,
		Events:      recorder,
		Tuning:      mission.DefaultTuning(),
	}
	return &testWorld{
		env:      env,
		clock:    clock,
		recorder: recorder,
		home:     home,
		outpost:  outpost,
		fleet:    fleet,
		rover:    rover,
		lead:     lead,
	}
}

func (w *testWorld) addPerson(t *testing.T, name string, job worker.Job) *worker.Person {
	t.Helper()
	p, err := worker.NewPerson(name, w.home.Name(), job, worker.RoleResident)
	require.NoError(t, err)
	w.env.Roster.Add(p)
	return p
}

func (w *testWorld) newMission(t *testing.T, mtype mission.Type, minMembers, capacity int) *mission.Mission {
	t.Helper()
	m, err := mission.NewMission(w.env, mission.Config{
		Type:       mtype,
		Starter:    w.lead,
		MinMembers: minMembers,
		Capacity:   capacity,
	})
	require.NoError(t, err)
	return m
}

// newTrip builds a rover trip from home to the outpost with the lead aboard
func (w *testWorld) newTrip(t *testing.T) (*mission.Mission, *mission.VehicleMission) {
	t.Helper()
	m := w.newMission(t, mission.TypeTrade, 1, 2)
	vm := mission.NewVehicleMission(m, false)
	require.True(t, vm.ReserveVehicle())
	vm.AddSettlementNavpoint(w.outpost)
	return m, vm
}

// pulse advances the clock and lets every member act once
func (w *testWorld) pulse(m *mission.Mission, millisols float64) {
	w.clock.Advance(millisols)
	for _, member := range m.Members() {
		m.PerformMission(member)
	}
}

type eventCounter struct {
	counts map[mission.EventType]int
}

func newEventCounter(m *mission.Mission) *eventCounter {
	c := &eventCounter{counts: make(map[mission.EventType]int)}
	m.AddListener(mission.ListenerFunc(func(e mission.Event) {
		c.counts[e.Type]++
	}))
	return c
}
