package kinds_test

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

// colony is Alpha Base with a rover, an areologist and an engineer, and a small outpost nearby
type colony struct {
	env      *mission.Environment
	clock    *shared.MockClock
	recorder *mission.MemoryRecorder
	home     *settlement.Settlement
	outpost  *settlement.Settlement
	fleet    *vehicle.Fleet
	rover    *vehicle.Vehicle
	lead     *worker.Person
	crew     []*worker.Person
}

func newColony(t *testing.T) *colony {
	t.Helper()
	home, err := settlement.NewSettlement("Alpha Base", shared.Coordinates{}, 10, 3)
	require.NoError(t, err)
	outpost, err := settlement.NewSettlement("Beta Outpost", shared.Coordinates{Latitude: 0.5}, 6, 2)
	require.NoError(t, err)

	stock := home.Inventory()
	stock.StoreAmount(resource.Methanol, 3000)
	stock.StoreAmount(resource.Oxygen, 5000)
	stock.StoreAmount(resource.Water, 3000)
	stock.StoreAmount(resource.Food, 1500)
	stock.StoreAmount(resource.Regolith, 1000)
	for _, id := range []resource.ID{resource.Wheel, resource.Battery, resource.Filter, resource.FuelCell, resource.Pipe} {
		stock.StoreItem(id, 10)
	}
	stock.StoreItem(resource.Barrel, 20)
	stock.StoreItem(resource.LargeBag, 10)
	stock.StoreItem(resource.GasCanister, 10)

	// the outpost is well stocked unless a test drains it
	outpost.Inventory().StoreAmount(resource.Methanol, 2000)
	outpost.Inventory().StoreAmount(resource.Oxygen, 1000)
	outpost.Inventory().StoreAmount(resource.Water, 1000)
	outpost.Inventory().StoreAmount(resource.Food, 500)

	rover, err := vehicle.NewVehicle("Rover 1", vehicle.TypeExplorerRover, home.Name(), home.Coordinates())
	require.NoError(t, err)
	rover.Park(home.Name(), home.Coordinates())
	home.ParkVehicle(rover.Name())

	lead, err := worker.NewPerson("Ada Lovelace", home.Name(), worker.JobPilot, worker.RoleMissionSpecialist)
	require.NoError(t, err)

	clock := shared.NewMockClock(shared.NewMarsTime(1000))
	recorder := mission.NewMemoryRecorder()
	fleet := vehicle.NewFleet(rover)
	tuning := mission.DefaultTuning()
	tuning.MiningSiteMillisols = 100
	tuning.CollectionSiteMillisols = 100
	tuning.ConstructionMillisols = 200
	env := &mission.Environment{
		Clock:       clock,
		Random:      shared.NewFixedRandom(0),
		Settlements: settlement.NewRegistry(home, outpost),
		Roster:      worker.NewRoster(lead),
		Vehicles:    fleet,
		Events:      recorder,
		Tuning:      tuning,
	}
	c := &colony{
		env:      env,
		clock:    clock,
		recorder: recorder,
		home:     home,
		outpost:  outpost,
		fleet:    fleet,
		rover:    rover,
		lead:     lead,
	}
	c.crew = append(c.crew,
		c.addPerson(t, "Grace Hopper", worker.JobAreologist),
		c.addPerson(t, "Linus Pauling", worker.JobEngineer),
	)
	return c
}

func (c *colony) addPerson(t *testing.T, name string, job worker.Job) *worker.Person {
	t.Helper()
	p, err := worker.NewPerson(name, c.home.Name(), job, worker.RoleResident)
	require.NoError(t, err)
	c.env.Roster.Add(p)
	return p
}

func (c *colony) addVehicle(t *testing.T, name string, vt vehicle.Type) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(name, vt, c.home.Name(), c.home.Coordinates())
	require.NoError(t, err)
	v.Park(c.home.Name(), c.home.Coordinates())
	c.home.ParkVehicle(v.Name())
	c.fleet.Add(v)
	return v
}

// drainOutpost leaves the outpost with nothing in store
func (c *colony) drainOutpost() {
	for _, id := range []resource.ID{resource.Methanol, resource.Oxygen, resource.Water, resource.Food} {
		c.outpost.Inventory().Retrieve(id, c.outpost.Inventory().AmountStored(id))
	}
}

// pulse advances the clock and lets every member act once
func (c *colony) pulse(m *mission.Mission, millisols float64) {
	c.clock.Advance(millisols)
	for _, member := range m.Members() {
		m.PerformMission(member)
	}
}

func (c *colony) runUntil(t *testing.T, m *mission.Mission, cond func() bool) {
	t.Helper()
	for i := 0; i < 400; i++ {
		if cond() {
			return
		}
		c.pulse(m, 25)
	}
	require.True(t, cond(), "condition not reached, mission in %s", m.Phase())
}

func phaseIs(m *mission.Mission, p mission.Phase) func() bool {
	return func() bool { return m.Phase() == p }
}
