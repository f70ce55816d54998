package simulation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/scenario"
)

const testColony = `
name: Test colony
start_millisols: 1000
settlements:
  - name: Alpha Base
    population: 4
    garage: 2
    amounts: {methanol: 3000, oxygen: 3000, water: 3000, food: 1500, regolith: 500}
    items: {wheel: 10, battery: 10, filter: 10, fuel cell: 10, pipe: 10, barrel: 20, large bag: 10, gas canister: 10}
  - name: Beta Outpost
    latitude: 0.5
    population: 3
    amounts: {methanol: 2000, oxygen: 1000, water: 1000, food: 500}
vehicles:
  - {name: Rover 1, type: EXPLORER_ROVER, home: Alpha Base}
people:
  - {name: Ada Lovelace, settlement: Alpha Base, job: PILOT, role: MISSION_SPECIALIST}
  - {name: Grace Hopper, settlement: Alpha Base, job: AREOLOGIST}
  - {name: Mae Jemison, settlement: Alpha Base, job: DOCTOR, role: COMMANDER}
collection_sites:
  - {latitude: 0.2}
`

func newTestWorld(t *testing.T, reviewPlans bool) (*simulation.World, *mission.MemoryRecorder) {
	t.Helper()
	s, err := scenario.Parse([]byte(testColony))
	require.NoError(t, err)
	colony, err := s.Build()
	require.NoError(t, err)
	recorder := mission.NewMemoryRecorder()
	w := simulation.NewWorld(colony, simulation.Options{
		Random:      shared.NewFixedRandom(0),
		ReviewPlans: reviewPlans,
		Events:      recorder,
	})
	return w, recorder
}

type capturingSnapshots struct {
	saved map[int]*mission.MissionData
}

func newCapturingSnapshots() *capturingSnapshots {
	return &capturingSnapshots{saved: make(map[int]*mission.MissionData)}
}

func (c *capturingSnapshots) Save(ctx context.Context, data *mission.MissionData) error {
	c.saved[data.ID] = data
	return nil
}

func (c *capturingSnapshots) FindByID(ctx context.Context, id int) (*mission.MissionData, error) {
	return c.saved[id], nil
}

func (c *capturingSnapshots) List(ctx context.Context, settlement string, includeDone bool) ([]*mission.MissionData, error) {
	var out []*mission.MissionData
	for _, d := range c.saved {
		out = append(out, d)
	}
	return out, nil
}

type countingObserver struct{ reports []simulation.TickReport }

func (o *countingObserver) ObserveTick(report simulation.TickReport) {
	o.reports = append(o.reports, report)
}
