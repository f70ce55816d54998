package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/scenario"
)

// TestColonyYAML is a small two-settlement colony with one rover and three people
const TestColonyYAML = `
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

// BuildTestWorld builds TestColonyYAML into a world whose random source always succeeds
func BuildTestWorld(reviewPlans bool, events mission.EventRecorder) (*simulation.World, error) {
	s, err := scenario.Parse([]byte(TestColonyYAML))
	if err != nil {
		return nil, err
	}
	colony, err := s.Build()
	if err != nil {
		return nil, err
	}
	return simulation.NewWorld(colony, simulation.Options{
		Random:      shared.NewFixedRandom(0),
		ReviewPlans: reviewPlans,
		Events:      events,
	}), nil
}

// NewTestWorld is BuildTestWorld with an in-memory event recorder
func NewTestWorld(t *testing.T, reviewPlans bool) (*simulation.World, *mission.MemoryRecorder) {
	t.Helper()
	recorder := mission.NewMemoryRecorder()
	world, err := BuildTestWorld(reviewPlans, recorder)
	require.NoError(t, err)
	return world, recorder
}
