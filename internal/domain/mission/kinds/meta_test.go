package kinds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission/kinds"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

func newPlannedManager(c *colony) (*mission.Manager, *kinds.Planner) {
	mgr := mission.NewManager(c.env)
	planner := &kinds.Planner{
		Env:      c.env,
		Missions: mgr,
		Surveyor: &kinds.FixedSurveyor{Sites: []shared.Coordinates{{Latitude: 0.2}}},
	}
	for _, meta := range planner.MetaMissions() {
		mgr.RegisterMetaMission(meta)
	}
	return mgr, planner
}

func probabilityOf(mgr *mission.Manager, t mission.Type, p *worker.Person) float64 {
	return mgr.MetaMissionFor(t).Probability(p)
}

func TestPlanner_RegistersEveryKind(t *testing.T) {
	// Arrange
	c := newColony(t)

	// Act
	mgr, planner := newPlannedManager(c)

	// Assert
	assert.NotNil(t, planner.Sites)
	for _, mt := range []mission.Type{
		mission.TypeTrade, mission.TypeDelivery, mission.TypeMining, mission.TypeCollectIce,
		mission.TypeCollectRegolith, mission.TypeEmergencySupply, mission.TypeConstruction,
		mission.TypeBuildingConstruction,
	} {
		assert.NotNil(t, mgr.MetaMissionFor(mt), mt.String())
	}
}

func TestMetaMission_Probability(t *testing.T) {
	t.Run("preferred job doubles the weight", func(t *testing.T) {
		// Arrange
		c := newColony(t)
		mgr, _ := newPlannedManager(c)

		// Act
		areologist := probabilityOf(mgr, mission.TypeCollectIce, c.crew[0])
		pilot := probabilityOf(mgr, mission.TypeCollectIce, c.lead)

		// Assert
		assert.Greater(t, pilot, 0.0)
		assert.InDelta(t, 2*pilot, areologist, 1e-9)
	})

	t.Run("kinds without their vehicle are infeasible", func(t *testing.T) {
		// Arrange
		c := newColony(t)
		mgr, _ := newPlannedManager(c)

		// Act & Assert
		assert.Zero(t, probabilityOf(mgr, mission.TypeMining, c.lead))
		assert.Zero(t, probabilityOf(mgr, mission.TypeDelivery, c.lead))
		assert.Greater(t, probabilityOf(mgr, mission.TypeTrade, c.lead), 0.0)

		c.addVehicle(t, "LUV 1", vehicle.TypeLUV)
		assert.Greater(t, probabilityOf(mgr, mission.TypeMining, c.lead), 0.0)
	})

	t.Run("emergency supply only when someone needs help", func(t *testing.T) {
		// Arrange
		c := newColony(t)
		mgr, _ := newPlannedManager(c)

		// Act
		calm := probabilityOf(mgr, mission.TypeEmergencySupply, c.lead)
		c.drainOutpost()
		crisis := probabilityOf(mgr, mission.TypeEmergencySupply, c.lead)

		// Assert
		assert.Zero(t, calm)
		assert.Greater(t, crisis, 0.0)
	})

	t.Run("seriously ill people start nothing", func(t *testing.T) {
		// Arrange
		c := newColony(t)
		mgr, _ := newPlannedManager(c)
		c.lead.AddMedicalProblem(worker.MedicalProblem{Name: "radiation sickness", Serious: true})

		// Act
		total := mgr.TotalMissionProbability(c.lead)

		// Assert
		assert.Zero(t, total)
	})

	t.Run("kind under way at the settlement is less likely", func(t *testing.T) {
		// Arrange
		c := newColony(t)
		mgr, _ := newPlannedManager(c)
		spare := c.addPerson(t, "Mae Jemison", worker.JobArchitect)
		before := probabilityOf(mgr, mission.TypeConstruction, spare)
		_, err := mgr.StartMission(c.lead, mission.TypeConstruction)
		require.NoError(t, err)
		other := c.addPerson(t, "Nikola Tesla", worker.JobArchitect)

		// Act
		after := probabilityOf(mgr, mission.TypeConstruction, other)

		// Assert
		assert.InDelta(t, before/2, after, 1e-9)
	})
}

func TestManager_StartsPlannedKind(t *testing.T) {
	// Arrange
	c := newColony(t)
	mgr, _ := newPlannedManager(c)

	// Act
	m, err := mgr.StartMission(c.lead, mission.TypeCollectRegolith)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, mission.TypeCollectRegolith, m.Type())
	assert.Equal(t, mission.PhaseLoading, m.Phase())
	assert.True(t, mgr.HasMission(c.lead))
	cr, ok := m.Behavior().(*kinds.CollectResources)
	require.True(t, ok)
	assert.Equal(t, "Rover 1", cr.Vehicle().Name())
	assert.Zero(t, probabilityOf(mgr, mission.TypeCollectRegolith, c.lead))
}

func TestManager_EmergencySupplySkipsServedSettlement(t *testing.T) {
	// Arrange
	c := newColony(t)
	c.drainOutpost()
	c.addVehicle(t, "Rover 2", vehicle.TypeExplorerRover)
	mgr, _ := newPlannedManager(c)
	_, err := mgr.StartMission(c.lead, mission.TypeEmergencySupply)
	require.NoError(t, err)
	other := c.addPerson(t, "Mae Jemison", worker.JobDoctor)

	// Act
	p := probabilityOf(mgr, mission.TypeEmergencySupply, other)

	// Assert
	assert.Zero(t, p)
}
