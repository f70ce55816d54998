package kinds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission/kinds"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
)

func hematiteSite() *kinds.FixedSurveyor {
	return &kinds.FixedSurveyor{Mining: &kinds.MiningSite{
		Location:       shared.Coordinates{Latitude: -0.3},
		Concentrations: map[resource.ID]float64{resource.Hematite: 3, resource.Olivine: 1},
	}}
}

func TestMining_NeedsLUV(t *testing.T) {
	// Arrange
	c := newColony(t)

	// Act
	mi, err := kinds.NewMining(c.env, c.lead, kinds.MiningOptions{Surveyor: hematiteSite()})

	// Assert
	require.NoError(t, err)
	assert.True(t, mi.Mission().HasStatus(kinds.StatusLUVNotAvailable))
	assert.False(t, c.rover.IsReserved())
}

func TestMining_EndsWithoutSite(t *testing.T) {
	// Arrange
	c := newColony(t)
	luv := c.addVehicle(t, "LUV 1", vehicle.TypeLUV)

	// Act
	mi, err := kinds.NewMining(c.env, c.lead, kinds.MiningOptions{Surveyor: &kinds.FixedSurveyor{}})

	// Assert
	require.NoError(t, err)
	assert.True(t, mi.Mission().HasStatus(kinds.StatusMiningSiteNotDetermined))
	assert.False(t, luv.IsReserved())
}

func TestMining_ReservesRoverAndLUV(t *testing.T) {
	// Arrange
	c := newColony(t)
	luv := c.addVehicle(t, "LUV 1", vehicle.TypeLUV)

	// Act
	mi, err := kinds.NewMining(c.env, c.lead, kinds.MiningOptions{Surveyor: hematiteSite()})

	// Assert
	require.NoError(t, err)
	assert.False(t, mi.Mission().IsDone())
	assert.Equal(t, luv, mi.LUV())
	assert.True(t, luv.IsReserved())
	assert.True(t, c.rover.IsReserved())
	assert.GreaterOrEqual(t, mi.Mission().MemberCount(), 2)
	assert.True(t, mi.EquipmentNeededForRemainingMission(false).Get(resource.LargeBag) > 0)
}

func TestMining_ExcavatesAndBringsMineralsHome(t *testing.T) {
	// Arrange
	c := newColony(t)
	luv := c.addVehicle(t, "LUV 1", vehicle.TypeLUV)
	mi, err := kinds.NewMining(c.env, c.lead, kinds.MiningOptions{Surveyor: hematiteSite()})
	require.NoError(t, err)
	m := mi.Mission()

	// Act
	c.runUntil(t, m, phaseIs(m, kinds.PhaseMiningSite))
	towed := !luv.IsParked()
	c.runUntil(t, m, m.IsDone)

	// Assert
	assert.True(t, towed)
	assert.True(t, m.HasStatus(mission.StatusAccomplished))
	assert.True(t, mi.IsSiteDone())
	excavated := mi.Excavated()
	assert.Greater(t, excavated.Get(resource.Hematite), excavated.Get(resource.Olivine))
	assert.Zero(t, excavated.Get(resource.Kamacite))
	assert.InDelta(t, excavated.Get(resource.Hematite), c.home.Inventory().AmountStored(resource.Hematite), 1e-6)
	assert.True(t, luv.IsParked())
	assert.Equal(t, "Alpha Base", luv.Settlement())
	assert.False(t, luv.IsReserved())
	assert.False(t, c.rover.IsReserved())
}
