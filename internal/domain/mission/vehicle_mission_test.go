package mission_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// runUntil pulses the mission until the condition holds or the pulse budget runs out
func runUntil(t *testing.T, w *testWorld, m *mission.Mission, cond func() bool) {
	t.Helper()
	for i := 0; i < 100; i++ {
		if cond() {
			return
		}
		w.pulse(m, 25)
	}
	require.True(t, cond(), "condition not reached, mission in %s", m.Phase())
}

func TestVehicleMission_ReservesParkedRover(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeTrade, 1, 2)
	vm := mission.NewVehicleMission(m, false)

	// Act
	ok := vm.ReserveVehicle()

	// Assert
	require.True(t, ok)
	assert.Same(t, w.rover, vm.Vehicle())
	assert.True(t, w.rover.IsReserved())
	assert.Equal(t, mission.TravelAtNavpoint, vm.TravelStatus())
	start, _ := vm.Navpoint(0)
	assert.Equal(t, "Alpha Base", start.Settlement())
}

func TestVehicleMission_NoVehicleEndsMission(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	w.rover.SetReservedForMission(true)
	m := w.newMission(t, mission.TypeTrade, 1, 2)
	vm := mission.NewVehicleMission(m, false)

	// Act
	ok := vm.ReserveVehicle()

	// Assert
	assert.False(t, ok)
	assert.True(t, m.IsDone())
	assert.True(t, m.HasStatus(mission.StatusNoAvailableVehicles))
}

func TestVehicleMission_DroneMissionIgnoresRovers(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeDelivery, 1, 1)
	vm := mission.NewVehicleMission(m, true)

	// Act
	ok := vm.ReserveVehicle()

	// Assert
	assert.False(t, ok)
	assert.False(t, w.rover.IsReserved())
}

func TestVehicleMission_SetVehiclePanicsOnNil(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeTrade, 1, 2)
	vm := mission.NewVehicleMission(m, false)

	// Act & Assert
	assert.Panics(t, func() { vm.SetVehicle(nil) })
}

func TestVehicleMission_RouteDistances(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	_, vm := w.newTrip(t)

	// Act
	vm.AddSettlementNavpoint(w.home)

	// Assert
	leg := w.home.Coordinates().DistanceTo(w.outpost.Coordinates())
	assert.Equal(t, 3, vm.NumberOfNavpoints())
	assert.InDelta(t, 2*leg, vm.DistanceProposed(), 1e-9)
	assert.InDelta(t, 2*leg, vm.ComputeTotalDistanceRemaining(), 1e-9)
	assert.Zero(t, vm.ComputeDistanceCurrentLegRemaining())
}

func TestVehicleMission_NavpointDistancesAreFixedWhenAdded(t *testing.T) {
	t.Run("each stop measures from the stop before it", func(t *testing.T) {
		// Arrange
		w := newTestWorld(t)
		_, vm := w.newTrip(t)
		site := shared.Coordinates{Latitude: 0.5, Longitude: 0.5}

		// Act
		vm.AddNavpoint(site, "Prospecting Site #1")
		vm.AddSettlementNavpoint(w.home)

		// Assert
		siteStop, ok := vm.Navpoint(2)
		require.True(t, ok)
		homeStop, ok := vm.Navpoint(3)
		require.True(t, ok)
		assert.InDelta(t, w.outpost.Coordinates().DistanceTo(site), siteStop.Distance(), 1e-9)
		assert.InDelta(t, site.DistanceTo(w.home.Coordinates()), homeStop.Distance(), 1e-9)
	})

	t.Run("replacing the route measures the new leg", func(t *testing.T) {
		// Arrange
		w := newTestWorld(t)
		_, vm := w.newTrip(t)
		vm.AddNavpoint(shared.Coordinates{Latitude: 2}, "Far Site")
		outpost, ok := vm.Navpoint(1)
		require.True(t, ok)
		home, ok := vm.Navpoint(0)
		require.True(t, ok)

		// Act
		vm.ResetToReturnTrip(outpost, home)

		// Assert
		leg := w.outpost.Coordinates().DistanceTo(w.home.Coordinates())
		assert.Equal(t, 2, vm.NumberOfNavpoints())
		returnStop, _ := vm.Navpoint(1)
		assert.InDelta(t, leg, returnStop.Distance(), 1e-9)
		assert.InDelta(t, leg, vm.DistanceProposed(), 1e-9)
	})
}

func TestVehicleMission_AverageSpeedUsesDrivingHistory(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m, vm := w.newTrip(t)

	// Act & Assert - nobody has driven, so the rover's base speed applies
	assert.Equal(t, w.rover.BaseSpeed(), vm.AverageVehicleSpeed())

	w.lead.RecordDriving(20)
	assert.InDelta(t, 20.0, vm.AverageVehicleSpeed(), 1e-9)

	// a member who has never driven counts at the rover's base speed
	rookie := w.addPerson(t, "Rookie", worker.JobPilot)
	m.AddMember(rookie)
	assert.InDelta(t, (20+w.rover.BaseSpeed())/2, vm.AverageVehicleSpeed(), 1e-9)
}

func TestVehicleMission_EstimatedTripTime(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	_, vm := w.newTrip(t)

	// Act
	plain := vm.EstimatedTripTime(false, 30)
	withMargin := vm.EstimatedTripTime(true, 30)

	// Assert - 30 km at the rover's 30 km/h is one hour
	assert.InDelta(t, shared.MillisolsPerHour, plain, 1e-9)
	assert.InDelta(t, plain*1.2, withMargin, 1e-9)
	assert.Zero(t, vm.EstimatedTripTime(true, 0))
}

func TestVehicleMission_FuelWithMarginNeverBelowPlainEstimate(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	_, vm := w.newTrip(t)

	for _, d := range []float64{0.5, 10, 100, 1000, 5000} {
		// Act
		plain := vm.FuelNeededForTrip(d, false)
		margin := vm.FuelNeededForTrip(d, true)

		// Assert
		assert.InDelta(t, d/w.rover.ConservativeFuelEconomy(), plain, 1e-9)
		assert.GreaterOrEqual(t, margin, plain, "distance %.1f", d)
	}
}

func TestVehicleMission_FuelGrowsWithDistance(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	_, vm := w.newTrip(t)
	distances := []float64{1, 5, 25, 50, 120, 300, 1000, 5000}

	for _, useMargin := range []bool{false, true} {
		previous := 0.0
		for _, d := range distances {
			// Act
			fuel := vm.FuelNeededForTrip(d, useMargin)

			// Assert
			assert.Greater(t, fuel, previous, "distance %.0f, margin %v", d, useMargin)
			previous = fuel
		}
	}
}

func TestVehicleMission_ResourcesNeededForTrip(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	_, vm := w.newTrip(t)

	// Act
	plain := vm.ResourcesNeededForTrip(false, 40)
	margin := vm.ResourcesNeededForTrip(true, 40)

	// Assert
	fuel := 40 / w.rover.ConservativeFuelEconomy()
	assert.InDelta(t, fuel, plain.Get(resource.Methanol), 1e-9)
	assert.Greater(t, plain.Get(resource.Oxygen), fuel)
	assert.Greater(t, plain.Get(resource.Water), 0.0)
	assert.Greater(t, margin.Get(resource.Oxygen), margin.Get(resource.Methanol)*vehicle.RatioOxidizerFuel)
}

func TestVehicleMission_SparePartsAreMemoizedByKey(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	_, vm := w.newTrip(t)

	// Act
	first := vm.SparePartsForTrip(20000)
	again := vm.SparePartsForTrip(20000)
	w.rover.MalfunctionManager().SetRepairPartProbability(resource.Ladder, 0.5)
	afterProfileChange := vm.SparePartsForTrip(20000)

	// Assert
	assert.Same(t, first, again)
	assert.NotSame(t, first, afterProfileChange)
	assert.Greater(t, afterProfileChange.Get(resource.Ladder), first.Get(resource.Ladder))
}

func TestVehicleMission_SparePartsHonourExclusionsAndWheelOverride(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	_, vm := w.newTrip(t)
	w.rover.MalfunctionManager().SetRepairPartProbability(resource.SolarPanel, 1)

	// Act
	long := vm.SparePartsForTrip(20000)
	short := vm.SparePartsForTrip(1)

	// Assert
	assert.False(t, long.Has(resource.SolarPanel))
	assert.Greater(t, long.Get(resource.Filter), 0.0)
	assert.Equal(t, 2.0, long.Get(resource.Wheel))
	assert.Equal(t, 2.0, short.Get(resource.Wheel))
	assert.Equal(t, 1, short.Len())
}

func TestVehicleMission_SparePartsScaleWithDrivingMillisols(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	_, vm := w.newTrip(t)
	tuning := mission.DefaultTuning()
	const distance = 300.0

	// Act
	parts := vm.SparePartsForTrip(distance)

	// Assert - 300 km at 30 km/h with the trip margin is about 486 millisols of driving
	malfunctions := vm.EstimatedTripTime(true, distance) * tuning.BaseAccidentChance * tuning.AverageNumMalfunction
	require.InDelta(t, 12.1, malfunctions, 0.1)
	probabilities := w.rover.MalfunctionManager().RepairPartProbabilities()
	for _, id := range []resource.ID{resource.Battery, resource.FuelCell, resource.Pipe, resource.Filter, resource.Ladder} {
		want := math.Round(probabilities[id] * malfunctions * tuning.PartsNumberModifier)
		assert.Equal(t, want, parts.Get(id), "part %s", id)
	}
	assert.Equal(t, 18.0, parts.Get(resource.Filter))
	assert.Equal(t, 2.0, parts.Get(resource.Wheel))
}

func TestPartsEstimator_RecomputesOnlyWhenKeyChanges(t *testing.T) {
	// Arrange
	var e mission.PartsEstimator
	key := mission.PartsKey{Vehicle: "Rover 1", Distance: 100}
	compute := func() *resource.Manifest {
		m := resource.NewManifest()
		m.Set(resource.Wheel, 1)
		return m
	}

	// Act
	e.Estimate(key, compute)
	e.Estimate(key, compute)
	key.Distance = 120
	e.Estimate(key, compute)

	// Assert
	assert.Equal(t, 2, e.Computations())
}

func TestVehicleMission_HasEnoughResourcesReportsFirstShortfall(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	_, vm := w.newTrip(t)
	w.rover.Inventory().StoreAmount(resource.Methanol, 50)
	needed := resource.NewManifest()
	needed.Set(resource.Methanol, 10)
	needed.Set(resource.Water, 5)
	needed.Set(resource.Food, 5)

	// Act
	short := vm.HasEnoughResources(needed)

	// Assert
	require.True(t, short.IsShort())
	assert.Equal(t, resource.Water, short.Resource)
}

func TestVehicleMission_CompletesOneWayTrip(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m, vm := w.newTrip(t)
	counter := newEventCounter(m)

	// Act
	vm.SetInitialPhase(false)
	require.Equal(t, mission.PhaseLoading, m.Phase())
	runUntil(t, w, m, m.IsDone)

	// Assert
	assert.Equal(t, mission.PhaseCompleted, m.Phase())
	assert.True(t, m.HasStatus(mission.StatusAccomplished))
	assert.Equal(t, "Beta Outpost", w.rover.Settlement())
	assert.False(t, w.rover.IsReserved())
	assert.Zero(t, w.rover.CrewCount())
	assert.Equal(t, "Beta Outpost", w.lead.CurrentSettlement())
	assert.Greater(t, w.outpost.Inventory().AmountStored(resource.Methanol), 0.0)
	assert.InDelta(t, vm.DistanceProposed(), vm.TotalDistanceTravelled(), 1e-6)
	assert.NotNil(t, m.Lifecycle().EmbarkedAt())
	assert.Positive(t, counter.counts[mission.EventTravelStatus])
	_, driven := w.lead.AverageOperatingSpeed()
	assert.True(t, driven)
}

func TestVehicleMission_ArrivalAtWaypointStartsNextLeg(t *testing.T) {
	// Arrange - home, a surface waypoint, then the outpost
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeTrade, 1, 2)
	vm := mission.NewVehicleMission(m, false)
	require.True(t, vm.ReserveVehicle())
	vm.AddNavpoint(shared.Coordinates{Latitude: 0.25}, "Waypoint")
	vm.AddSettlementNavpoint(w.outpost)
	vm.SetInitialPhase(false)
	runUntil(t, w, m, func() bool { return m.Phase() == mission.PhaseTravelling })
	require.Equal(t, 1, vm.NextNavpointIndex())

	// Act
	runUntil(t, w, m, func() bool { return vm.TravelStatus() == mission.TravelAtNavpoint })

	// Assert - the leg is over and the mission waits at the waypoint
	assert.True(t, m.PhaseEnded())
	assert.Equal(t, 1, vm.NextNavpointIndex())
	assert.Equal(t, "Waypoint", vm.LastStop().Description())
	assert.False(t, vm.LastStop().IsSettlement())

	// Act
	w.pulse(m, 1)

	// Assert - the next pulse sets off for the outpost
	assert.Equal(t, mission.PhaseTravelling, m.Phase())
	assert.Equal(t, 2, vm.NextNavpointIndex())
	assert.Equal(t, mission.TravelToNavpoint, vm.TravelStatus())
	assert.Equal(t, "Waypoint", vm.LastStop().Description())

	runUntil(t, w, m, m.IsDone)
	assert.Equal(t, "Beta Outpost", vm.LastStop().Settlement())
	assert.True(t, m.HasStatus(mission.StatusAccomplished))
}

func TestVehicleMission_ReviewThenLoad(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m, vm := w.newTrip(t)
	vm.SetInitialPhase(true)
	require.Equal(t, mission.PhaseReviewing, m.Phase())
	require.NoError(t, m.Plan().Approve("Commander"))

	// Act
	w.pulse(m, 1)
	w.pulse(m, 1)

	// Assert
	assert.Equal(t, mission.PhaseLoading, m.Phase())
	assert.NotEmpty(t, m.Designation())
	require.NotNil(t, vm.LoadingPlan())
	assert.True(t, w.home.InGarage(w.rover.Name()))
}

func TestVehicleMission_ReviewEndsWhenSettlementCannotSupply(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	w.home.Inventory().RetrieveAmount(resource.Methanol, 2000)
	m, vm := w.newTrip(t)
	vm.SetInitialPhase(true)
	require.NoError(t, m.Plan().Approve("Commander"))

	// Act
	w.pulse(m, 1)
	w.pulse(m, 1)

	// Assert
	assert.True(t, m.IsDone())
	assert.True(t, m.HasStatus(mission.StatusCannotLoadResources))
	assert.False(t, w.rover.IsReserved())
}

func TestVehicleMission_AbortWhileTravellingReturnsHomeBeforeEnding(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m, vm := w.newTrip(t)
	vm.SetInitialPhase(false)
	runUntil(t, w, m, func() bool { return m.Phase() == mission.PhaseTravelling })
	shortage := mission.ResourceShortageStatus(resource.Food)

	// Act
	m.Abort(shortage, mission.HistoricalNotEnoughResources)

	// Assert - the end waits for the crew to get home
	assert.False(t, m.IsDone())
	assert.True(t, m.IsAborted())
	last, _ := vm.Navpoint(vm.NumberOfNavpoints() - 1)
	assert.Equal(t, "Alpha Base", last.Settlement())
	assert.Len(t, w.recorder.OfType(mission.HistoricalNotEnoughResources), 1)

	runUntil(t, w, m, m.IsDone)
	assert.Equal(t, mission.PhaseAborted, m.Phase())
	assert.Equal(t, "Alpha Base", w.rover.Settlement())
	assert.Zero(t, w.rover.StoredMass())
	assert.False(t, m.HasStatus(mission.StatusAccomplished))
}

func TestVehicleMission_EmergencyReroutesToClosestSettlement(t *testing.T) {
	// Arrange - the rover stands on the surface close to the outpost
	w := newTestWorld(t)
	m, vm := w.newTrip(t)
	w.rover.Inventory().StoreAmount(resource.Methanol, 100)
	w.rover.Inventory().StoreAmount(resource.Oxygen, 400)
	w.rover.Inventory().StoreAmount(resource.Water, 50)
	w.rover.Inventory().StoreAmount(resource.Food, 20)
	w.rover.Drive(shared.Coordinates{Latitude: 0.45}, 30, 1000)

	// Act
	vm.DetermineEmergencyDestination(mission.StatusMedicalEmergency)

	// Assert
	last, _ := vm.Navpoint(vm.NumberOfNavpoints() - 1)
	assert.Equal(t, "Beta Outpost", last.Settlement())
	assert.InDelta(t, w.rover.Coordinates().DistanceTo(w.outpost.Coordinates()), last.Distance(), 1e-9)
	assert.Len(t, w.recorder.OfType(mission.HistoricalEmergencyDestination), 1)
	assert.False(t, w.rover.IsBeaconOn())
	assert.False(t, m.IsDone())
}

func TestVehicleMission_EmergencyWithoutFuelTurnsBeaconOnOnce(t *testing.T) {
	// Arrange - stranded on the surface with an empty tank
	w := newTestWorld(t)
	m, vm := w.newTrip(t)
	w.rover.Inventory().StoreAmount(resource.Methanol, 10)
	w.rover.Inventory().StoreAmount(resource.Oxygen, 100)
	w.rover.Drive(shared.Coordinates{Latitude: -1}, 30, 20)
	w.rover.Inventory().RetrieveAmount(resource.Methanol, 100)

	// Act
	vm.DetermineEmergencyDestination(mission.StatusMedicalEmergency)
	vm.DetermineEmergencyDestination(mission.StatusMedicalEmergency)

	// Assert
	assert.True(t, w.rover.IsBeaconOn())
	assert.True(t, m.HasStatus(mission.StatusMedicalEmergency))
	assert.Len(t, w.recorder.OfType(mission.HistoricalEmergencyBeaconOn), 1)
	assert.False(t, m.IsDone())
}

func TestVehicleMission_GetHelpAtSettlementEndsMission(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m, vm := w.newTrip(t)

	// Act
	vm.GetHelp(mission.StatusUnrepairableMalfunction)

	// Assert
	assert.True(t, m.IsDone())
	assert.False(t, w.rover.IsBeaconOn())
	assert.True(t, m.HasStatus(mission.StatusUnrepairableMalfunction))
}

func TestVehicleMission_OnlyOneDriverAtATime(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m, vm := w.newTrip(t)
	second := w.addPerson(t, "Second", worker.JobPilot)
	require.True(t, m.AddMember(second))
	vm.SetInitialPhase(false)
	runUntil(t, w, m, func() bool { return m.Phase() == mission.PhaseTravelling })

	// Act
	w.pulse(m, 5)

	// Assert
	assert.Equal(t, w.lead.Name(), w.rover.Operator())
	assert.Equal(t, worker.TaskOperateVehicle, w.lead.Task().Name)
	assert.NotEqual(t, worker.TaskOperateVehicle, second.Task().Name)
}

func TestVehicleMission_RemovedDriverFreesTheSeat(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m, vm := w.newTrip(t)
	second := w.addPerson(t, "Second", worker.JobPilot)
	require.True(t, m.AddMember(second))
	vm.SetInitialPhase(false)
	runUntil(t, w, m, func() bool { return w.rover.Operator() != "" })

	// Act
	m.RemoveMember(w.lead)
	w.pulse(m, 5)

	// Assert
	assert.Equal(t, second.Name(), w.rover.Operator())
}

func TestVehicleMission_ToDataIncludesRoute(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m, _ := w.newTrip(t)

	// Act
	data := m.ToData()

	// Assert
	assert.Equal(t, "Rover 1", data.Vehicle)
	assert.Len(t, data.Navpoints, 2)
	assert.Equal(t, "AT_NAVPOINT", data.TravelStatus)
	assert.Equal(t, 0, data.NextNavpoint)
	require.NotNil(t, data.Location)
}
