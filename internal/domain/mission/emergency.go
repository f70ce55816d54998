package mission

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
)

// phaseAborter lets a kind wrap up its own site phase when the mission reroutes
type phaseAborter interface {
	AbortPhase()
}

// HasEnoughResources returns the first resource the vehicle does not carry enough of
func (vm *VehicleMission) HasEnoughResources(needed *resource.Manifest) resource.Shortfall {
	if vm.vehicle == nil {
		return resource.None()
	}
	return resource.CheckSufficiency(needed, vm.vehicle.Inventory())
}

// checkRemainingResources compares what the vehicle carries with what the rest of the route needs,
// at most once per check interval. A shortage aborts the mission, which reroutes it.
// Always returns true so callers can chain further checks.
func (vm *VehicleMission) checkRemainingResources() bool {
	now := vm.M.env.Clock.Now()
	if now.Sub(vm.lastResourceCheck) <= vm.M.env.Tuning.ResourceCheckMillisols {
		return true
	}
	vm.lastResourceCheck = now
	needed := vm.M.behavior.ResourcesNeededForRemainingMission(false)
	if short := vm.HasEnoughResources(needed); short.IsShort() {
		vm.M.Logf("WARNING", "not enough %s for the rest of the trip", short)
		vm.M.Abort(ResourceShortageStatus(short.Resource), HistoricalNotEnoughResources)
	}
	return true
}

// DetermineEmergencyDestination reroutes to the closest settlement when the vehicle can reach it,
// otherwise asks for help
func (vm *VehicleMission) DetermineEmergencyDestination(reason Status) {
	if vm.vehicle == nil {
		return
	}
	requestHelp := false
	dest, distance := vm.M.env.Settlements.FindClosest(vm.CurrentLocation())
	switch {
	case dest == nil:
		requestHelp = true
	case vm.useDrone:
		// drones keep their route; they cannot be towed
	default:
		if short := vm.HasEnoughResources(vm.ResourcesNeededForTrip(false, distance)); short.IsShort() {
			requestHelp = true
		} else {
			vm.travelDirectToSettlement(dest)
			vm.M.Logf("INFO", "returning to %s", dest.Name())
			if dest.Name() != vm.M.settlement {
				vm.M.Record(HistoricalEmergencyDestination, reason.String(), vm.M.starterName())
			}
		}
	}

	if requestHelp {
		vm.abortPhase()
		vm.GetHelp(reason)
	}
}

// GetHelp flags the reason and turns the beacon on when out on the surface. At a settlement the
// mission simply ends.
func (vm *VehicleMission) GetHelp(reason Status) {
	vm.M.Logf("INFO", "needs help: %s", reason)
	vm.M.AddStatus(reason)

	if vm.vehicle != nil && !vm.vehicle.IsParked() {
		if vm.vehicle.SetEmergencyBeacon(true) {
			vm.M.Logf("INFO", "emergency beacon on, statuses %v", vm.M.statuses.Names())
			vm.M.Record(HistoricalEmergencyBeaconOn, reason.String(), vm.M.starterName())
		}
		return
	}
	vm.M.SetPhaseEnded(true)
	vm.M.EndMission(reason)
}

// travelDirectToSettlement replaces the rest of the route with the settlement
func (vm *VehicleMission) travelDirectToSettlement(s *settlement.Settlement) {
	vm.clearRemainingNavpoints()
	distance := vm.CurrentLocation().DistanceTo(s.Coordinates())
	vm.appendNavpoint(NewSettlementNavPoint(s, distance))

	if vm.M.phase == PhaseTravelling {
		if vm.travelStatus == TravelAtNavpoint {
			vm.StartTravelToNextNode()
		}
	} else {
		vm.abortPhase()
	}
	vm.updateTravelDestination()
}

// GoToNearestSettlement heads for the closest settlement
func (vm *VehicleMission) GoToNearestSettlement() {
	s, _ := vm.M.env.Settlements.FindClosest(vm.CurrentLocation())
	if s == nil {
		return
	}
	vm.clearRemainingNavpoints()
	vm.AddSettlementNavpoint(s)
	vm.updateTravelDestination()
	vm.abortPhase()
}

func (vm *VehicleMission) updateTravelDestination() {
	n, ok := vm.NextNavpoint()
	if !ok {
		return
	}
	if vm.driver != "" {
		if w := vm.M.env.Roster.Find(vm.driver); w != nil && w.Task().Name != "" {
			task := w.Task()
			task.Target = n.Description()
			w.AssignTask(task)
		}
	}
	if vm.M.phase == PhaseTravelling {
		vm.M.SetPhaseDescription(PhaseTravelling.Describe(n.Description()))
	}
}

// abortPhase stops a stationary phase so the next pulse moves on
func (vm *VehicleMission) abortPhase() {
	if a, ok := vm.M.behavior.(phaseAborter); ok {
		a.AbortPhase()
	}
	switch vm.M.phase {
	case PhaseTravelling, PhaseDisembarking, PhaseReviewing:
	default:
		vm.M.SetPhaseEnded(true)
	}
}
