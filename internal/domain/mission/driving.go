package mission

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

const robotDrivingModifier = 0.8

// PerformTravelPhase moves the mission along its route for one member. One member at a time holds
// the wheel; the others watch resources and faults. Arrival ends the phase.
func (vm *VehicleMission) PerformTravelPhase(member worker.Worker) {
	v := vm.vehicle
	if v == nil {
		vm.M.EndMission(StatusNoAvailableVehicles)
		return
	}
	vm.refreshDistances()

	if v.IsRover() {
		vm.checkRemainingResources()
		if vm.M.done {
			return
		}
		if vm.M.HasEmergency() && !vm.M.HasStatus(StatusMedicalEmergency) {
			vm.M.Abort(StatusMedicalEmergency, HistoricalMedicalEmergency)
			if vm.M.done {
				return
			}
		}
	}

	dest, ok := vm.NextNavpoint()
	if !ok {
		vm.SetNextNavpointIndex(len(vm.navPoints) - 1)
		if dest, ok = vm.NextNavpoint(); !ok {
			return
		}
	}

	here := v.Coordinates()
	reached := here.Equals(dest.Location()) || here.DistanceTo(dest.Location()) < ArrivalToleranceKm
	if !reached && v.MalfunctionManager().HasMalfunction() {
		vm.attemptRepair(member)
	}

	if !reached && !v.MalfunctionManager().HasMalfunction() && vm.canDrive(member) {
		vm.operate(member, dest)
		return
	}

	if reached && vm.travelStatus == TravelToNavpoint {
		vm.arrive(dest)
	}

	if v.IsRover() && vm.checkRemainingResources() && v.MalfunctionManager().HasUnrepairableMalfunction() {
		vm.GetHelp(StatusUnrepairableMalfunction)
	}
}

func (vm *VehicleMission) refreshDistances() {
	msol := vm.M.env.Clock.Now().MillisolInt()
	if msol == vm.msolCache {
		return
	}
	vm.msolCache = msol
	vm.ComputeTotalDistanceRemaining()
	vm.computeTotalDistanceTravelled()
}

// canDrive tells whether a member may take or keep the wheel
func (vm *VehicleMission) canDrive(member worker.Worker) bool {
	if r, ok := member.(*worker.Robot); ok && r.IsLowPower() {
		return false
	}
	v := vm.vehicle
	if v.IsRover() && !v.IsCrewMember(member.Name()) {
		return false
	}
	if vm.driver == "" {
		return true
	}
	op := v.Operator()
	return op == "" || op == member.Name()
}

// operate hands the wheel to the member if needed and drives for the time since the last drive
func (vm *VehicleMission) operate(member worker.Worker, dest NavPoint) {
	v := vm.vehicle
	if vm.driver != member.Name() {
		vm.releaseDriver()
		vm.driver = member.Name()
		v.SetOperator(member.Name())
		member.AssignTask(worker.Task{Name: worker.TaskOperateVehicle, Mission: vm.M.id, Target: dest.Description()})
		vm.M.Logf("INFO", "%s takes the wheel of %s", member.Name(), v.Name())
	}

	now := vm.M.env.Clock.Now()
	elapsed := now.Sub(vm.lastDrive)
	vm.lastDrive = now
	if elapsed <= 0 {
		return
	}

	speed := vm.drivingSpeed(member)
	km := v.Drive(dest.Location(), speed, elapsed)
	if km > 0 {
		if p, ok := member.(*worker.Person); ok {
			p.RecordDriving(speed)
		}
		vm.computeTotalDistanceTravelled()
		return
	}

	if v.Range() <= 0 {
		vm.M.Logf("WARNING", "%s is out of fuel", v.Name())
		if v.IsRover() {
			vm.lastResourceCheck = vm.lastResourceCheck.Add(-vm.M.env.Tuning.ResourceCheckMillisols - 1)
			vm.checkRemainingResources()
		} else {
			vm.GetHelp(ResourceShortageStatus(v.FuelType()))
		}
	}
}

// drivingSpeed scales the vehicle's base speed by the driver's fitness
func (vm *VehicleMission) drivingSpeed(member worker.Worker) float64 {
	base := vm.vehicle.BaseSpeed()
	switch w := member.(type) {
	case *worker.Person:
		return base * (0.5 + w.Fitness()/10)
	case *worker.Robot:
		return base * robotDrivingModifier
	default:
		return base
	}
}

func (vm *VehicleMission) releaseDriver() {
	if vm.driver == "" {
		return
	}
	if w := vm.M.env.Roster.Find(vm.driver); w != nil && w.Task().Name == worker.TaskOperateVehicle {
		w.AssignTask(worker.Task{})
	}
	if vm.vehicle != nil && vm.vehicle.Operator() == vm.driver {
		vm.vehicle.SetOperator("")
	}
	vm.driver = ""
}

// arrive stops at the navpoint reached, parking when it is a settlement
func (vm *VehicleMission) arrive(dest NavPoint) {
	vm.releaseDriver()
	if dest.IsSettlement() {
		if s := vm.M.env.Settlements.Find(dest.Settlement()); s != nil {
			vm.ParkAt(s)
		}
	}
	vm.ReachedNextNode()
	vm.computeTotalDistanceTravelled()
	vm.M.SetPhaseEnded(true)
}

// attemptRepair lets a person fix one repairable malfunction with the parts aboard
func (vm *VehicleMission) attemptRepair(member worker.Worker) {
	if _, ok := member.(*worker.Person); !ok {
		return
	}
	inv := vm.vehicle.Inventory()
	mm := vm.vehicle.MalfunctionManager()
	for _, mf := range mm.Malfunctions() {
		if !mf.Repairable {
			continue
		}
		parts := resource.NewManifest()
		for id, n := range mf.RepairParts {
			parts.Set(id, float64(n))
		}
		if resource.CheckSufficiency(parts, inv).IsShort() {
			continue
		}
		parts.Each(func(id resource.ID, n float64) bool {
			inv.Retrieve(id, n)
			return true
		})
		if mm.Repair(mf.Name) {
			vm.M.Logf("INFO", "%s repaired %s on %s", member.Name(), mf.Name, vm.vehicle.Name())
		}
		return
	}
}
