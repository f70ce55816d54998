package mission

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// Optional capabilities a vehicle mission kind may add on top of its Behavior
type (
	timeEstimator interface {
		EstimatedRemainingMissionTime(useMargin bool) float64
	}
	equipmentPlanner interface {
		EquipmentNeededForRemainingMission(useMargin bool) *resource.Manifest
	}
	cargoPlanner interface {
		OptionalCargoToLoad() *resource.Manifest
	}
	vehicleComparer interface {
		CompareVehicles(a, b *vehicle.Vehicle) int
	}
)

// VehicleMission is the travel and resource engine of missions that use a vehicle.
// Mission kinds embed it and override the phases they add.
type VehicleMission struct {
	BaseBehavior

	vehicle          *vehicle.Vehicle
	released         bool
	useDrone         bool
	startingOdometer float64

	navPoints    []NavPoint
	navIndex     int
	travelStatus TravelStatus
	lastStop     NavPoint
	legStart     shared.MarsTime

	distanceProposed       float64
	distanceCurrentLeg     float64
	distanceTotalRemaining float64
	distanceTravelled      float64
	msolCache              int

	driver            string
	loadingPlan       *LoadingPlan
	parts             PartsEstimator
	lastResourceCheck shared.MarsTime
	lastDrive         shared.MarsTime
}

// NewVehicleMission turns a mission into a vehicle mission starting at its settlement.
// The caller reserves a vehicle, plans the route and calls SetInitialPhase.
func NewVehicleMission(m *Mission, useDrone bool) *VehicleMission {
	vm := &VehicleMission{BaseBehavior: BaseBehavior{M: m}, useDrone: useDrone, msolCache: -1}
	m.travels = true
	m.AddPhase(PhaseLoading)
	m.AddPhase(PhaseDeparting)
	m.AddPhase(PhaseTravelling)
	m.AddPhase(PhaseDisembarking)

	start := NewNavPoint(vm.CurrentLocation(), "starting location", 0)
	if s := m.env.Settlements.Find(m.settlement); s != nil {
		start = NewSettlementNavPoint(s, 0)
	}
	vm.navPoints = []NavPoint{start}
	vm.lastStop = start
	vm.travelStatus = TravelAtNavpoint

	m.AddListener(ListenerFunc(vm.onMissionUpdate))
	m.Attach(vm)
	return vm
}

// Vehicle returns the mission vehicle (nil before reservation)
func (vm *VehicleMission) Vehicle() *vehicle.Vehicle {
	return vm.vehicle
}

// HasVehicle reports whether the mission still holds its vehicle
func (vm *VehicleMission) HasVehicle() bool {
	return vm.vehicle != nil && !vm.released
}

func (vm *VehicleMission) LoadingPlan() *LoadingPlan {
	return vm.loadingPlan
}

// VehicleEngine exposes the travel engine of a kind that embeds it
func (vm *VehicleMission) VehicleEngine() *VehicleMission {
	return vm
}

// Vehicle reservation

// ReserveVehicle claims the best usable vehicle parked at the starting settlement. Ties are broken at
// random. Without one the mission ends with NO_AVAILABLE_VEHICLES.
func (vm *VehicleMission) ReserveVehicle() bool {
	var best []*vehicle.Vehicle
	for _, v := range vm.availableVehicles() {
		if len(best) == 0 {
			best = append(best, v)
			continue
		}
		switch c := vm.compareVehicles(v, best[0]); {
		case c == 0:
			best = append(best, v)
		case c > 0:
			best = []*vehicle.Vehicle{v}
		}
	}

	if len(best) == 0 {
		vm.M.Logf("WARNING", "could not reserve a vehicle")
		vm.M.EndMission(StatusNoAvailableVehicles)
		return false
	}
	vm.SetVehicle(best[shared.RandomInt(vm.M.env.Random, len(best)-1)])
	return true
}

func (vm *VehicleMission) availableVehicles() []*vehicle.Vehicle {
	s := vm.M.env.Settlements.Find(vm.M.settlement)
	if s == nil || vm.M.env.Vehicles == nil {
		return nil
	}
	var out []*vehicle.Vehicle
	for _, name := range s.ParkedVehicles() {
		v := vm.M.env.Vehicles.Vehicle(name)
		if v == nil || !vm.suits(v) {
			continue
		}
		if v.IsUsable() && v.StoredMass() <= 0 {
			out = append(out, v)
		}
	}
	return out
}

// suits tells whether a vehicle class fits the mission: drones for drone missions, rovers otherwise
func (vm *VehicleMission) suits(v *vehicle.Vehicle) bool {
	if vm.useDrone {
		return v.Type().IsDrone()
	}
	return v.IsRover()
}

func (vm *VehicleMission) compareVehicles(a, b *vehicle.Vehicle) int {
	if c, ok := vm.M.behavior.(vehicleComparer); ok {
		return c.CompareVehicles(a, b)
	}
	return 0
}

// SetVehicle assigns the mission vehicle. A nil vehicle is a programming error and panics.
func (vm *VehicleMission) SetVehicle(v *vehicle.Vehicle) {
	if v == nil {
		panic(shared.NewNilVehicleError(vm.M.name))
	}
	vm.vehicle = v
	vm.released = false
	vm.startingOdometer = v.Odometer()
	v.SetReservedForMission(true)
	vm.M.fire(EventVehicle, v.Name())
}

// leaveVehicle releases the vehicle and returns any cargo to the settlement it is parked at
func (vm *VehicleMission) leaveVehicle() {
	if !vm.HasVehicle() {
		return
	}
	v := vm.vehicle
	if s := vm.M.env.Settlements.Find(v.Settlement()); s != nil {
		unloadAll(v.Inventory(), s.Inventory())
		s.RemoveFromGarage(v.Name())
	}
	v.SetOperator("")
	v.SetReservedForMission(false)
	vm.released = true
	vm.M.fire(EventVehicle, nil)
}

// Setup

// SetInitialPhase enters REVIEWING, or LOADING when no review is needed
func (vm *VehicleMission) SetInitialPhase(needsReview bool) {
	if vm.M.done {
		return
	}
	vm.computeTotalDistanceProposed()
	if needsReview {
		vm.M.StartReview()
	} else {
		vm.M.CreateDesignation()
		vm.startLoadingPhase()
	}
	if vm.vehicle != nil {
		vm.M.Logf("INFO", "preparing %s using %s", vm.M.name, vm.vehicle.Name())
	}
}

// CallMembersToMission puts every person on call
func (vm *VehicleMission) CallMembersToMission() {
	for _, p := range vm.M.People() {
		p.SetOnCall(true)
	}
}

// Phase transitions

// DetermineNewPhase drives the standard vehicle phases
func (vm *VehicleMission) DetermineNewPhase() bool {
	switch vm.M.phase {
	case PhaseReviewing:
		if vm.IsVehicleLoadable() {
			vm.startLoadingPhase()
		} else {
			vm.M.EndMission(StatusCannotLoadResources)
		}
	case PhaseLoading:
		vm.M.SetPhase(PhaseDeparting, vm.M.settlement)
	case PhaseDeparting:
		vm.StartTravellingPhase()
	case PhaseTravelling:
		switch {
		case vm.IsCurrentNavpointSettlement():
			vm.StartDisembarkingPhase()
		case vm.navIndex < len(vm.navPoints)-1:
			vm.StartTravellingPhase()
		default:
			return false
		}
	case PhaseDisembarking:
		vm.ComputeTotalDistanceRemaining()
		vm.computeTotalDistanceTravelled()
		vm.M.EndMission(Status{})
	default:
		return false
	}
	return true
}

func (vm *VehicleMission) startLoadingPhase() {
	vm.M.SetPhase(PhaseLoading, vm.M.settlement)
	s := vm.M.env.Settlements.Find(vm.M.settlement)
	if s == nil || vm.vehicle == nil {
		return
	}
	vm.PrepareLoadingPlan(s)
	s.AddToGarage(vm.vehicle.Name())
}

// StartTravellingPhase sets off toward the next navpoint
func (vm *VehicleMission) StartTravellingPhase() {
	vm.StartTravelToNextNode()
	now := vm.M.env.Clock.Now()
	vm.lastDrive = now
	vm.lastResourceCheck = now
	subject := "Null Next Location"
	if n, ok := vm.NextNavpoint(); ok {
		subject = n.Description()
	}
	vm.M.SetPhase(PhaseTravelling, subject)
}

// StartDisembarkingPhase parks at the current settlement and starts unloading
func (vm *VehicleMission) StartDisembarkingPhase() {
	n, ok := vm.CurrentNavpoint()
	subject := vm.M.settlement
	if ok && n.IsSettlement() {
		subject = n.Settlement()
	}
	vm.M.SetPhase(PhaseDisembarking, subject)
	if vm.vehicle == nil {
		return
	}
	if s := vm.M.env.Settlements.Find(subject); s != nil {
		vm.ParkAt(s)
		s.AddToGarage(vm.vehicle.Name())
	}
}

// Phase bodies

// PerformPhase runs the standard vehicle phases
func (vm *VehicleMission) PerformPhase(member worker.Worker) {
	switch vm.M.phase {
	case PhaseLoading:
		vm.performLoadingPhase(member)
	case PhaseDeparting:
		if vm.checkVehicleMaintenance() {
			vm.PerformDepartingFromSettlement(member)
		}
	case PhaseTravelling:
		vm.PerformTravelPhase(member)
	case PhaseDisembarking:
		if n, ok := vm.CurrentNavpoint(); ok && n.IsSettlement() {
			if s := vm.M.env.Settlements.Find(n.Settlement()); s != nil {
				vm.PerformDisembarkToSettlement(member, s)
			}
		}
	}
}

func (vm *VehicleMission) performLoadingPhase(member worker.Worker) {
	v := vm.vehicle
	if v == nil || !v.IsParked() {
		vm.M.Logf("WARNING", "vehicle is not parked at a settlement")
		vm.M.EndMission(StatusNoAvailableVehicles)
		return
	}
	if v.IsBeaconOn() {
		vm.M.EndMission(StatusVehicleBeaconActive)
		return
	}
	if vm.IsVehicleLoaded() {
		vm.M.SetPhaseEnded(true)
		return
	}
	if vm.M.done {
		return
	}
	if member.CurrentSettlement() == v.Settlement() && vm.canLoad(member) &&
		shared.RandomPercentLessThan(vm.M.env.Random, vm.M.env.Tuning.LoadTaskChance) {
		member.AssignTask(worker.Task{Name: worker.TaskLoadVehicle, Mission: vm.M.id, Target: v.Name()})
		vm.loadOnce()
	}
}

// canLoad keeps low power robots and robots outside a garage from loading
func (vm *VehicleMission) canLoad(member worker.Worker) bool {
	r, ok := member.(*worker.Robot)
	if !ok {
		return true
	}
	if r.IsLowPower() {
		return false
	}
	s := vm.M.env.Settlements.Find(vm.vehicle.Settlement())
	return s != nil && s.InGarage(vm.vehicle.Name())
}

func (vm *VehicleMission) checkVehicleMaintenance() bool {
	if vm.vehicle != nil && vm.vehicle.UnderMaintenance() {
		vm.M.Logf("WARNING", "%s is under maintenance", vm.vehicle.Name())
		vm.M.EndMission(StatusVehicleUnderMaintenance)
		return false
	}
	return true
}

// PerformDepartingFromSettlement boards the member. The vehicle leaves once everyone who fits is aboard.
func (vm *VehicleMission) PerformDepartingFromSettlement(member worker.Worker) {
	v := vm.vehicle
	if v == nil {
		vm.M.EndMission(StatusNoAvailableVehicles)
		return
	}
	if v.IsRover() {
		if err := v.BoardCrew(member.Name()); err != nil {
			vm.M.Logf("WARNING", "%s cannot board: %v", member.Name(), err)
		}
		member.AssignTask(worker.Task{})
		if v.CrewCount() < min(vm.M.MemberCount(), v.CrewCapacity()) {
			return
		}
		for _, w := range vm.M.members {
			if v.IsCrewMember(w.Name()) {
				w.SetCurrentSettlement("")
			}
		}
	}
	vm.depart()
	vm.M.SetPhaseEnded(true)
}

func (vm *VehicleMission) depart() {
	v := vm.vehicle
	if s := vm.M.env.Settlements.Find(v.Settlement()); s != nil {
		s.RemoveFromGarage(v.Name())
		s.RemoveVehicle(v.Name())
	}
	v.RecordStartMass()
	v.Depart()
}

// ParkAt parks the vehicle at a settlement unless it is already there
func (vm *VehicleMission) ParkAt(s *settlement.Settlement) {
	v := vm.vehicle
	if v.Settlement() == s.Name() {
		return
	}
	v.Park(s.Name(), s.Coordinates())
	s.ParkVehicle(v.Name())
}

// PerformDisembarkToSettlement unloads the vehicle and lets the member out. The phase ends once the
// crew is out and the cargo is in the settlement.
func (vm *VehicleMission) PerformDisembarkToSettlement(member worker.Worker, s *settlement.Settlement) {
	v := vm.vehicle
	if v == nil {
		vm.M.SetPhaseEnded(true)
		return
	}
	vm.ParkAt(s)
	if vm.IsVehicleUnloadableHere(s) && !v.Inventory().IsEmpty() {
		member.AssignTask(worker.Task{Name: worker.TaskUnloadVehicle, Mission: vm.M.id, Target: v.Name()})
		unloadAll(v.Inventory(), s.Inventory())
	}
	vm.DisembarkMember(member, s)

	if v.CrewCount() == 0 && (v.Inventory().IsEmpty() || !vm.IsVehicleUnloadableHere(s)) {
		vm.M.SetPhaseEnded(true)
	}
}

// DisembarkMember lets a member out of the vehicle into a settlement
func (vm *VehicleMission) DisembarkMember(member worker.Worker, s *settlement.Settlement) {
	if vm.vehicle != nil {
		vm.vehicle.Disembark(member.Name())
	}
	if s != nil {
		member.SetCurrentSettlement(s.Name())
	}
	member.AssignTask(worker.Task{})
}

// IsVehicleUnloadableHere reports whether the vehicle may be unloaded at a settlement: only at the
// end of the mission and only at its home
func (vm *VehicleMission) IsVehicleUnloadableHere(s *settlement.Settlement) bool {
	return vm.vehicle != nil && vm.M.phase == PhaseDisembarking && s.Name() == vm.M.settlement
}

// Ending

// BeforeEnd defers the end while crew and cargo are still aboard, moving the mission to
// DISEMBARKING when it is stopped at a settlement. Otherwise the vehicle is released.
func (vm *VehicleMission) BeforeEnd(status Status) bool {
	vm.loadingPlan = nil
	vm.parts.Reset()

	if vm.HasVehicle() && !vm.isVehicleDone() {
		if vm.IsCurrentNavpointSettlement() && vm.M.phase != PhaseDisembarking {
			vm.StartDisembarkingPhase()
		}
		return false
	}
	vm.M.SetPhaseEnded(true)
	vm.leaveVehicle()
	return true
}

func (vm *VehicleMission) isVehicleDone() bool {
	v := vm.vehicle
	if v.Type().IsDrone() {
		return v.StoredMass() == 0
	}
	return v.CrewCount() == 0 || v.StoredMass() == 0
}

// PrepareAbort releases the vehicle while the mission is still at home, otherwise heads for safety
func (vm *VehicleMission) PrepareAbort(status Status, event HistoricalEventType) {
	if vm.isPreparing() {
		vm.leaveVehicle()
		return
	}
	vm.DetermineEmergencyDestination(status)
}

func (vm *VehicleMission) isPreparing() bool {
	switch vm.M.phase {
	case PhaseReviewing, PhaseLoading, PhaseDeparting:
		return vm.vehicle == nil || vm.vehicle.IsParked()
	}
	return vm.M.phase.IsZero()
}

// Participation

// CanParticipate keeps members outside the vehicle from acting while it is away
func (vm *VehicleMission) CanParticipate(member worker.Worker) bool {
	if !vm.BaseBehavior.CanParticipate(member) {
		return false
	}
	if vm.vehicle == nil || vm.vehicle.IsParked() || !vm.vehicle.IsRover() {
		return true
	}
	return vm.vehicle.IsCrewMember(member.Name())
}

// IsCapableOfMission requires the member to be at the starting settlement with the vehicle, or aboard
func (vm *VehicleMission) IsCapableOfMission(member worker.Worker) bool {
	if vm.vehicle != nil && vm.vehicle.IsCrewMember(member.Name()) {
		return true
	}
	return vm.BaseBehavior.IsCapableOfMission(member)
}

// onMissionUpdate frees the driver seat of a departing member and lets them out when parked
func (vm *VehicleMission) onMissionUpdate(e Event) {
	if e.Type != EventRemoveMember || vm.vehicle == nil {
		return
	}
	w, ok := e.Target.(worker.Worker)
	if !ok {
		return
	}
	if vm.driver == w.Name() {
		vm.releaseDriver()
	}
	if vm.vehicle.IsCrewMember(w.Name()) && vm.vehicle.IsParked() {
		vm.DisembarkMember(w, vm.M.env.Settlements.Find(vm.vehicle.Settlement()))
	}
}

// ContributeData adds the vehicle and route to the read model
func (vm *VehicleMission) ContributeData(data *MissionData) {
	if vm.vehicle != nil {
		data.Vehicle = vm.vehicle.Name()
		loc := vm.vehicle.Coordinates()
		data.Location = &loc
	}
	data.TravelStatus = string(vm.travelStatus)
	for _, n := range vm.navPoints {
		data.Navpoints = append(data.Navpoints, n.toData())
	}
	data.NextNavpoint = vm.NextNavpointIndex()
	data.TotalDistance = vm.distanceProposed
	data.RemainingDistance = vm.distanceTotalRemaining
	data.DistanceTravelled = vm.distanceTravelled
}

func unloadAll(from, to *resource.Inventory) {
	from.Snapshot().Each(func(id resource.ID, quantity float64) bool {
		from.TransferTo(to, id, quantity)
		return true
	})
}
