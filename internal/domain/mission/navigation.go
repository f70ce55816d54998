package mission

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// ArrivalToleranceKm is how close a vehicle must get to count as having reached a navpoint
const ArrivalToleranceKm = 0.1

// TravelStatus tells whether a vehicle mission is stopped at a navpoint or on its way to one
type TravelStatus string

const (
	TravelAtNavpoint TravelStatus = "AT_NAVPOINT"
	TravelToNavpoint TravelStatus = "TRAVEL_TO_NAVPOINT"
)

// NavPoint is a stop on a vehicle mission's route. Its distance from the previous stop is fixed when
// it is added to the route.
type NavPoint struct {
	location    shared.Coordinates
	settlement  string
	description string
	distance    float64
}

// NewNavPoint creates a surface stop
func NewNavPoint(location shared.Coordinates, description string, distanceFromPrevious float64) NavPoint {
	return NavPoint{location: location, description: description, distance: distanceFromPrevious}
}

// NewSettlementNavPoint creates a stop at a settlement
func NewSettlementNavPoint(s *settlement.Settlement, distanceFromPrevious float64) NavPoint {
	return NavPoint{
		location:    s.Coordinates(),
		settlement:  s.Name(),
		description: s.Name(),
		distance:    distanceFromPrevious,
	}
}

func (n NavPoint) Location() shared.Coordinates { return n.location }
func (n NavPoint) Settlement() string           { return n.settlement }
func (n NavPoint) Description() string          { return n.description }
func (n NavPoint) IsSettlement() bool           { return n.settlement != "" }

// Distance returns the km from the previous navpoint
func (n NavPoint) Distance() float64 { return n.distance }

func (n NavPoint) String() string {
	return n.description
}

func (n NavPoint) toData() NavPointData {
	return NavPointData{
		Description: n.description,
		Settlement:  n.settlement,
		Location:    n.location,
		DistanceKm:  n.distance,
	}
}

// Route

// NavPoints returns a copy of the route. Index 0 is where the mission started.
func (vm *VehicleMission) NavPoints() []NavPoint {
	out := make([]NavPoint, len(vm.navPoints))
	copy(out, vm.navPoints)
	return out
}

func (vm *VehicleMission) NumberOfNavpoints() int {
	return len(vm.navPoints)
}

// Navpoint returns the navpoint at an index
func (vm *VehicleMission) Navpoint(index int) (NavPoint, bool) {
	if index < 0 || index >= len(vm.navPoints) {
		vm.M.Logf("ERROR", "navpoint %d is out of range", index)
		return NavPoint{}, false
	}
	return vm.navPoints[index], true
}

func (vm *VehicleMission) TravelStatus() TravelStatus {
	return vm.travelStatus
}

func (vm *VehicleMission) setTravelStatus(s TravelStatus) {
	if vm.travelStatus == s {
		return
	}
	vm.travelStatus = s
	vm.M.fire(EventTravelStatus, s)
}

func (vm *VehicleMission) lastNavLocation() shared.Coordinates {
	if len(vm.navPoints) == 0 {
		return vm.CurrentLocation()
	}
	return vm.navPoints[len(vm.navPoints)-1].location
}

// AddNavpoint appends a surface stop to the route
func (vm *VehicleMission) AddNavpoint(location shared.Coordinates, description string) {
	distance := vm.lastNavLocation().DistanceTo(location)
	vm.appendNavpoint(NewNavPoint(location, description, distance))
}

// AddSettlementNavpoint appends a settlement stop to the route
func (vm *VehicleMission) AddSettlementNavpoint(s *settlement.Settlement) {
	distance := vm.lastNavLocation().DistanceTo(s.Coordinates())
	vm.appendNavpoint(NewSettlementNavPoint(s, distance))
}

// AddNavpoints appends several surface stops, naming each by its position in the list
func (vm *VehicleMission) AddNavpoints(points []shared.Coordinates, name func(i int) string) {
	prev := vm.lastNavLocation()
	for i, p := range points {
		vm.navPoints = append(vm.navPoints, NewNavPoint(p, name(i), prev.DistanceTo(p)))
		prev = p
	}
	vm.M.fire(EventNavpoints, len(vm.navPoints))
	vm.computeTotalDistanceProposed()
}

func (vm *VehicleMission) appendNavpoint(n NavPoint) {
	vm.navPoints = append(vm.navPoints, n)
	vm.M.fire(EventNavpoints, len(vm.navPoints))
	vm.computeTotalDistanceProposed()
}

// NextNavpoint returns the navpoint the mission is heading to (or stopped at)
func (vm *VehicleMission) NextNavpoint() (NavPoint, bool) {
	if vm.navIndex < len(vm.navPoints) {
		return vm.navPoints[vm.navIndex], true
	}
	return NavPoint{}, false
}

// NextNavpointIndex returns -1 when the route is exhausted
func (vm *VehicleMission) NextNavpointIndex() int {
	if vm.navIndex < len(vm.navPoints) {
		return vm.navIndex
	}
	return -1
}

// SetNextNavpointIndex moves the route cursor; out of range indices are logged and ignored
func (vm *VehicleMission) SetNextNavpointIndex(index int) {
	if index < 0 || index >= len(vm.navPoints) {
		vm.M.Logf("ERROR", "navpoint index %d is out of bounds (%d navpoints)", index, len(vm.navPoints))
		return
	}
	vm.navIndex = index
}

// CurrentNavpoint returns the navpoint the mission is stopped at
func (vm *VehicleMission) CurrentNavpoint() (NavPoint, bool) {
	if vm.travelStatus == TravelAtNavpoint && vm.navIndex < len(vm.navPoints) {
		return vm.navPoints[vm.navIndex], true
	}
	return NavPoint{}, false
}

// IsCurrentNavpointSettlement reports whether the mission is stopped at a settlement
func (vm *VehicleMission) IsCurrentNavpointSettlement() bool {
	n, ok := vm.CurrentNavpoint()
	return ok && n.IsSettlement()
}

// LastStop returns the last navpoint the vehicle stood at
func (vm *VehicleMission) LastStop() NavPoint {
	return vm.lastStop
}

// StartTravelToNextNode advances the cursor and sets off
func (vm *VehicleMission) StartTravelToNextNode() {
	vm.SetNextNavpointIndex(vm.navIndex + 1)
	vm.setTravelStatus(TravelToNavpoint)
	vm.legStart = vm.M.env.Clock.Now()
}

// ReachedNextNode marks arrival at the navpoint the cursor points to
func (vm *VehicleMission) ReachedNextNode() {
	vm.setTravelStatus(TravelAtNavpoint)
	if n, ok := vm.CurrentNavpoint(); ok {
		vm.lastStop = n
	}
}

// clearRemainingNavpoints drops every stop the mission has not reached yet. When travelling the
// current target goes too; when stopped the current stop stays.
func (vm *VehicleMission) clearRemainingNavpoints() {
	keep := vm.navIndex + 1
	if vm.travelStatus == TravelToNavpoint {
		keep = vm.navIndex
	}
	if keep < len(vm.navPoints) {
		vm.navPoints = vm.navPoints[:keep]
		vm.M.fire(EventNavpoints, len(vm.navPoints))
	}
}

// ResetToReturnTrip replaces the route with a single leg from one stop to another
func (vm *VehicleMission) ResetToReturnTrip(from, to NavPoint) {
	to.distance = from.location.DistanceTo(to.location)
	from.distance = 0
	vm.navPoints = []NavPoint{from, to}
	vm.navIndex = 0
	vm.lastStop = from
	vm.setTravelStatus(TravelAtNavpoint)
	vm.M.fire(EventNavpoints, len(vm.navPoints))
	vm.distanceProposed = 0
	vm.computeTotalDistanceProposed()
	vm.M.Logf("INFO", "return trip set to %s", to)
}

// Distances

// DistanceProposed is the planned length of the whole route
func (vm *VehicleMission) DistanceProposed() float64          { return vm.distanceProposed }
func (vm *VehicleMission) DistanceCurrentLegRemaining() float64 { return vm.distanceCurrentLeg }
func (vm *VehicleMission) TotalDistanceRemaining() float64    { return vm.distanceTotalRemaining }
func (vm *VehicleMission) TotalDistanceTravelled() float64    { return vm.distanceTravelled }

func (vm *VehicleMission) computeTotalDistanceProposed() {
	if len(vm.navPoints) < 2 {
		return
	}
	total := 0.0
	for _, n := range vm.navPoints[1:] {
		total += n.distance
	}
	if total != vm.distanceProposed {
		vm.distanceProposed = total
		vm.M.fire(EventDistance, total)
	}
}

// ComputeDistanceCurrentLegRemaining is the km left to the navpoint being travelled to, 0 when stopped
func (vm *VehicleMission) ComputeDistanceCurrentLegRemaining() float64 {
	if vm.travelStatus != TravelToNavpoint {
		return 0
	}
	next, ok := vm.NextNavpoint()
	if !ok {
		vm.SetNextNavpointIndex(len(vm.navPoints) - 1)
		next, ok = vm.NextNavpoint()
		if !ok {
			return 0
		}
	}
	dist := vm.CurrentLocation().DistanceTo(next.location)
	if dist != vm.distanceCurrentLeg {
		vm.distanceCurrentLeg = dist
		vm.M.fire(EventDistance, dist)
	}
	return dist
}

// ComputeTotalDistanceRemaining is the km of the current leg plus every leg after it
func (vm *VehicleMission) ComputeTotalDistanceRemaining() float64 {
	total := vm.ComputeDistanceCurrentLegRemaining()
	for i := vm.navIndex + 1; i < len(vm.navPoints); i++ {
		total += vm.navPoints[i].distance
	}
	if total != vm.distanceTotalRemaining {
		vm.distanceTotalRemaining = total
		vm.M.fire(EventDistance, total)
	}
	return total
}

func (vm *VehicleMission) computeTotalDistanceTravelled() float64 {
	if vm.vehicle == nil {
		return vm.distanceTravelled
	}
	dist := vm.vehicle.Odometer() - vm.startingOdometer
	if dist != vm.distanceTravelled {
		vm.distanceTravelled = dist
		vm.M.fire(EventDistance, dist)
	}
	return dist
}

// CurrentLocation is where the mission is: the vehicle if it has one, else its starting settlement
func (vm *VehicleMission) CurrentLocation() shared.Coordinates {
	if vm.vehicle != nil {
		return vm.vehicle.Coordinates()
	}
	if s := vm.M.env.Settlements.Find(vm.M.settlement); s != nil {
		return s.Coordinates()
	}
	return shared.Coordinates{}
}
