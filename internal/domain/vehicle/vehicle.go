package vehicle

import (
	"fmt"
	"math"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// RatioOxidizerFuel is the kg of oxygen burnt per kg of fuel
const RatioOxidizerFuel = 1.5

// UnitEvent is a location or state change on a vehicle
type UnitEvent string

const (
	UnitEventDeparted    UnitEvent = "VEHICLE_DEPARTED"
	UnitEventParked      UnitEvent = "VEHICLE_PARKED"
	UnitEventBeaconOn    UnitEvent = "EMERGENCY_BEACON_ON"
	UnitEventBeaconOff   UnitEvent = "EMERGENCY_BEACON_OFF"
	UnitEventReserved    UnitEvent = "RESERVED_FOR_MISSION"
	UnitEventUnreserved  UnitEvent = "RELEASED_FROM_MISSION"
	UnitEventMaintenance UnitEvent = "MAINTENANCE"
)

// UnitListener is notified synchronously of vehicle events
type UnitListener func(v *Vehicle, event UnitEvent)

// Vehicle entity - a rover, LUV or drone used by missions
//
// Invariants:
// - name is unique and non-empty
// - parkedAt is empty while the vehicle is on the surface
// - at most one operator drives the vehicle at a time
// - crew never exceeds crew capacity
type Vehicle struct {
	name                    string
	vtype                   Type
	home                    string
	parkedAt                string
	coordinates             shared.Coordinates
	odometer                float64
	baseSpeed               float64
	fuelType                resource.ID
	fuelEconomy             float64
	conservativeFuelEconomy float64
	crewCapacity            int
	reserved                bool
	beacon                  bool
	maintenance             bool
	operator                string
	crew                    []string
	inventory               *resource.Inventory
	malfunctions            *MalfunctionManager
	startMass               float64
	listeners               []UnitListener
}

// NewVehicle creates a vehicle of the given class parked at its home settlement
func NewVehicle(name string, vtype Type, home string, coords shared.Coordinates) (*Vehicle, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if !vtype.IsValid() {
		return nil, shared.NewValidationError("type", fmt.Sprintf("unknown vehicle type %q", vtype))
	}

	spec := DefaultSpec(vtype)
	return &Vehicle{
		name:                    name,
		vtype:                   vtype,
		home:                    home,
		parkedAt:                home,
		coordinates:             coords,
		baseSpeed:               spec.BaseSpeed,
		fuelType:                spec.FuelType,
		fuelEconomy:             spec.FuelEconomy,
		conservativeFuelEconomy: spec.ConservativeFuelEconomy,
		crewCapacity:            spec.CrewCapacity,
		inventory:               resource.NewInventory(spec.CargoCapacity),
		malfunctions:            NewMalfunctionManager(DefaultRepairPartProbabilities(vtype)),
	}, nil
}

// Getters

func (v *Vehicle) Name() string                            { return v.name }
func (v *Vehicle) Type() Type                              { return v.vtype }
func (v *Vehicle) HomeSettlement() string                  { return v.home }
func (v *Vehicle) Settlement() string                      { return v.parkedAt }
func (v *Vehicle) Coordinates() shared.Coordinates         { return v.coordinates }
func (v *Vehicle) Odometer() float64                       { return v.odometer }
func (v *Vehicle) BaseSpeed() float64                      { return v.baseSpeed }
func (v *Vehicle) FuelType() resource.ID                   { return v.fuelType }
func (v *Vehicle) FuelEconomy() float64                    { return v.fuelEconomy }
func (v *Vehicle) ConservativeFuelEconomy() float64        { return v.conservativeFuelEconomy }
func (v *Vehicle) CrewCapacity() int                       { return v.crewCapacity }
func (v *Vehicle) CargoCapacity() float64                  { return v.inventory.Capacity() }
func (v *Vehicle) Inventory() *resource.Inventory          { return v.inventory }
func (v *Vehicle) MalfunctionManager() *MalfunctionManager { return v.malfunctions }
func (v *Vehicle) StartMass() float64                      { return v.startMass }

// IsRover reports whether the vehicle is a crewed rover
func (v *Vehicle) IsRover() bool {
	return v.vtype.IsRover()
}

// IsParked reports whether the vehicle is inside a settlement's perimeter
func (v *Vehicle) IsParked() bool {
	return v.parkedAt != ""
}

// AddUnitListener registers a callback for vehicle events
func (v *Vehicle) AddUnitListener(l UnitListener) {
	v.listeners = append(v.listeners, l)
}

func (v *Vehicle) fire(event UnitEvent) {
	for _, l := range v.listeners {
		l(v, event)
	}
}

// Reservation

func (v *Vehicle) IsReserved() bool {
	return v.reserved
}

// SetReservedForMission marks the vehicle as exclusively held by a mission
func (v *Vehicle) SetReservedForMission(reserved bool) {
	if v.reserved == reserved {
		return
	}
	v.reserved = reserved
	if reserved {
		v.fire(UnitEventReserved)
	} else {
		v.fire(UnitEventUnreserved)
	}
}

// Emergency beacon

func (v *Vehicle) IsBeaconOn() bool {
	return v.beacon
}

// SetEmergencyBeacon toggles the beacon. Returns true when the state actually changed.
func (v *Vehicle) SetEmergencyBeacon(on bool) bool {
	if v.beacon == on {
		return false
	}
	v.beacon = on
	if on {
		v.fire(UnitEventBeaconOn)
	} else {
		v.fire(UnitEventBeaconOff)
	}
	return true
}

// Maintenance and readiness

func (v *Vehicle) UnderMaintenance() bool {
	return v.maintenance
}

func (v *Vehicle) SetMaintenance(on bool) {
	if v.maintenance == on {
		return
	}
	v.maintenance = on
	v.fire(UnitEventMaintenance)
}

// IsReady reports whether the vehicle can be taken on a mission
func (v *Vehicle) IsReady() bool {
	return !v.maintenance && !v.malfunctions.HasMalfunction()
}

// IsUsable reports whether the vehicle could be reserved by a new mission
func (v *Vehicle) IsUsable() bool {
	return v.IsReady() && !v.reserved
}

// StoredMass returns the kg of resources carried
func (v *Vehicle) StoredMass() float64 {
	return v.inventory.StoredMass()
}

// RecordStartMass remembers the loaded mass at departure
func (v *Vehicle) RecordStartMass() {
	v.startMass = v.StoredMass()
}

// Location

// Depart leaves the settlement the vehicle is parked at
func (v *Vehicle) Depart() {
	if v.parkedAt == "" {
		return
	}
	v.parkedAt = ""
	v.fire(UnitEventDeparted)
}

// Park places the vehicle inside a settlement
func (v *Vehicle) Park(settlement string, coords shared.Coordinates) {
	v.parkedAt = settlement
	v.coordinates = coords
	v.fire(UnitEventParked)
}

// Range returns how far the vehicle could travel on the fuel and oxidizer aboard
func (v *Vehicle) Range() float64 {
	fuel := v.inventory.AmountStored(v.fuelType)
	oxidizer := v.inventory.AmountStored(resource.Oxygen) / RatioOxidizerFuel
	return math.Min(fuel, oxidizer) * v.fuelEconomy
}

// Drive moves the vehicle toward target along the great circle for the given millisols at speedKph.
// Fuel and oxidizer are burnt for the distance covered; the vehicle stops early when either runs out.
// Returns the km travelled.
func (v *Vehicle) Drive(target shared.Coordinates, speedKph, millisols float64) float64 {
	if speedKph <= 0 || millisols <= 0 {
		return 0
	}
	v.Depart()

	km := speedKph * millisols * shared.HoursPerMillisol
	km = math.Min(km, v.coordinates.DistanceTo(target))
	km = math.Min(km, v.Range())
	if km <= 0 {
		return 0
	}

	fuel := km / v.fuelEconomy
	v.inventory.RetrieveAmount(v.fuelType, fuel)
	v.inventory.RetrieveAmount(resource.Oxygen, fuel*RatioOxidizerFuel)

	v.coordinates = v.coordinates.MoveToward(target, km)
	v.odometer += km
	return km
}

// Operator and crew

func (v *Vehicle) Operator() string {
	return v.operator
}

// SetOperator changes who is driving ("" for nobody)
func (v *Vehicle) SetOperator(name string) {
	v.operator = name
}

// BoardCrew adds a crew member to the cabin
func (v *Vehicle) BoardCrew(name string) error {
	if v.IsCrewMember(name) {
		return nil
	}
	if len(v.crew) >= v.crewCapacity {
		return shared.NewValidationError("crew", fmt.Sprintf("%s is at crew capacity %d", v.name, v.crewCapacity))
	}
	v.crew = append(v.crew, name)
	return nil
}

// Disembark removes a crew member; the operator seat is freed when they were driving
func (v *Vehicle) Disembark(name string) {
	for i, c := range v.crew {
		if c == name {
			v.crew = append(v.crew[:i], v.crew[i+1:]...)
			break
		}
	}
	if v.operator == name {
		v.operator = ""
	}
}

func (v *Vehicle) IsCrewMember(name string) bool {
	for _, c := range v.crew {
		if c == name {
			return true
		}
	}
	return false
}

func (v *Vehicle) CrewCount() int {
	return len(v.crew)
}

// Crew returns a copy of the crew names
func (v *Vehicle) Crew() []string {
	out := make([]string, len(v.crew))
	copy(out, v.crew)
	return out
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("%s (%s)", v.name, v.vtype)
}

// ReconstructVehicle rebuilds a vehicle from persisted or scenario state
func ReconstructVehicle(
	name string,
	vtype Type,
	home string,
	parkedAt string,
	coords shared.Coordinates,
	odometer float64,
	reserved bool,
	beacon bool,
	maintenance bool,
) (*Vehicle, error) {
	v, err := NewVehicle(name, vtype, home, coords)
	if err != nil {
		return nil, err
	}
	v.parkedAt = parkedAt
	v.odometer = odometer
	v.reserved = reserved
	v.beacon = beacon
	v.maintenance = maintenance
	return v, nil
}
