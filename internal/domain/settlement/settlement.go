package settlement

import (
	"fmt"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/pkg/utils"
)

// Settlement is a colony base: it stores resources, parks vehicles and houses workers.
// Population counts residents, used to scale crews and plan reviews.
type Settlement struct {
	name           string
	code           string
	coordinates    shared.Coordinates
	population     int
	inventory      *resource.Inventory
	parked         []string
	garage         map[string]bool
	garageCapacity int
}

// NewSettlement creates a settlement with unlimited storage
func NewSettlement(name string, coords shared.Coordinates, population, garageCapacity int) (*Settlement, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if population < 0 {
		return nil, shared.NewValidationError("population", "must be >= 0")
	}
	return &Settlement{
		name:           name,
		code:           utils.SettlementCode(name),
		coordinates:    coords,
		population:     population,
		inventory:      resource.NewInventory(0),
		garage:         make(map[string]bool),
		garageCapacity: garageCapacity,
	}, nil
}

func (s *Settlement) Name() string                    { return s.name }
func (s *Settlement) Code() string                    { return s.code }
func (s *Settlement) Coordinates() shared.Coordinates { return s.coordinates }
func (s *Settlement) Population() int                 { return s.population }
func (s *Settlement) Inventory() *resource.Inventory  { return s.inventory }
func (s *Settlement) GarageCapacity() int             { return s.garageCapacity }

// SetPopulation updates the resident count
func (s *Settlement) SetPopulation(n int) {
	if n < 0 {
		n = 0
	}
	s.population = n
}

// ParkedVehicles returns the names of vehicles parked here, in arrival order
func (s *Settlement) ParkedVehicles() []string {
	out := make([]string, len(s.parked))
	copy(out, s.parked)
	return out
}

func (s *Settlement) HasParked(vehicle string) bool {
	for _, p := range s.parked {
		if p == vehicle {
			return true
		}
	}
	return false
}

// ParkVehicle adds a vehicle to the parking list (no-op when already parked)
func (s *Settlement) ParkVehicle(vehicle string) {
	if !s.HasParked(vehicle) {
		s.parked = append(s.parked, vehicle)
	}
}

// RemoveVehicle removes a vehicle from the parking list and the garage
func (s *Settlement) RemoveVehicle(vehicle string) {
	for i, p := range s.parked {
		if p == vehicle {
			s.parked = append(s.parked[:i], s.parked[i+1:]...)
			break
		}
	}
	delete(s.garage, vehicle)
}

// AddToGarage moves a parked vehicle into a garage bay. Returns false when no bay is free.
func (s *Settlement) AddToGarage(vehicle string) bool {
	if s.garage[vehicle] {
		return true
	}
	if len(s.garage) >= s.garageCapacity {
		return false
	}
	s.ParkVehicle(vehicle)
	s.garage[vehicle] = true
	return true
}

// RemoveFromGarage moves a vehicle back to the outdoor parking
func (s *Settlement) RemoveFromGarage(vehicle string) {
	delete(s.garage, vehicle)
}

func (s *Settlement) InGarage(vehicle string) bool {
	return s.garage[vehicle]
}

func (s *Settlement) String() string {
	return fmt.Sprintf("%s [%s]", s.name, s.code)
}
