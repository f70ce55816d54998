package vehicle

import "github.com/mars-sim/mars-sim-sub009/internal/domain/resource"

// Type identifies a vehicle class
type Type string

const (
	TypeExplorerRover  Type = "EXPLORER_ROVER"
	TypeCargoRover     Type = "CARGO_ROVER"
	TypeTransportRover Type = "TRANSPORT_ROVER"
	TypeLUV            Type = "LUV"
	TypeDeliveryDrone  Type = "DELIVERY_DRONE"
)

var validTypes = map[Type]bool{
	TypeExplorerRover:  true,
	TypeCargoRover:     true,
	TypeTransportRover: true,
	TypeLUV:            true,
	TypeDeliveryDrone:  true,
}

// IsValid reports whether the type is known
func (t Type) IsValid() bool {
	return validTypes[t]
}

// IsRover reports whether the type carries a pressurized crew cabin
func (t Type) IsRover() bool {
	return t == TypeExplorerRover || t == TypeCargoRover || t == TypeTransportRover
}

func (t Type) IsDrone() bool {
	return t == TypeDeliveryDrone
}

func (t Type) String() string {
	return string(t)
}

// Spec holds the static characteristics of a vehicle class
type Spec struct {
	BaseSpeed               float64 // km/h
	FuelEconomy             float64 // km/kg
	ConservativeFuelEconomy float64 // km/kg used for range planning
	CrewCapacity            int
	CargoCapacity           float64 // kg
	FuelType                resource.ID
}

// DefaultSpec returns the stock specification of a vehicle class
func DefaultSpec(t Type) Spec {
	switch t {
	case TypeExplorerRover:
		return Spec{BaseSpeed: 30, FuelEconomy: 4, ConservativeFuelEconomy: 3, CrewCapacity: 4, CargoCapacity: 6000, FuelType: resource.Methanol}
	case TypeCargoRover:
		return Spec{BaseSpeed: 25, FuelEconomy: 3, ConservativeFuelEconomy: 2.2, CrewCapacity: 2, CargoCapacity: 12000, FuelType: resource.Methanol}
	case TypeTransportRover:
		return Spec{BaseSpeed: 30, FuelEconomy: 3.5, ConservativeFuelEconomy: 2.5, CrewCapacity: 8, CargoCapacity: 4000, FuelType: resource.Methanol}
	case TypeLUV:
		return Spec{BaseSpeed: 15, FuelEconomy: 5, ConservativeFuelEconomy: 4, CrewCapacity: 1, CargoCapacity: 800, FuelType: resource.Methanol}
	case TypeDeliveryDrone:
		return Spec{BaseSpeed: 60, FuelEconomy: 6, ConservativeFuelEconomy: 4.5, CrewCapacity: 0, CargoCapacity: 1000, FuelType: resource.Methanol}
	default:
		return Spec{BaseSpeed: 10, FuelEconomy: 1, ConservativeFuelEconomy: 1, FuelType: resource.Methanol}
	}
}

// DefaultRepairPartProbabilities returns the chance that each part is needed to repair a malfunction
func DefaultRepairPartProbabilities(t Type) map[resource.ID]float64 {
	switch {
	case t.IsRover():
		return map[resource.ID]float64{
			resource.Wheel:    0.30,
			resource.Battery:  0.12,
			resource.FuelCell: 0.10,
			resource.Pipe:     0.08,
			resource.Filter:   0.20,
			resource.Ladder:   0.02,
		}
	case t.IsDrone():
		return map[resource.ID]float64{
			resource.Battery:    0.25,
			resource.FuelCell:   0.15,
			resource.SolarPanel: 0.05,
		}
	default:
		return map[resource.ID]float64{
			resource.Wheel:   0.35,
			resource.Battery: 0.15,
		}
	}
}
