package resource

import "fmt"

// ID identifies an amount resource, an item resource or a piece of equipment.
// The numeric range decides the kind.
type ID int

const (
	// FirstItemResourceID is the first ID of countable item resources
	FirstItemResourceID ID = 1000

	// FirstEquipmentID is the first ID of equipment types
	FirstEquipmentID ID = 2000
)

// Amount resources (kg)
const (
	Oxygen ID = iota + 1
	Water
	Food
	Methane
	Methanol
	Ice
	Regolith
	Hematite
	Olivine
	Kamacite
	CarbonDioxide
)

// Item resources (count)
const (
	Wheel ID = FirstItemResourceID + iota + 1
	Battery
	FuelCell
	Ladder
	Pipe
	Filter
	SolarPanel
	Drill
)

// Equipment (count)
const (
	Bag ID = FirstEquipmentID + iota + 1
	LargeBag
	Barrel
	GasCanister
	EVASuit
)

var names = map[ID]string{
	Oxygen:        "oxygen",
	Water:         "water",
	Food:          "food",
	Methane:       "methane",
	Methanol:      "methanol",
	Ice:           "ice",
	Regolith:      "regolith",
	Hematite:      "hematite",
	Olivine:       "olivine",
	Kamacite:      "kamacite",
	CarbonDioxide: "carbon dioxide",
	Wheel:         "wheel",
	Battery:       "battery",
	FuelCell:      "fuel cell",
	Ladder:        "ladder",
	Pipe:          "pipe",
	Filter:        "filter",
	SolarPanel:    "solar panel",
	Drill:         "drill",
	Bag:           "bag",
	LargeBag:      "large bag",
	Barrel:        "barrel",
	GasCanister:   "gas canister",
	EVASuit:       "EVA suit",
}

// Minerals are the amount resources produced by mining
var Minerals = []ID{Hematite, Olivine, Kamacite}

// IsAmount reports whether the resource is measured in kg
func (id ID) IsAmount() bool { return id > 0 && id < FirstItemResourceID }

// IsItem reports whether the resource is a countable part
func (id ID) IsItem() bool { return id >= FirstItemResourceID && id < FirstEquipmentID }

// IsEquipment reports whether the ID is an equipment type
func (id ID) IsEquipment() bool { return id >= FirstEquipmentID }

// Name returns the catalogue name of the resource
func (id ID) Name() string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("resource-%d", int(id))
}

func (id ID) String() string {
	return id.Name()
}

// Lookup resolves a catalogue name to its ID
func Lookup(name string) (ID, bool) {
	for id, n := range names {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// ContainerFor returns the equipment type able to hold an amount resource and its capacity in kg
func ContainerFor(id ID) (ID, float64) {
	switch id {
	case Oxygen, Methane, CarbonDioxide:
		return GasCanister, 50
	case Water, Methanol, Food:
		return Barrel, 200
	case Ice, Regolith:
		return LargeBag, 900
	default:
		return Bag, 50
	}
}
