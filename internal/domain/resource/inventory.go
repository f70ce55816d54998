package resource

import (
	"math"
	"sync"
)

// Stock is the read side of an inventory used by sufficiency checks
type Stock interface {
	AmountStored(id ID) float64
	ItemStored(id ID) int
}

// Inventory holds amount resources (kg) and countable items or equipment.
type Inventory struct {
	mu       sync.RWMutex
	amounts  map[ID]float64
	items    map[ID]int
	capacity float64
}

// NewInventory creates an inventory limited to capacity kg of amount resources (0 = unlimited)
func NewInventory(capacity float64) *Inventory {
	return &Inventory{
		amounts:  make(map[ID]float64),
		items:    make(map[ID]int),
		capacity: capacity,
	}
}

func (inv *Inventory) AmountStored(id ID) float64 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.amounts[id]
}

func (inv *Inventory) ItemStored(id ID) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.items[id]
}

// Capacity returns the mass limit in kg (0 = unlimited)
func (inv *Inventory) Capacity() float64 {
	return inv.capacity
}

// StoredMass returns the total kg of amount resources held
func (inv *Inventory) StoredMass() float64 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.storedMassLocked()
}

func (inv *Inventory) storedMassLocked() float64 {
	total := 0.0
	for _, a := range inv.amounts {
		total += a
	}
	return total
}

// RemainingCapacity returns how many kg can still be stored
func (inv *Inventory) RemainingCapacity() float64 {
	if inv.capacity <= 0 {
		return math.Inf(1)
	}
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return math.Max(0, inv.capacity-inv.storedMassLocked())
}

// StoreAmount adds up to kg of an amount resource and returns what was stored
func (inv *Inventory) StoreAmount(id ID, kg float64) float64 {
	if kg <= 0 {
		return 0
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.capacity > 0 {
		room := inv.capacity - inv.storedMassLocked()
		if room <= 0 {
			return 0
		}
		kg = math.Min(kg, room)
	}
	inv.amounts[id] += kg
	return kg
}

// RetrieveAmount removes up to kg of an amount resource and returns what was taken
func (inv *Inventory) RetrieveAmount(id ID, kg float64) float64 {
	if kg <= 0 {
		return 0
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	taken := math.Min(kg, inv.amounts[id])
	inv.amounts[id] -= taken
	if inv.amounts[id] <= 0 {
		delete(inv.amounts, id)
	}
	return taken
}

// StoreItem adds countable items
func (inv *Inventory) StoreItem(id ID, n int) {
	if n <= 0 {
		return
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.items[id] += n
}

// RetrieveItem removes up to n items and returns how many were taken
func (inv *Inventory) RetrieveItem(id ID, n int) int {
	if n <= 0 {
		return 0
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	taken := n
	if inv.items[id] < taken {
		taken = inv.items[id]
	}
	inv.items[id] -= taken
	if inv.items[id] == 0 {
		delete(inv.items, id)
	}
	return taken
}

// Store puts a quantity of any kind into the inventory and returns what was stored
func (inv *Inventory) Store(id ID, quantity float64) float64 {
	if id.IsAmount() {
		return inv.StoreAmount(id, quantity)
	}
	n := int(math.Round(quantity))
	inv.StoreItem(id, n)
	return float64(n)
}

// Retrieve takes a quantity of any kind out of the inventory and returns what was taken
func (inv *Inventory) Retrieve(id ID, quantity float64) float64 {
	if id.IsAmount() {
		return inv.RetrieveAmount(id, quantity)
	}
	return float64(inv.RetrieveItem(id, int(math.Round(quantity))))
}

// TransferTo moves up to quantity of a resource into another inventory. What the target cannot hold
// stays here. Returns what was moved.
func (inv *Inventory) TransferTo(to *Inventory, id ID, quantity float64) float64 {
	taken := inv.Retrieve(id, quantity)
	stored := to.Store(id, taken)
	if stored < taken {
		inv.Store(id, taken-stored)
	}
	return stored
}

// Stored returns the quantity of any kind held
func (inv *Inventory) Stored(id ID) float64 {
	if id.IsAmount() {
		return inv.AmountStored(id)
	}
	return float64(inv.ItemStored(id))
}

// Snapshot returns the current contents as a manifest ordered by ID
func (inv *Inventory) Snapshot() *Manifest {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	m := NewManifest()
	for id := ID(1); id < FirstItemResourceID; id++ {
		if a, ok := inv.amounts[id]; ok {
			m.Set(id, a)
		}
	}
	for id := FirstItemResourceID; id < FirstEquipmentID+100; id++ {
		if n, ok := inv.items[id]; ok {
			m.Set(id, float64(n))
		}
	}
	return m
}

// IsEmpty reports whether nothing is stored
func (inv *Inventory) IsEmpty() bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.amounts) == 0 && len(inv.items) == 0
}
