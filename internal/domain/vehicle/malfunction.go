package vehicle

import (
	"sort"
	"sync"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
)

// Malfunction is an active fault on a vehicle
type Malfunction struct {
	Name        string
	RepairParts map[resource.ID]int
	Repairable  bool
}

// MalfunctionManager tracks active malfunctions and the repair part profile of a vehicle.
// The revision changes whenever the profile changes so estimators can key their caches on it.
type MalfunctionManager struct {
	mu          sync.RWMutex
	active      []Malfunction
	partProfile map[resource.ID]float64
	profileRev  int
}

// NewMalfunctionManager creates a manager with a repair part profile
func NewMalfunctionManager(profile map[resource.ID]float64) *MalfunctionManager {
	m := &MalfunctionManager{partProfile: make(map[resource.ID]float64)}
	for id, p := range profile {
		m.partProfile[id] = p
	}
	return m
}

// HasMalfunction reports whether any malfunction is active
func (m *MalfunctionManager) HasMalfunction() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active) > 0
}

// HasUnrepairableMalfunction reports whether an active fault cannot be fixed in the field
func (m *MalfunctionManager) HasUnrepairableMalfunction() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mf := range m.active {
		if !mf.Repairable {
			return true
		}
	}
	return false
}

// Add registers a new malfunction
func (m *MalfunctionManager) Add(mf Malfunction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = append(m.active, mf)
}

// Repair clears the named malfunction. Returns false when it is not active or not repairable.
func (m *MalfunctionManager) Repair(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, mf := range m.active {
		if mf.Name == name {
			if !mf.Repairable {
				return false
			}
			m.active = append(m.active[:i], m.active[i+1:]...)
			return true
		}
	}
	return false
}

// Malfunctions returns a copy of the active malfunctions
func (m *MalfunctionManager) Malfunctions() []Malfunction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Malfunction, len(m.active))
	copy(out, m.active)
	return out
}

// RepairPartProbabilities returns a copy of the part profile
func (m *MalfunctionManager) RepairPartProbabilities() map[resource.ID]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[resource.ID]float64, len(m.partProfile))
	for id, p := range m.partProfile {
		out[id] = p
	}
	return out
}

// RepairParts returns the profile parts sorted by ID, for deterministic iteration
func (m *MalfunctionManager) RepairParts() []resource.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]resource.ID, 0, len(m.partProfile))
	for id := range m.partProfile {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SetRepairPartProbability changes one entry of the profile
func (m *MalfunctionManager) SetRepairPartProbability(id resource.ID, p float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p <= 0 {
		delete(m.partProfile, id)
	} else {
		m.partProfile[id] = p
	}
	m.profileRev++
}

// ProfileRevision changes every time the part profile is modified
func (m *MalfunctionManager) ProfileRevision() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profileRev
}
