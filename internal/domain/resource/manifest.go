package resource

import "math"

// Manifest is an insertion-ordered collection of resource quantities.
// Amount resources are kg, items and equipment are whole counts.
type Manifest struct {
	order      []ID
	quantities map[ID]float64
}

// NewManifest creates an empty manifest
func NewManifest() *Manifest {
	return &Manifest{quantities: make(map[ID]float64)}
}

// Set records a quantity, keeping the original position for an existing ID
func (m *Manifest) Set(id ID, quantity float64) {
	if _, ok := m.quantities[id]; !ok {
		m.order = append(m.order, id)
	}
	if !id.IsAmount() {
		quantity = math.Round(quantity)
	}
	m.quantities[id] = quantity
}

// SetIfAbsent records a quantity only when the ID is not present yet
func (m *Manifest) SetIfAbsent(id ID, quantity float64) {
	if !m.Has(id) {
		m.Set(id, quantity)
	}
}

// Add increases the quantity for an ID
func (m *Manifest) Add(id ID, quantity float64) {
	m.Set(id, m.quantities[id]+quantity)
}

// Get returns the quantity for an ID (0 when absent)
func (m *Manifest) Get(id ID) float64 {
	return m.quantities[id]
}

// Count returns an item or equipment quantity as an integer
func (m *Manifest) Count(id ID) int {
	return int(math.Round(m.quantities[id]))
}

func (m *Manifest) Has(id ID) bool {
	_, ok := m.quantities[id]
	return ok
}

func (m *Manifest) Len() int {
	return len(m.order)
}

// IDs returns the IDs in insertion order
func (m *Manifest) IDs() []ID {
	ids := make([]ID, len(m.order))
	copy(ids, m.order)
	return ids
}

// Each visits every entry in insertion order; returning false stops the walk
func (m *Manifest) Each(fn func(id ID, quantity float64) bool) {
	for _, id := range m.order {
		if !fn(id, m.quantities[id]) {
			return
		}
	}
}

// Clone returns an independent copy
func (m *Manifest) Clone() *Manifest {
	c := NewManifest()
	m.Each(func(id ID, q float64) bool {
		c.Set(id, q)
		return true
	})
	return c
}

// Merge adds every entry of other into m
func (m *Manifest) Merge(other *Manifest) {
	if other == nil {
		return
	}
	other.Each(func(id ID, q float64) bool {
		m.Add(id, q)
		return true
	})
}

// TotalMass sums the amount resources in kg
func (m *Manifest) TotalMass() float64 {
	total := 0.0
	m.Each(func(id ID, q float64) bool {
		if id.IsAmount() {
			total += q
		}
		return true
	})
	return total
}

// ToMap returns a plain map keyed by resource name, used by read models
func (m *Manifest) ToMap() map[string]float64 {
	out := make(map[string]float64, m.Len())
	m.Each(func(id ID, q float64) bool {
		out[id.Name()] = q
		return true
	})
	return out
}
