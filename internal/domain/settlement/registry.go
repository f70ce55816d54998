package settlement

import (
	"sync"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// Registry holds every known settlement in registration order
type Registry struct {
	mu          sync.RWMutex
	settlements []*Settlement
	byName      map[string]*Settlement
}

func NewRegistry(settlements ...*Settlement) *Registry {
	r := &Registry{byName: make(map[string]*Settlement)}
	for _, s := range settlements {
		r.Add(s)
	}
	return r
}

// Add registers a settlement; a settlement with the same name is replaced in place
func (r *Registry) Add(s *Settlement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[s.Name()]; ok {
		for i, existing := range r.settlements {
			if existing.Name() == s.Name() {
				r.settlements[i] = s
			}
		}
	} else {
		r.settlements = append(r.settlements, s)
	}
	r.byName[s.Name()] = s
}

// Find returns nil when the name is unknown
func (r *Registry) Find(name string) *Settlement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

func (r *Registry) All() []*Settlement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Settlement, len(r.settlements))
	copy(out, r.settlements)
	return out
}

// FindClosest scans every settlement and returns the nearest one with its distance.
// Returns nil when the registry is empty.
func (r *Registry) FindClosest(from shared.Coordinates) (*Settlement, float64) {
	nearest, distance, ok := shared.FindNearest(from, r.All())
	if !ok {
		return nil, 0
	}
	return nearest, distance
}

// FindAt returns the settlement located at the given coordinates, or nil
func (r *Registry) FindAt(coords shared.Coordinates) *Settlement {
	for _, s := range r.All() {
		if s.Coordinates().Equals(coords) {
			return s
		}
	}
	return nil
}
