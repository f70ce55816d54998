package vehicle

import (
	"context"
	"sync"
)

// Fleet is the in-memory Repository of every vehicle in the simulation
type Fleet struct {
	mu       sync.RWMutex
	vehicles []*Vehicle
	byName   map[string]*Vehicle
}

func NewFleet(vehicles ...*Vehicle) *Fleet {
	f := &Fleet{byName: make(map[string]*Vehicle)}
	for _, v := range vehicles {
		f.Add(v)
	}
	return f
}

// Add registers a vehicle, replacing one with the same name
func (f *Fleet) Add(v *Vehicle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[v.Name()]; ok {
		for i, existing := range f.vehicles {
			if existing.Name() == v.Name() {
				f.vehicles[i] = v
			}
		}
	} else {
		f.vehicles = append(f.vehicles, v)
	}
	f.byName[v.Name()] = v
}

// Vehicle returns the named vehicle or nil
func (f *Fleet) Vehicle(name string) *Vehicle {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.byName[name]
}

// All returns the vehicles in registration order
func (f *Fleet) All() []*Vehicle {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*Vehicle, len(f.vehicles))
	copy(out, f.vehicles)
	return out
}

func (f *Fleet) Save(ctx context.Context, v *Vehicle) error {
	f.Add(v)
	return nil
}

func (f *Fleet) FindByName(ctx context.Context, name string) (*Vehicle, error) {
	return f.Vehicle(name), nil
}

func (f *Fleet) FindAll(ctx context.Context) ([]*Vehicle, error) {
	return f.All(), nil
}
