package worker

import "sync"

// Roster lists every worker in the simulation in registration order
type Roster struct {
	mu      sync.RWMutex
	workers []Worker
	byName  map[string]Worker
}

func NewRoster(workers ...Worker) *Roster {
	r := &Roster{byName: make(map[string]Worker)}
	for _, w := range workers {
		r.Add(w)
	}
	return r
}

// Add registers a worker (ignored when the name is already taken)
func (r *Roster) Add(w Worker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[w.Name()]; ok {
		return
	}
	r.workers = append(r.workers, w)
	r.byName[w.Name()] = w
}

// Find returns nil when the name is unknown
func (r *Roster) Find(name string) Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

func (r *Roster) All() []Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Worker, len(r.workers))
	copy(out, r.workers)
	return out
}

// At returns the workers currently inside a settlement
func (r *Roster) At(settlement string) []Worker {
	var out []Worker
	for _, w := range r.All() {
		if w.CurrentSettlement() == settlement {
			out = append(out, w)
		}
	}
	return out
}

// AssociatedWith returns the workers belonging to a settlement, wherever they are
func (r *Roster) AssociatedWith(settlement string) []Worker {
	var out []Worker
	for _, w := range r.All() {
		if w.AssociatedSettlement() == settlement {
			out = append(out, w)
		}
	}
	return out
}

// People returns only the human workers
func (r *Roster) People() []*Person {
	var out []*Person
	for _, w := range r.All() {
		if p, ok := w.(*Person); ok {
			out = append(out, p)
		}
	}
	return out
}
