package shared

import (
	"math/rand"
	"sync"
)

// RandomSource is the single entry point for randomness in the simulation.
// Seeded sources make mission and vehicle selection reproducible.
type RandomSource interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// Intn returns a value in [0, n)
	Intn(n int) int
}

type seededRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandom creates a deterministic random source
func NewSeededRandom(seed int64) RandomSource {
	return &seededRandom{rng: rand.New(rand.NewSource(seed))}
}

func (r *seededRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *seededRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// RandomPercentLessThan returns true with probability chance/100
func RandomPercentLessThan(r RandomSource, chance float64) bool {
	return r.Float64()*100 < chance
}

// RandomDouble returns a value in [0, max)
func RandomDouble(r RandomSource, max float64) float64 {
	return r.Float64() * max
}

// RandomInt returns a value in [0, maxInclusive]
func RandomInt(r RandomSource, maxInclusive int) int {
	if maxInclusive <= 0 {
		return 0
	}
	return r.Intn(maxInclusive + 1)
}

// FixedRandom replays scripted values, cycling when exhausted. Used by tests.
type FixedRandom struct {
	Values []float64
	next   int
}

// NewFixedRandom creates a scripted random source returning values in order
func NewFixedRandom(values ...float64) *FixedRandom {
	return &FixedRandom{Values: values}
}

func (f *FixedRandom) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}

func (f *FixedRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(f.Float64() * float64(n))
}
