package mission

import "github.com/mars-sim/mars-sim-sub009/internal/domain/resource"

// PartsKey identifies one spare parts estimate. The estimate is a pure function of the key.
type PartsKey struct {
	Vehicle         string
	Distance        float64
	ProfileRevision int
}

// PartsEstimator memoizes the last spare parts estimate
type PartsEstimator struct {
	key          PartsKey
	parts        *resource.Manifest
	computations int
}

// Estimate returns the memoized manifest when the key is unchanged, otherwise computes a new one
func (e *PartsEstimator) Estimate(key PartsKey, compute func() *resource.Manifest) *resource.Manifest {
	if e.parts != nil && e.key == key {
		return e.parts
	}
	e.key = key
	e.parts = compute()
	e.computations++
	return e.parts
}

// Reset forgets the memoized estimate
func (e *PartsEstimator) Reset() {
	e.parts = nil
}

// Computations counts how many estimates were actually computed
func (e *PartsEstimator) Computations() int {
	return e.computations
}
