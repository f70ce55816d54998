package shared

import (
	"encoding/json"
	"fmt"
	"sync"
)

const (
	// MillisolsPerSol is the length of one Martian day in millisols
	MillisolsPerSol = 1000.0

	// HoursPerMillisol converts simulation time to Earth hours
	HoursPerMillisol = 0.0247

	// MillisolsPerHour converts Earth hours to simulation time
	MillisolsPerHour = 1.0 / HoursPerMillisol
)

// MarsTime is an immutable point in simulation time, counted in millisols since the simulation began
type MarsTime struct {
	total float64
}

// NewMarsTime creates a MarsTime from the total elapsed millisols
func NewMarsTime(totalMillisols float64) MarsTime {
	if totalMillisols < 0 {
		totalMillisols = 0
	}
	return MarsTime{total: totalMillisols}
}

// Total returns the elapsed millisols since the simulation began
func (t MarsTime) Total() float64 {
	return t.total
}

// Sol returns the 1-based mission sol
func (t MarsTime) Sol() int {
	return int(t.total/MillisolsPerSol) + 1
}

// MillisolInt returns the whole millisol within the current sol (0..999)
func (t MarsTime) MillisolInt() int {
	return int(t.total) % int(MillisolsPerSol)
}

// Add returns a new MarsTime advanced by the given millisols
func (t MarsTime) Add(millisols float64) MarsTime {
	return NewMarsTime(t.total + millisols)
}

// Sub returns the millisols elapsed between other and t
func (t MarsTime) Sub(other MarsTime) float64 {
	return t.total - other.total
}

// Before reports whether t is earlier than other
func (t MarsTime) Before(other MarsTime) bool {
	return t.Sub(other) < 0
}

// Equal reports whether both times refer to the same instant
func (t MarsTime) Equal(other MarsTime) bool {
	return t.total == other.total
}

// MarshalJSON encodes the time as total millisols
func (t MarsTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.total)
}

func (t *MarsTime) UnmarshalJSON(data []byte) error {
	var total float64
	if err := json.Unmarshal(data, &total); err != nil {
		return err
	}
	*t = NewMarsTime(total)
	return nil
}

func (t MarsTime) String() string {
	msol := t.total - float64(t.Sol()-1)*MillisolsPerSol
	return fmt.Sprintf("Sol %d %05.1f", t.Sol(), msol)
}

// Clock is an abstraction over the simulation clock, allowing time to be controlled in tests
type Clock interface {
	Now() MarsTime
}

// SimulationClock is the master clock advanced by the tick scheduler
type SimulationClock struct {
	mu      sync.RWMutex
	current MarsTime
}

// NewSimulationClock creates a clock starting at the given time
func NewSimulationClock(start MarsTime) *SimulationClock {
	return &SimulationClock{current: start}
}

// Now returns the current simulation time
func (c *SimulationClock) Now() MarsTime {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance moves the clock forward and returns the new time
func (c *SimulationClock) Advance(millisols float64) MarsTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(millisols)
	return c.current
}

// MockClock implements Clock with a controllable time for testing
type MockClock struct {
	CurrentTime MarsTime
}

// Now returns the mock's current time
func (m *MockClock) Now() MarsTime {
	return m.CurrentTime
}

// Advance moves the mock clock forward by the given millisols
func (m *MockClock) Advance(millisols float64) {
	m.CurrentTime = m.CurrentTime.Add(millisols)
}

// SetTime sets the mock clock to a specific time
func (m *MockClock) SetTime(t MarsTime) {
	m.CurrentTime = t
}

// NewMockClock creates a MockClock starting at the given time
func NewMockClock(start MarsTime) *MockClock {
	return &MockClock{CurrentTime: start}
}
