package mission

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// HistoricalEventType is an auditable mission milestone
type HistoricalEventType string

const (
	HistoricalMissionStart         HistoricalEventType = "MISSION_START"
	HistoricalMissionJoining       HistoricalEventType = "MISSION_JOINING"
	HistoricalMissionFinish        HistoricalEventType = "MISSION_FINISH"
	HistoricalEmergencyBeaconOn    HistoricalEventType = "MISSION_EMERGENCY_BEACON_ON"
	HistoricalEmergencyDestination HistoricalEventType = "MISSION_EMERGENCY_DESTINATION"
	HistoricalNotEnoughResources   HistoricalEventType = "MISSION_NOT_ENOUGH_RESOURCES"
	HistoricalMedicalEmergency     HistoricalEventType = "MISSION_MEDICAL_EMERGENCY"
	HistoricalMissionPhase         HistoricalEventType = "MISSION_PHASE"
)

// HistoricalEvent is an append-only log record. The core writes these and never reads them back.
type HistoricalEvent struct {
	ID          string
	Type        HistoricalEventType
	MissionID   int
	MissionType Type
	Designation string
	Cause       string
	Who         string
	Settlement  string
	Location    shared.Coordinates
	Time        shared.MarsTime
}

// NewHistoricalEvent stamps an event with a fresh ID
func NewHistoricalEvent(eventType HistoricalEventType, m *Mission, cause, who string) HistoricalEvent {
	e := HistoricalEvent{
		ID:    uuid.NewString(),
		Type:  eventType,
		Cause: cause,
		Who:   who,
	}
	if m != nil {
		e.MissionID = m.ID()
		e.MissionType = m.Type()
		e.Designation = m.Designation()
		e.Settlement = m.StartingSettlement()
		e.Time = m.env.Clock.Now()
		if loc, ok := m.behavior.(locator); ok {
			e.Location = loc.CurrentLocation()
		}
	}
	return e
}

// locator is implemented by behaviours that know where the mission currently is
type locator interface {
	CurrentLocation() shared.Coordinates
}

// EventRecorder is the port through which historical events leave the core
type EventRecorder interface {
	RecordEvent(event HistoricalEvent)
}

// MemoryRecorder keeps events in memory in arrival order
type MemoryRecorder struct {
	mu     sync.Mutex
	events []HistoricalEvent
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) RecordEvent(event HistoricalEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of every recorded event
func (r *MemoryRecorder) Events() []HistoricalEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]HistoricalEvent, len(r.events))
	copy(out, r.events)
	return out
}

// OfType filters recorded events by type
func (r *MemoryRecorder) OfType(t HistoricalEventType) []HistoricalEvent {
	var out []HistoricalEvent
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// FanOutRecorder forwards every event to several recorders in order
type FanOutRecorder []EventRecorder

func (f FanOutRecorder) RecordEvent(event HistoricalEvent) {
	for _, r := range f {
		if r != nil {
			r.RecordEvent(event)
		}
	}
}
