package mission

import (
	"context"
	"sync"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// Logger is the structured logging port used by the engine
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// VehicleIndex resolves vehicles by name
type VehicleIndex interface {
	Vehicle(name string) *vehicle.Vehicle
}

// MembershipIndex answers which mission a worker belongs to
type MembershipIndex interface {
	HasMission(w worker.Worker) bool
}

// Identifiers hands out mission IDs and the per-settlement sequence numbers used in designations
type Identifiers interface {
	NextMissionID() int
	NextDesignationID(settlementCode string) int
}

// SequenceIdentifiers is an in-memory Identifiers
type SequenceIdentifiers struct {
	mu          sync.Mutex
	missionID   int
	designation map[string]int
}

// NewSequenceIdentifiers starts both sequences after the given values
func NewSequenceIdentifiers(lastMissionID int, lastDesignations map[string]int) *SequenceIdentifiers {
	s := &SequenceIdentifiers{missionID: lastMissionID, designation: make(map[string]int)}
	for code, id := range lastDesignations {
		s.designation[code] = id
	}
	return s
}

func (s *SequenceIdentifiers) NextMissionID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missionID++
	return s.missionID
}

func (s *SequenceIdentifiers) NextDesignationID(settlementCode string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designation[settlementCode]++
	return s.designation[settlementCode]
}

// SnapshotRepository persists read-model snapshots of missions
type SnapshotRepository interface {
	// Save inserts or updates the snapshot of a mission
	Save(ctx context.Context, data *MissionData) error

	// FindByID returns nil, nil when no snapshot exists
	FindByID(ctx context.Context, id int) (*MissionData, error)

	// List returns snapshots, optionally filtered by starting settlement ("" for all)
	List(ctx context.Context, settlement string, includeDone bool) ([]*MissionData, error)
}

// EventRepository persists historical events
type EventRepository interface {
	Append(ctx context.Context, event HistoricalEvent) error
	ListForMission(ctx context.Context, missionID int) ([]HistoricalEvent, error)
}

type noOpLogger struct{}

func (noOpLogger) Log(level, message string, metadata map[string]interface{}) {}
