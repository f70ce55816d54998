package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/persistence"
)

// MockMissionLogRepository is an in-memory implementation of MissionLogRepository for testing
type MockMissionLogRepository struct {
	mu     sync.Mutex
	Logs   map[int][]persistence.MissionLogEntry // key: mission_id
	LogErr error
}

// NewMockMissionLogRepository creates a new mock mission log repository
func NewMockMissionLogRepository() *MockMissionLogRepository {
	return &MockMissionLogRepository{
		Logs: make(map[int][]persistence.MissionLogEntry),
	}
}

// Log writes a log entry (in-memory only for testing)
func (m *MockMissionLogRepository) Log(ctx context.Context, missionID int, message, level string, metadata map[string]interface{}) error {
	if m.LogErr != nil {
		return m.LogErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs[missionID] = append(m.Logs[missionID], persistence.MissionLogEntry{
		ID:        len(m.Logs[missionID]) + 1,
		MissionID: missionID,
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Metadata:  metadata,
	})
	return nil
}

// GetLogs returns the newest entries first
func (m *MockMissionLogRepository) GetLogs(ctx context.Context, missionID int, limit int, level *string, sinceMillisols *float64) ([]persistence.MissionLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs := m.Logs[missionID]
	var out []persistence.MissionLogEntry
	for i := len(logs) - 1; i >= 0; i-- {
		if level != nil && logs[i].Level != *level {
			continue
		}
		out = append(out, logs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Messages returns every message logged for a mission in arrival order
func (m *MockMissionLogRepository) Messages(missionID int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.Logs[missionID] {
		out = append(out, e.Message)
	}
	return out
}
