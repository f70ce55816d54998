package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// MissionLogRepository manages mission log persistence
type MissionLogRepository interface {
	// Log writes a log entry to the database with deduplication
	Log(ctx context.Context, missionID int, message, level string, metadata map[string]interface{}) error

	// GetLogs retrieves logs for a mission, newest first, with optional filtering
	GetLogs(ctx context.Context, missionID int, limit int, level *string, sinceMillisols *float64) ([]MissionLogEntry, error)
}

// MissionLogEntry represents a log entry
type MissionLogEntry struct {
	ID        int
	MissionID int
	Timestamp time.Time
	MarsTime  shared.MarsTime
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormMissionLogRepository is a GORM-based implementation
type GormMissionLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	// key: missionID|message, value: simulation time last written
	dedupCache   map[string]shared.MarsTime
	dedupMu      sync.Mutex
	dedupWindow  float64 // millisols
	dedupMaxSize int
}

// NewGormMissionLogRepository creates a new mission log repository.
// The deduplication window is measured on clock, in millisols.
func NewGormMissionLogRepository(db *gorm.DB, clock shared.Clock) *GormMissionLogRepository {
	if clock == nil {
		clock = shared.NewSimulationClock(shared.NewMarsTime(0))
	}
	return &GormMissionLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]shared.MarsTime),
		dedupWindow:  50,
		dedupMaxSize: 10000,
	}
}

// Log writes a log entry with time-windowed deduplication
func (r *GormMissionLogRepository) Log(ctx context.Context, missionID int, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := fmt.Sprintf("%d|%s", missionID, message)

	r.dedupMu.Lock()
	if last, exists := r.dedupCache[cacheKey]; exists && now.Sub(last) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	var metadataJSON string
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	entry := &MissionLogModel{
		MissionID: missionID,
		Timestamp: time.Now(),
		MarsTime:  now.Total(),
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// cleanupDedupCache must be called while holding dedupMu
func (r *GormMissionLogRepository) cleanupDedupCache(now shared.MarsTime) {
	for key, last := range r.dedupCache {
		if now.Sub(last) >= r.dedupWindow {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves logs for a mission with optional filtering
func (r *GormMissionLogRepository) GetLogs(ctx context.Context, missionID int, limit int, level *string, sinceMillisols *float64) ([]MissionLogEntry, error) {
	var models []MissionLogModel

	query := r.db.WithContext(ctx).Where("mission_id = ?", missionID)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if sinceMillisols != nil {
		query = query.Where("mars_time > ?", *sinceMillisols)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("mars_time DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]MissionLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = MissionLogEntry{
			ID:        model.ID,
			MissionID: model.MissionID,
			Timestamp: model.Timestamp,
			MarsTime:  shared.NewMarsTime(model.MarsTime),
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}

var levelRank = map[string]int{"DEBUG": 0, "INFO": 1, "WARNING": 2, "ERROR": 3}

// MissionLogger implements mission.Logger by writing to the repository and echoing to the process log
type MissionLogger struct {
	repo     MissionLogRepository
	minLevel int
	json     bool
}

// NewMissionLogger echoes entries at or above minLevel ("debug", "info", "warning", "error")
func NewMissionLogger(repo MissionLogRepository, minLevel string) *MissionLogger {
	rank, ok := levelRank[strings.ToUpper(minLevel)]
	if !ok {
		rank = levelRank["INFO"]
	}
	return &MissionLogger{repo: repo, minLevel: rank}
}

// WithFormat switches the echo between "text" and one JSON object per line
func (l *MissionLogger) WithFormat(format string) *MissionLogger {
	l.json = strings.EqualFold(format, "json")
	return l
}

func (l *MissionLogger) Log(level, message string, metadata map[string]interface{}) {
	level = strings.ToUpper(level)
	missionID := 0
	if id, ok := metadata["mission_id"].(int); ok {
		missionID = id
	}

	if l.repo != nil {
		if err := l.repo.Log(context.Background(), missionID, message, level, metadata); err != nil {
			log.Printf("failed to persist mission log: %v", err)
		}
	}

	if levelRank[level] < l.minLevel {
		return
	}
	if l.json {
		log.Print(jsonLine(level, message, metadata))
		return
	}
	if designation, ok := metadata["designation"].(string); ok && designation != "" {
		log.Printf("[%s] %s: %s", level, designation, message)
	} else {
		log.Printf("[%s] %s", level, message)
	}
}

func jsonLine(level, message string, metadata map[string]interface{}) string {
	entry := make(map[string]interface{}, len(metadata)+2)
	for k, v := range metadata {
		entry[k] = v
	}
	entry["level"] = level
	entry["message"] = message
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"level":%q,"message":%q}`, level, message)
	}
	return string(data)
}
