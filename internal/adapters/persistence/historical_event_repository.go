package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// GormHistoricalEventRepository implements mission.EventRepository using GORM
type GormHistoricalEventRepository struct {
	db *gorm.DB
}

// NewGormHistoricalEventRepository creates a new GORM historical event repository
func NewGormHistoricalEventRepository(db *gorm.DB) *GormHistoricalEventRepository {
	return &GormHistoricalEventRepository{db: db}
}

// Append stores an event. Events are never updated.
func (r *GormHistoricalEventRepository) Append(ctx context.Context, event mission.HistoricalEvent) error {
	model := &HistoricalEventModel{
		ID:          event.ID,
		Type:        string(event.Type),
		MissionID:   event.MissionID,
		MissionType: string(event.MissionType),
		Designation: event.Designation,
		Cause:       event.Cause,
		Who:         event.Who,
		Settlement:  event.Settlement,
		Latitude:    event.Location.Latitude,
		Longitude:   event.Location.Longitude,
		MarsTime:    event.Time.Total(),
		RecordedAt:  time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append historical event %s: %w", event.Type, err)
	}
	return nil
}

// ListForMission returns a mission's events in the order they happened
func (r *GormHistoricalEventRepository) ListForMission(ctx context.Context, missionID int) ([]mission.HistoricalEvent, error) {
	var models []HistoricalEventModel
	err := r.db.WithContext(ctx).
		Where("mission_id = ?", missionID).
		Order("mars_time ASC, recorded_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events of mission %d: %w", missionID, err)
	}

	events := make([]mission.HistoricalEvent, len(models))
	for i, model := range models {
		events[i] = mission.HistoricalEvent{
			ID:          model.ID,
			Type:        mission.HistoricalEventType(model.Type),
			MissionID:   model.MissionID,
			MissionType: mission.Type(model.MissionType),
			Designation: model.Designation,
			Cause:       model.Cause,
			Who:         model.Who,
			Settlement:  model.Settlement,
			Location:    shared.Coordinates{Latitude: model.Latitude, Longitude: model.Longitude},
			Time:        shared.NewMarsTime(model.MarsTime),
		}
	}
	return events, nil
}

// EventSink adapts an EventRepository to the engine's fire-and-forget mission.EventRecorder.
// Write failures are reported to the logger rather than the caller.
type EventSink struct {
	repo   mission.EventRepository
	logger mission.Logger
}

// NewEventSink wraps repo. logger may be nil.
func NewEventSink(repo mission.EventRepository, logger mission.Logger) *EventSink {
	return &EventSink{repo: repo, logger: logger}
}

func (s *EventSink) RecordEvent(event mission.HistoricalEvent) {
	if err := s.repo.Append(context.Background(), event); err != nil && s.logger != nil {
		s.logger.Log("ERROR", "Failed to persist historical event", map[string]interface{}{
			"event_type": string(event.Type),
			"mission_id": event.MissionID,
			"error":      err.Error(),
		})
	}
}
