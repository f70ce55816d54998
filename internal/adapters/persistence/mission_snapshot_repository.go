package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

// GormMissionSnapshotRepository implements mission.SnapshotRepository using GORM
type GormMissionSnapshotRepository struct {
	db *gorm.DB
}

// NewGormMissionSnapshotRepository creates a new GORM mission snapshot repository
func NewGormMissionSnapshotRepository(db *gorm.DB) *GormMissionSnapshotRepository {
	return &GormMissionSnapshotRepository{db: db}
}

// Save inserts or replaces the snapshot of a mission
func (r *GormMissionSnapshotRepository) Save(ctx context.Context, data *mission.MissionData) error {
	model, err := r.snapshotToModel(data)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save mission snapshot %d: %w", data.ID, err)
	}
	return nil
}

// SaveAll stores many snapshots in one transaction
func (r *GormMissionSnapshotRepository) SaveAll(ctx context.Context, snapshots []*mission.MissionData) error {
	if len(snapshots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, data := range snapshots {
			model, err := r.snapshotToModel(data)
			if err != nil {
				return err
			}
			if err := tx.Save(model).Error; err != nil {
				return fmt.Errorf("failed to save mission snapshot %d: %w", data.ID, err)
			}
		}
		return nil
	})
}

// FindByID returns nil, nil when the mission was never saved
func (r *GormMissionSnapshotRepository) FindByID(ctx context.Context, id int) (*mission.MissionData, error) {
	var model MissionSnapshotModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find mission snapshot %d: %w", id, err)
	}
	return r.modelToSnapshot(&model)
}

// List returns snapshots ordered by mission ID, optionally for one settlement and without finished missions
func (r *GormMissionSnapshotRepository) List(ctx context.Context, settlement string, includeDone bool) ([]*mission.MissionData, error) {
	var models []MissionSnapshotModel
	query := r.db.WithContext(ctx)
	if settlement != "" {
		query = query.Where("settlement = ?", settlement)
	}
	if !includeDone {
		query = query.Where("done = ?", false)
	}
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list mission snapshots: %w", err)
	}

	out := make([]*mission.MissionData, 0, len(models))
	for i := range models {
		data, err := r.modelToSnapshot(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// LastMissionID returns the highest stored mission ID, so a restarted daemon keeps numbering
func (r *GormMissionSnapshotRepository) LastMissionID(ctx context.Context) (int, error) {
	var last *int
	if err := r.db.WithContext(ctx).Model(&MissionSnapshotModel{}).Select("MAX(id)").Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("failed to read last mission id: %w", err)
	}
	if last == nil {
		return 0, nil
	}
	return *last, nil
}

func (r *GormMissionSnapshotRepository) snapshotToModel(data *mission.MissionData) (*MissionSnapshotModel, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mission %d: %w", data.ID, err)
	}
	statuses, err := json.Marshal(data.Statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal statuses of mission %d: %w", data.ID, err)
	}
	marsTime := data.FiledAt
	if data.CompletedAt != nil {
		marsTime = *data.CompletedAt
	}
	return &MissionSnapshotModel{
		ID:          data.ID,
		Type:        data.Type,
		Name:        data.Name,
		Designation: data.Designation,
		Settlement:  data.Settlement,
		Phase:       data.Phase,
		Done:        data.Done,
		Aborted:     data.Aborted,
		Statuses:    string(statuses),
		Data:        string(payload),
		MarsTime:    marsTime,
		UpdatedAt:   time.Now(),
	}, nil
}

func (r *GormMissionSnapshotRepository) modelToSnapshot(model *MissionSnapshotModel) (*mission.MissionData, error) {
	var data mission.MissionData
	if err := json.Unmarshal([]byte(model.Data), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mission snapshot %d: %w", model.ID, err)
	}
	return &data, nil
}
