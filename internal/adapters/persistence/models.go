package persistence

import (
	"time"
)

// MissionSnapshotModel represents the mission_snapshots table: the latest read model of each mission
type MissionSnapshotModel struct {
	ID          int       `gorm:"column:id;primaryKey"`
	Type        string    `gorm:"column:type;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Designation string    `gorm:"column:designation"`
	Settlement  string    `gorm:"column:settlement;not null;index"`
	Phase       string    `gorm:"column:phase;not null"`
	Done        bool      `gorm:"column:done;not null;default:false"`
	Aborted     bool      `gorm:"column:aborted;not null;default:false"`
	Statuses    string    `gorm:"column:statuses;type:text"`             // JSON array as text
	Data        string    `gorm:"column:data;type:text;not null"`        // full MissionData as JSON
	MarsTime    float64   `gorm:"column:mars_time;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (MissionSnapshotModel) TableName() string {
	return "mission_snapshots"
}

// HistoricalEventModel represents the historical_events table
type HistoricalEventModel struct {
	ID          string    `gorm:"column:id;primaryKey;not null"`
	Type        string    `gorm:"column:type;not null;index"`
	MissionID   int       `gorm:"column:mission_id;not null;index"`
	MissionType string    `gorm:"column:mission_type"`
	Designation string    `gorm:"column:designation"`
	Cause       string    `gorm:"column:cause;type:text"`
	Who         string    `gorm:"column:who"`
	Settlement  string    `gorm:"column:settlement"`
	Latitude    float64   `gorm:"column:latitude"`
	Longitude   float64   `gorm:"column:longitude"`
	MarsTime    float64   `gorm:"column:mars_time;not null"`
	RecordedAt  time.Time `gorm:"column:recorded_at;not null"`
}

func (HistoricalEventModel) TableName() string {
	return "historical_events"
}

// MissionLogModel represents the mission_logs table
type MissionLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	MissionID int       `gorm:"column:mission_id;not null;index"`     // 0 for engine-wide entries
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	MarsTime  float64   `gorm:"column:mars_time;not null"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"`            // JSON as text
}

func (MissionLogModel) TableName() string {
	return "mission_logs"
}
