package queries

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

// MissionView is a mission's read model together with its recorded history
type MissionView struct {
	Mission *mission.MissionData
	Events  []mission.HistoricalEvent
	// Live is false when the mission has ended and was read back from storage
	Live bool
}
