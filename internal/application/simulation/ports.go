package simulation

import (
	"time"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// TickReport summarises one pulse of the world
type TickReport struct {
	Tick     int64
	Time     shared.MarsTime
	Duration time.Duration
	// Missions holds the live missions plus those that ended during this pulse
	Missions []*mission.MissionData
	Started  int
	Ended    int
	Reviews  int
}

// TickObserver is told about every pulse, after the world lock is released
type TickObserver interface {
	ObserveTick(report TickReport)
}
