package commands

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

// MissionResult is what every mission command returns: the mission's state after the command
type MissionResult struct {
	MissionID   int      `json:"mission_id"`
	Type        string   `json:"type"`
	Designation string   `json:"designation,omitempty"`
	Phase       string   `json:"phase"`
	Done        bool     `json:"done"`
	Statuses    []string `json:"statuses,omitempty"`
	PlanStatus  string   `json:"plan_status,omitempty"`
}

func resultOf(m *mission.Mission) *MissionResult {
	data := m.ToData()
	r := &MissionResult{
		MissionID:   data.ID,
		Type:        data.Type,
		Designation: data.Designation,
		Phase:       data.Phase,
		Done:        data.Done,
		Statuses:    data.Statuses,
	}
	if data.Plan != nil {
		r.PlanStatus = data.Plan.Status
	}
	return r
}
