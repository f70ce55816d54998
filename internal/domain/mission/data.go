package mission

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// MissionData is the read model of a mission, used by queries, persistence and the event feed
type MissionData struct {
	ID                int                 `json:"id"`
	Type              string              `json:"type"`
	Name              string              `json:"name"`
	Designation       string              `json:"designation"`
	Settlement        string              `json:"settlement"`
	Starter           string              `json:"starter"`
	Phase             string              `json:"phase"`
	PhaseDescription  string              `json:"phase_description"`
	PhaseEnded        bool                `json:"phase_ended"`
	Priority          int                 `json:"priority"`
	Capacity          int                 `json:"capacity"`
	MinMembers        int                 `json:"min_members"`
	Members           []string            `json:"members"`
	Statuses          []string            `json:"statuses"`
	Lifecycle         string              `json:"lifecycle"`
	Done              bool                `json:"done"`
	Aborted           bool                `json:"aborted"`
	FiledAt           float64             `json:"filed_at"`
	EmbarkedAt        *float64            `json:"embarked_at,omitempty"`
	CompletedAt       *float64            `json:"completed_at,omitempty"`
	Plan              *PlanData           `json:"plan,omitempty"`
	Log               []LogEntry          `json:"log"`
	Vehicle           string              `json:"vehicle,omitempty"`
	TravelStatus      string              `json:"travel_status,omitempty"`
	Navpoints         []NavPointData      `json:"navpoints,omitempty"`
	NextNavpoint      int                 `json:"next_navpoint"`
	TotalDistance     float64             `json:"total_distance_km"`
	RemainingDistance float64             `json:"remaining_distance_km"`
	DistanceTravelled float64             `json:"distance_travelled_km"`
	Location          *shared.Coordinates `json:"location,omitempty"`
	Details           map[string]string   `json:"details,omitempty"`
}

// NavPointData is the read model of a navpoint
type NavPointData struct {
	Description string             `json:"description"`
	Settlement  string             `json:"settlement,omitempty"`
	Location    shared.Coordinates `json:"location"`
	DistanceKm  float64            `json:"distance_km"`
}

// DataContributor lets a behaviour add its own fields to the read model
type DataContributor interface {
	ContributeData(data *MissionData)
}

// ToData builds the read model of the mission
func (m *Mission) ToData() *MissionData {
	data := &MissionData{
		ID:               m.id,
		Type:             string(m.mtype),
		Name:             m.name,
		Designation:      m.designation,
		Settlement:       m.settlement,
		Starter:          m.starterName(),
		Phase:            m.phase.Name(),
		PhaseDescription: m.phaseDescription,
		PhaseEnded:       m.phaseEnded,
		Priority:         m.priority,
		Capacity:         m.capacity,
		MinMembers:       m.minMembers,
		Statuses:         m.statuses.Names(),
		Lifecycle:        string(m.lifecycle.Status()),
		Done:             m.done,
		Aborted:          m.aborted,
		FiledAt:          m.lifecycle.FiledAt().Total(),
		Log:              m.log.Entries(),
		NextNavpoint:     -1,
	}
	for _, w := range m.members {
		data.Members = append(data.Members, w.Name())
	}
	if t := m.lifecycle.EmbarkedAt(); t != nil {
		v := t.Total()
		data.EmbarkedAt = &v
	}
	if t := m.lifecycle.CompletedAt(); t != nil {
		v := t.Total()
		data.CompletedAt = &v
	}
	if m.plan != nil {
		data.Plan = m.plan.ToData()
	}
	if c, ok := m.behavior.(DataContributor); ok {
		c.ContributeData(data)
	}
	return data
}
