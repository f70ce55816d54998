package websocket

import (
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

const (
	messageEvent = "historical_event"
	messageTick  = "tick"
)

// message is the JSON envelope every feed frame is sent in
type message struct {
	Type  string        `json:"type"`
	Event *eventPayload `json:"event,omitempty"`
	Tick  *tickPayload  `json:"tick,omitempty"`
}

type eventPayload struct {
	ID          string  `json:"id"`
	EventType   string  `json:"event_type"`
	MissionID   int     `json:"mission_id"`
	MissionType string  `json:"mission_type"`
	Designation string  `json:"designation,omitempty"`
	Cause       string  `json:"cause,omitempty"`
	Who         string  `json:"who,omitempty"`
	Settlement  string  `json:"settlement,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Millisols   float64 `json:"millisols"`
}

type tickPayload struct {
	Tick      int64   `json:"tick"`
	Millisols float64 `json:"millisols"`
	Active    int     `json:"active"`
	Started   int     `json:"started"`
	Ended     int     `json:"ended"`
	Reviews   int     `json:"reviews"`
}

func eventMessage(e mission.HistoricalEvent) message {
	return message{Type: messageEvent, Event: &eventPayload{
		ID:          e.ID,
		EventType:   string(e.Type),
		MissionID:   e.MissionID,
		MissionType: e.MissionType.String(),
		Designation: e.Designation,
		Cause:       e.Cause,
		Who:         e.Who,
		Settlement:  e.Settlement,
		Latitude:    e.Location.Latitude,
		Longitude:   e.Location.Longitude,
		Millisols:   e.Time.Total(),
	}}
}

func tickMessage(r simulation.TickReport) message {
	active := 0
	for _, m := range r.Missions {
		if !m.Done {
			active++
		}
	}
	return message{Type: messageTick, Tick: &tickPayload{
		Tick:      r.Tick,
		Millisols: r.Time.Total(),
		Active:    active,
		Started:   r.Started,
		Ended:     r.Ended,
		Reviews:   r.Reviews,
	}}
}
