package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

// Every MissionService message travels as a structpb.Struct; these are their JSON shapes.

type ListMissionsRequest struct {
	Settlement  string `json:"settlement,omitempty"`
	IncludeDone bool   `json:"include_done,omitempty"`
}

type ListMissionsResponse struct {
	Missions []*mission.MissionData `json:"missions"`
}

type GetMissionRequest struct {
	MissionID int `json:"mission_id"`
}

type MissionViewResponse struct {
	Mission *mission.MissionData `json:"mission"`
	Events  []EventInfo          `json:"events"`
	Live    bool                 `json:"live"`
}

// EventInfo is a historical event on the wire
type EventInfo struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Cause     string  `json:"cause,omitempty"`
	Who       string  `json:"who,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Millisols float64 `json:"millisols"`
}

type StartMissionRequest struct {
	Person string `json:"person"`
	Type   string `json:"type,omitempty"`
}

type AbortMissionRequest struct {
	MissionID int `json:"mission_id"`
}

type ApprovePlanRequest struct {
	MissionID int    `json:"mission_id"`
	Reviewer  string `json:"reviewer"`
	Approve   bool   `json:"approve"`
}

type ScorePlanRequest struct {
	MissionID int     `json:"mission_id"`
	Reviewer  string  `json:"reviewer"`
	Score     float64 `json:"score"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	Colony         string  `json:"colony"`
	Millisols      float64 `json:"millisols"`
	MarsTime       string  `json:"mars_time"`
	Ticks          int64   `json:"ticks"`
	ActiveMissions int     `json:"active_missions"`
	Uptime         string  `json:"uptime"`
}

// toStruct encodes a message through its JSON form
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return structpb.NewStruct(fields)
}

// fromStruct decodes a message into v
func fromStruct(s *structpb.Struct, v interface{}) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}

func eventInfos(events []mission.HistoricalEvent) []EventInfo {
	out := make([]EventInfo, 0, len(events))
	for _, e := range events {
		out = append(out, EventInfo{
			ID:        e.ID,
			Type:      string(e.Type),
			Cause:     e.Cause,
			Who:       e.Who,
			Latitude:  e.Location.Latitude,
			Longitude: e.Location.Longitude,
			Millisols: e.Time.Total(),
		})
	}
	return out
}
