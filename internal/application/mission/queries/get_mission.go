package queries

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// GetMissionQuery fetches one mission by ID
type GetMissionQuery struct {
	MissionID int
}

// GetMissionHandler handles the GetMission query
type GetMissionHandler struct {
	world     *simulation.World
	snapshots mission.SnapshotRepository
	events    mission.EventRepository
}

// NewGetMissionHandler creates a new GetMissionHandler. Both repositories may be nil, in which
// case only live missions are found and no history is attached.
func NewGetMissionHandler(world *simulation.World, snapshots mission.SnapshotRepository, events mission.EventRepository) *GetMissionHandler {
	return &GetMissionHandler{world: world, snapshots: snapshots, events: events}
}

// Handle executes the GetMission query
func (h *GetMissionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetMissionQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetMissionQuery")
	}

	view := &MissionView{}
	h.world.Do(func() {
		if m := h.world.Manager().Mission(query.MissionID); m != nil {
			view.Mission = m.ToData()
			view.Live = true
		}
	})

	if view.Mission == nil && h.snapshots != nil {
		data, err := h.snapshots.FindByID(ctx, query.MissionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load mission %d: %w", query.MissionID, err)
		}
		view.Mission = data
	}
	if view.Mission == nil {
		return nil, shared.NewMissionNotFoundError(query.MissionID)
	}

	if h.events != nil {
		events, err := h.events.ListForMission(ctx, query.MissionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load history of mission %d: %w", query.MissionID, err)
		}
		view.Events = events
	}
	return view, nil
}
