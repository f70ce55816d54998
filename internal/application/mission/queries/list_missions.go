package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

// ListMissionsQuery lists missions, optionally for one starting settlement
type ListMissionsQuery struct {
	Settlement  string
	IncludeDone bool
}

// ListMissionsResponse holds missions ordered by ID
type ListMissionsResponse struct {
	Missions []*mission.MissionData
}

// ListMissionsHandler handles the ListMissions query
type ListMissionsHandler struct {
	world     *simulation.World
	snapshots mission.SnapshotRepository
}

// NewListMissionsHandler creates a new ListMissionsHandler. Finished missions are only listed
// when snapshots is not nil.
func NewListMissionsHandler(world *simulation.World, snapshots mission.SnapshotRepository) *ListMissionsHandler {
	return &ListMissionsHandler{world: world, snapshots: snapshots}
}

// Handle executes the ListMissions query
func (h *ListMissionsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListMissionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListMissionsQuery")
	}

	var live []*mission.MissionData
	h.world.Do(func() {
		missions := h.world.Manager().Missions()
		if query.Settlement != "" {
			missions = h.world.Manager().MissionsForSettlement(query.Settlement)
		}
		for _, m := range missions {
			live = append(live, m.ToData())
		}
	})

	seen := make(map[int]bool, len(live))
	for _, data := range live {
		seen[data.ID] = true
	}
	if query.IncludeDone && h.snapshots != nil {
		stored, err := h.snapshots.List(ctx, query.Settlement, true)
		if err != nil {
			return nil, fmt.Errorf("failed to list stored missions: %w", err)
		}
		for _, data := range stored {
			if !seen[data.ID] && data.Done {
				live = append(live, data)
				seen[data.ID] = true
			}
		}
	}

	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })
	return &ListMissionsResponse{Missions: live}, nil
}
