package commands

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub009/internal/application/common"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// AbortMissionCommand aborts a live mission on behalf of the player
type AbortMissionCommand struct {
	MissionID int
}

// AbortMissionHandler handles the AbortMission command
type AbortMissionHandler struct {
	world *simulation.World
}

// NewAbortMissionHandler creates a new AbortMissionHandler
func NewAbortMissionHandler(world *simulation.World) *AbortMissionHandler {
	return &AbortMissionHandler{world: world}
}

// Handle executes the AbortMission command. A travelling mission heads home before it ends,
// so the result may still show it under way.
func (h *AbortMissionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AbortMissionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AbortMissionCommand")
	}

	var result *MissionResult
	var err error
	h.world.Do(func() {
		m := h.world.Manager().Mission(cmd.MissionID)
		if m == nil {
			err = shared.NewMissionNotFoundError(cmd.MissionID)
			return
		}
		m.AbortByPlayer()
		result = resultOf(m)
	})
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log("INFO", "Mission aborted by player", map[string]interface{}{
		"mission_id": cmd.MissionID,
	})
	return result, nil
}
