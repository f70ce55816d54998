package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/mars-sim/mars-sim-sub009/internal/application/common"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// StartMissionCommand asks a person to start a mission. An empty Type lets the person pick one by
// the weighted draw the simulation itself uses.
type StartMissionCommand struct {
	Person string
	Type   string
}

// StartMissionHandler handles the StartMission command
type StartMissionHandler struct {
	world *simulation.World
}

// NewStartMissionHandler creates a new StartMissionHandler
func NewStartMissionHandler(world *simulation.World) *StartMissionHandler {
	return &StartMissionHandler{world: world}
}

// Handle executes the StartMission command
func (h *StartMissionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StartMissionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartMissionCommand")
	}
	if cmd.Person == "" {
		return nil, shared.NewValidationError("person", "is required")
	}

	var result *MissionResult
	var err error
	h.world.Do(func() {
		result, err = h.start(cmd)
	})
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log("INFO", "Mission started on request", map[string]interface{}{
		"mission_id": result.MissionID,
		"type":       result.Type,
		"person":     cmd.Person,
	})
	return result, nil
}

func (h *StartMissionHandler) start(cmd *StartMissionCommand) (*MissionResult, error) {
	person := h.world.Person(cmd.Person)
	if person == nil {
		return nil, shared.NewValidationError("person", fmt.Sprintf("unknown person %q", cmd.Person))
	}
	mgr := h.world.Manager()
	if current := mgr.MissionFor(person); current != nil {
		return nil, shared.NewValidationError("person", fmt.Sprintf("%s is already on mission %d", person.Name(), current.ID()))
	}

	var m *mission.Mission
	var err error
	if cmd.Type == "" {
		if mgr.TotalMissionProbability(person) <= 0 {
			return nil, shared.NewZeroMissionProbabilityError(person.Name())
		}
		m, err = mgr.NewMission(person)
	} else {
		m, err = mgr.StartMission(person, mission.Type(strings.ToUpper(cmd.Type)))
	}
	if err != nil {
		return nil, err
	}
	return resultOf(m), nil
}
