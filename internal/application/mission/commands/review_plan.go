package commands

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub009/internal/application/common"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// ApproveMissionPlanCommand settles a pending plan outright
type ApproveMissionPlanCommand struct {
	MissionID int
	Reviewer  string
	Approve   bool
}

// ScoreMissionPlanCommand adds one reviewer's score (0..100) to a pending plan
type ScoreMissionPlanCommand struct {
	MissionID int
	Reviewer  string
	Score     float64
}

// ReviewPlanHandler handles both plan review commands
type ReviewPlanHandler struct {
	world *simulation.World
}

// NewReviewPlanHandler creates a new ReviewPlanHandler
func NewReviewPlanHandler(world *simulation.World) *ReviewPlanHandler {
	return &ReviewPlanHandler{world: world}
}

// Handle executes ApproveMissionPlan or ScoreMissionPlan
func (h *ReviewPlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	var result *MissionResult
	var err error

	switch cmd := request.(type) {
	case *ApproveMissionPlanCommand:
		if cmd.Reviewer == "" {
			return nil, shared.NewValidationError("reviewer", "is required")
		}
		h.world.Do(func() {
			if err = h.world.Manager().ApproveMissionPlan(cmd.MissionID, cmd.Reviewer, cmd.Approve); err == nil {
				result = resultOf(h.world.Manager().Mission(cmd.MissionID))
			}
		})
	case *ScoreMissionPlanCommand:
		h.world.Do(func() {
			reviewer := h.world.Person(cmd.Reviewer)
			if reviewer == nil {
				err = shared.NewValidationError("reviewer", fmt.Sprintf("unknown person %q", cmd.Reviewer))
				return
			}
			if err = h.world.Manager().ScoreMissionPlan(cmd.MissionID, reviewer, cmd.Score); err == nil {
				result = resultOf(h.world.Manager().Mission(cmd.MissionID))
			}
		})
	default:
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log("INFO", "Mission plan reviewed", map[string]interface{}{
		"mission_id":  result.MissionID,
		"plan_status": result.PlanStatus,
	})
	return result, nil
}
