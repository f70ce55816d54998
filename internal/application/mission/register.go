package mission

import (
	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mission/commands"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mission/queries"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	domain "github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

// RegisterHandlers wires every mission command and query into m. The repositories may be nil.
func RegisterHandlers(m mediator.Mediator, world *simulation.World, snapshots domain.SnapshotRepository, events domain.EventRepository) error {
	review := commands.NewReviewPlanHandler(world)
	for _, register := range []func() error{
		func() error {
			return mediator.RegisterHandler[*commands.StartMissionCommand](m, commands.NewStartMissionHandler(world))
		},
		func() error {
			return mediator.RegisterHandler[*commands.AbortMissionCommand](m, commands.NewAbortMissionHandler(world))
		},
		func() error { return mediator.RegisterHandler[*commands.ApproveMissionPlanCommand](m, review) },
		func() error { return mediator.RegisterHandler[*commands.ScoreMissionPlanCommand](m, review) },
		func() error {
			return mediator.RegisterHandler[*queries.ListMissionsQuery](m, queries.NewListMissionsHandler(world, snapshots))
		},
		func() error {
			return mediator.RegisterHandler[*queries.GetMissionQuery](m, queries.NewGetMissionHandler(world, snapshots, events))
		},
	} {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
