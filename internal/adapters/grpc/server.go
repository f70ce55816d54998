package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mission/commands"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mission/queries"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// Version is reported by Health
const Version = "0.1.0"

// MissionServer implements MissionServiceServer on top of the mediator
type MissionServer struct {
	mediator  mediator.Mediator
	world     *simulation.World
	ticks     *simulation.TickService
	startedAt time.Time
}

var _ MissionServiceServer = (*MissionServer)(nil)

// NewMissionServer creates the service. ticks may be nil when no scheduler runs.
func NewMissionServer(med mediator.Mediator, world *simulation.World, ticks *simulation.TickService) *MissionServer {
	return &MissionServer{mediator: med, world: world, ticks: ticks, startedAt: time.Now()}
}

// ListMissions lists missions
func (s *MissionServer) ListMissions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in ListMissionsRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.mediator.Send(ctx, &queries.ListMissionsQuery{Settlement: in.Settlement, IncludeDone: in.IncludeDone})
	if err != nil {
		return nil, toStatusError(err)
	}
	return reply(&ListMissionsResponse{Missions: resp.(*queries.ListMissionsResponse).Missions})
}

// GetMission returns one mission with its history
func (s *MissionServer) GetMission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in GetMissionRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.mediator.Send(ctx, &queries.GetMissionQuery{MissionID: in.MissionID})
	if err != nil {
		return nil, toStatusError(err)
	}
	view := resp.(*queries.MissionView)
	return reply(&MissionViewResponse{Mission: view.Mission, Events: eventInfos(view.Events), Live: view.Live})
}

// StartMission starts a mission for a person
func (s *MissionServer) StartMission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in StartMissionRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return s.command(ctx, &commands.StartMissionCommand{Person: in.Person, Type: in.Type})
}

// AbortMission aborts a mission on behalf of the player
func (s *MissionServer) AbortMission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in AbortMissionRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return s.command(ctx, &commands.AbortMissionCommand{MissionID: in.MissionID})
}

// ApprovePlan settles a pending plan
func (s *MissionServer) ApprovePlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in ApprovePlanRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return s.command(ctx, &commands.ApproveMissionPlanCommand{MissionID: in.MissionID, Reviewer: in.Reviewer, Approve: in.Approve})
}

// ScorePlan adds a reviewer's score to a pending plan
func (s *MissionServer) ScorePlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in ScorePlanRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return s.command(ctx, &commands.ScoreMissionPlanCommand{MissionID: in.MissionID, Reviewer: in.Reviewer, Score: in.Score})
}

// Health reports the daemon and simulation state
func (s *MissionServer) Health(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	health := &HealthResponse{
		Status:  "ok",
		Version: Version,
		Colony:  s.world.Name(),
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
	}
	s.world.Do(func() {
		now := s.world.Clock().Now()
		health.Millisols = now.Total()
		health.MarsTime = now.String()
		health.ActiveMissions = len(s.world.Manager().Missions())
	})
	if s.ticks != nil {
		health.Ticks = s.ticks.Ticks()
	}
	return reply(health)
}

func (s *MissionServer) command(ctx context.Context, cmd mediator.Request) (*structpb.Struct, error) {
	resp, err := s.mediator.Send(ctx, cmd)
	if err != nil {
		return nil, toStatusError(err)
	}
	return reply(resp.(*commands.MissionResult))
}

func reply(v interface{}) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatusError maps domain errors onto gRPC codes
func toStatusError(err error) error {
	var validation *shared.ValidationError
	var notFound *shared.MissionNotFoundError
	var review *shared.PlanReviewError
	var zero *shared.ZeroMissionProbabilityError
	switch {
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &review), errors.As(err, &zero):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, fmt.Sprintf("internal error: %v", err))
	}
}
