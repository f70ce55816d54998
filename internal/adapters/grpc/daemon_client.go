package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mars-sim/mars-sim-sub009/internal/application/mission/commands"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

// DaemonClient talks to the daemon's MissionService over its unix socket
type DaemonClient struct {
	conn *grpc.ClientConn
}

// NewDaemonClient creates a client. The connection is made lazily on the first call.
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &DaemonClient{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *DaemonClient) call(ctx context.Context, method string, req, resp interface{}) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return err
	}
	return fromStruct(out, resp)
}

// ListMissions lists missions, optionally for one settlement and including finished ones
func (c *DaemonClient) ListMissions(ctx context.Context, settlement string, includeDone bool) ([]*mission.MissionData, error) {
	var resp ListMissionsResponse
	if err := c.call(ctx, "ListMissions", &ListMissionsRequest{Settlement: settlement, IncludeDone: includeDone}, &resp); err != nil {
		return nil, err
	}
	return resp.Missions, nil
}

// GetMission fetches one mission with its history
func (c *DaemonClient) GetMission(ctx context.Context, id int) (*MissionViewResponse, error) {
	var resp MissionViewResponse
	if err := c.call(ctx, "GetMission", &GetMissionRequest{MissionID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartMission starts a mission; an empty kind lets the person choose
func (c *DaemonClient) StartMission(ctx context.Context, person, kind string) (*commands.MissionResult, error) {
	var resp commands.MissionResult
	if err := c.call(ctx, "StartMission", &StartMissionRequest{Person: person, Type: kind}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AbortMission aborts a mission
func (c *DaemonClient) AbortMission(ctx context.Context, id int) (*commands.MissionResult, error) {
	var resp commands.MissionResult
	if err := c.call(ctx, "AbortMission", &AbortMissionRequest{MissionID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ApprovePlan approves or rejects a pending plan
func (c *DaemonClient) ApprovePlan(ctx context.Context, id int, reviewer string, approve bool) (*commands.MissionResult, error) {
	var resp commands.MissionResult
	req := &ApprovePlanRequest{MissionID: id, Reviewer: reviewer, Approve: approve}
	if err := c.call(ctx, "ApprovePlan", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ScorePlan scores a pending plan as one reviewer
func (c *DaemonClient) ScorePlan(ctx context.Context, id int, reviewer string, score float64) (*commands.MissionResult, error) {
	var resp commands.MissionResult
	req := &ScorePlanRequest{MissionID: id, Reviewer: reviewer, Score: score}
	if err := c.call(ctx, "ScorePlan", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks that the daemon is up
func (c *DaemonClient) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.call(ctx, "Health", &HealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
