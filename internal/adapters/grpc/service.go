package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "marsmission.MissionService"

// MissionServiceServer is the daemon's RPC surface
type MissionServiceServer interface {
	ListMissions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetMission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	StartMission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AbortMission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ApprovePlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ScorePlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Health(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(MissionServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var missionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MissionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListMissions", Handler: unaryHandler("ListMissions", MissionServiceServer.ListMissions)},
		{MethodName: "GetMission", Handler: unaryHandler("GetMission", MissionServiceServer.GetMission)},
		{MethodName: "StartMission", Handler: unaryHandler("StartMission", MissionServiceServer.StartMission)},
		{MethodName: "AbortMission", Handler: unaryHandler("AbortMission", MissionServiceServer.AbortMission)},
		{MethodName: "ApprovePlan", Handler: unaryHandler("ApprovePlan", MissionServiceServer.ApprovePlan)},
		{MethodName: "ScorePlan", Handler: unaryHandler("ScorePlan", MissionServiceServer.ScorePlan)},
		{MethodName: "Health", Handler: unaryHandler("Health", MissionServiceServer.Health)},
	},
	Metadata: "marsmission/mission_service",
}

// RegisterMissionServiceServer registers srv on a gRPC server
func RegisterMissionServiceServer(s grpc.ServiceRegistrar, srv MissionServiceServer) {
	s.RegisterService(&missionServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler(method string, call unaryMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(MissionServiceServer), ctx, req.(*structpb.Struct))
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		return interceptor(ctx, in, info, handler)
	}
}
