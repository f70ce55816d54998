package grpc

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// RPCMetrics receives one observation per call; metrics.APIMetricsCollector implements it
type RPCMetrics interface {
	RecordRPC(method, code string, duration float64)
}

// DaemonServer serves the MissionService on a unix socket
type DaemonServer struct {
	listener   net.Listener
	server     *grpc.Server
	socketPath string
}

// NewDaemonServer binds the socket and registers the service. metrics may be nil.
func NewDaemonServer(service MissionServiceServer, socketPath string, metrics RPCMetrics) (*DaemonServer, error) {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}
	// Remove existing socket file if present
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Owner only
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	var opts []grpc.ServerOption
	if metrics != nil {
		opts = append(opts, grpc.UnaryInterceptor(metricsInterceptor(metrics)))
	}
	server := grpc.NewServer(opts...)
	RegisterMissionServiceServer(server, service)

	return &DaemonServer{listener: listener, server: server, socketPath: socketPath}, nil
}

// SocketPath returns the bound socket
func (s *DaemonServer) SocketPath() string { return s.socketPath }

// Serve blocks until ctx is cancelled, then stops gracefully
func (s *DaemonServer) Serve(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.server.GracefulStop()
		_ = os.Remove(s.socketPath)
		return nil
	}
}

func metricsInterceptor(metrics RPCMetrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		metrics.RecordRPC(info.FullMethod, status.Code(err).String(), time.Since(start).Seconds())
		return resp, err
	}
}
