package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/config"
)

// Server exposes the global registry over HTTP
type Server struct {
	addr string
	path string
}

// NewServer creates a metrics server from the metrics configuration
func NewServer(cfg config.MetricsConfig) *Server {
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	return &Server{addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), path: path}
}

// Addr returns the listen address
func (s *Server) Addr() string { return s.addr }

// Handler returns the HTTP handler serving the registry
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if Registry != nil {
		mux.Handle(s.path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	}
	return mux
}

// Serve listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context) error {
	if Registry == nil {
		return fmt.Errorf("metrics registry not initialized")
	}

	srv := &http.Server{Addr: s.addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
