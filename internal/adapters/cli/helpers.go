package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/grpc"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/config"
)

const requestTimeout = 10 * time.Second

// connect dials the daemon and returns a context bounded by the request timeout
func connect() (*grpc.DaemonClient, context.Context, context.CancelFunc, error) {
	client, err := grpc.NewDaemonClient(socketPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	return client, ctx, cancel, nil
}

// parseMissionID reads a positional mission ID
func parseMissionID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid mission id %q", arg)
	}
	return id, nil
}

// loadUserConfig returns the stored preferences, or empty ones when none can be read
func loadUserConfig() *config.UserConfig {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return &config.UserConfig{}
	}
	cfg, err := handler.Load()
	if err != nil {
		return &config.UserConfig{}
	}
	return cfg
}

// resolveSettlement prefers the flag, then the user default. Empty means every settlement.
func resolveSettlement(flag string) string {
	if flag != "" {
		return flag
	}
	return loadUserConfig().DefaultSettlement
}

// resolveReviewer prefers the flag, then the user default
func resolveReviewer(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if name := loadUserConfig().DefaultReviewer; name != "" {
		return name, nil
	}
	return "", fmt.Errorf("no reviewer specified: use --reviewer, or set a default with 'marsmission config set-reviewer'")
}
