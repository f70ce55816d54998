package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/grpc"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and responsive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := grpc.NewDaemonClient(socketPath)
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			health, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			fmt.Println(green("✓ Daemon is healthy"))
			fmt.Printf("  Status:          %s\n", health.Status)
			fmt.Printf("  Version:         %s\n", health.Version)
			fmt.Printf("  Colony:          %s\n", health.Colony)
			fmt.Printf("  Mars Time:       %s\n", health.MarsTime)
			fmt.Printf("  Ticks:           %d\n", health.Ticks)
			fmt.Printf("  Active Missions: %d\n", health.ActiveMissions)
			fmt.Printf("  Uptime:          %s\n", health.Uptime)

			return nil
		},
	}

	return cmd
}
