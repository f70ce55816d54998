package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/config"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/pidfile"
)

// NewDaemonCommand creates the daemon command with subcommands
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Inspect or stop the mission daemon",
		Long: `Inspect or stop the mission daemon through its PID file.
Start it with the marsmission-daemon binary.`,
	}

	cmd.AddCommand(newDaemonStatusCommand())
	cmd.AddCommand(newDaemonStopCommand())

	return cmd
}

func newDaemonStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the daemon is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(configPath)
			pid, err := pidfile.New(cfg.Daemon.PIDFile).Running()
			if errors.Is(err, pidfile.ErrNotRunning) {
				fmt.Println(yellow("✗ Daemon is not running"))
				fmt.Printf("  PID file: %s\n", cfg.Daemon.PIDFile)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Println(green("✓ Daemon is running"))
			fmt.Printf("  PID:      %d\n", pid)
			fmt.Printf("  PID file: %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Socket:   %s\n", socketPath)
			return nil
		},
	}

	return cmd
}

func newDaemonStopCommand() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon gracefully",
		Long: `Send SIGTERM to the daemon and wait for it to exit. The daemon persists a final
snapshot of every live mission before it stops.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(configPath)
			pf := pidfile.New(cfg.Daemon.PIDFile)
			pid, err := pf.Running()
			if err != nil {
				return err
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find daemon process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to signal daemon: %w", err)
			}

			if wait <= 0 {
				wait = cfg.Daemon.ShutdownTimeout + 5*time.Second
			}
			deadline := time.Now().Add(wait)
			for time.Now().Before(deadline) {
				if _, err := pf.Running(); errors.Is(err, pidfile.ErrNotRunning) {
					fmt.Printf("✓ Daemon stopped (PID %d)\n", pid)
					return nil
				}
				time.Sleep(200 * time.Millisecond)
			}
			return fmt.Errorf("daemon (PID %d) did not stop within %s", pid, wait)
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "How long to wait for the exit (default: shutdown timeout + 5s)")

	return cmd
}
