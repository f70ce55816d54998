package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath string
	configPath string
	verbose    bool
	noColor    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marsmission",
		Short: "Mars mission CLI - Inspect and steer colony missions",
		Long: `marsmission talks to the mission daemon over its Unix socket, or runs a
colony in-process with the simulate command.

Examples:
  marsmission mission list --settlement "Alpha Base"
  marsmission mission show 3
  marsmission mission start --person "Ada Lovelace" --type COLLECT_ICE
  marsmission plan approve 3 --reviewer "Mae Jemison"
  marsmission simulate --ticks 500 --seed 7
  marsmission daemon status`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml or ~/.marsmission/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable coloured output")

	rootCmd.AddCommand(NewMissionCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewDaemonCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("MARSMISSION_SOCKET"); path != "" {
		return path
	}
	return "/tmp/marsmission-daemon.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
