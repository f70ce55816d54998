package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage marsmission configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (MM_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default settlement and reviewer) are stored in ~/.marsmission/config.json

Examples:
  marsmission config show
  marsmission config set-settlement "Alpha Base"
  marsmission config set-reviewer "Mae Jemison"`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetSettlementCommand())
	cmd.AddCommand(newConfigSetReviewerCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Println(cyan("marsmission Configuration"))
			fmt.Println("=========================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:        %s\n", userConfigHandler.GetConfigPath())
			fmt.Printf("  Default Settlement: %s\n", orNotSet(userCfg.DefaultSettlement))
			fmt.Printf("  Default Reviewer:   %s\n", orNotSet(userCfg.DefaultReviewer))

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:               %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:                %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:               %s\n", cfg.Database.Path)
			default:
				fmt.Printf("  Host:               %s\n", cfg.Database.Host)
				fmt.Printf("  Port:               %d\n", cfg.Database.Port)
				fmt.Printf("  Database:           %s\n", cfg.Database.Name)
				fmt.Printf("  User:               %s\n", cfg.Database.User)
			}
			fmt.Printf("  Max Connections:    %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Println("\nSimulation:")
			fmt.Printf("  Scenario:           %s\n", orDefault(cfg.Simulation.Scenario, "(built-in)"))
			fmt.Printf("  Seed:               %d\n", cfg.Simulation.Seed)
			fmt.Printf("  Millisols/Tick:     %.1f\n", cfg.Simulation.MillisolsPerTick)
			fmt.Printf("  Ticks/Second:       %.1f\n", cfg.Simulation.TicksPerSecond)
			fmt.Printf("  Max Ticks:          %d\n", cfg.Simulation.MaxTicks)
			fmt.Printf("  New Mission Chance: %.1f%%\n", cfg.Simulation.NewMissionChance)
			fmt.Printf("  Plan Review:        %t\n", cfg.Simulation.ReviewPlans)

			fmt.Println("\nDaemon:")
			fmt.Printf("  Socket Path:        %s\n", cfg.Daemon.SocketPath)
			fmt.Printf("  PID File:           %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Event Feed:         %s\n", orDefault(cfg.Daemon.WebsocketAddress, "(disabled)"))
			fmt.Printf("  Shutdown Timeout:   %s\n", cfg.Daemon.ShutdownTimeout)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:            %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Printf("  Endpoint:           %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:              %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:             %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:             %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

func newConfigSetSettlementCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-settlement <name>",
		Short: "Set the default settlement for mission listings",
		Long: `Set the settlement 'mission list' filters on when --settlement is omitted.
Pass an empty string to clear it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultSettlement(args[0]); err != nil {
				return fmt.Errorf("failed to set default settlement: %w", err)
			}

			fmt.Println("✓ Default settlement set")
			fmt.Printf("  Settlement: %s\n", orNotSet(args[0]))
			return nil
		},
	}

	return cmd
}

func newConfigSetReviewerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-reviewer <name>",
		Short: "Set the default plan reviewer",
		Long: `Set the person who signs plan decisions when --reviewer is omitted.
Pass an empty string to clear it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultReviewer(args[0]); err != nil {
				return fmt.Errorf("failed to set default reviewer: %w", err)
			}

			fmt.Println("✓ Default reviewer set")
			fmt.Printf("  Reviewer: %s\n", orNotSet(args[0]))
			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}

func orNotSet(s string) string {
	return orDefault(s, "(not set)")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
