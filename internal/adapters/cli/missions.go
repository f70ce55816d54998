package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/config"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/database"
)

// NewMissionCommand creates the mission command with subcommands
func NewMissionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mission",
		Aliases: []string{"missions"},
		Short:   "Inspect and steer missions",
		Long: `Inspect and steer the missions of the running colony.

Examples:
  marsmission mission list
  marsmission mission list --settlement "Alpha Base" --all
  marsmission mission show 3
  marsmission mission start --person "Ada Lovelace" --type TRADE
  marsmission mission abort 3
  marsmission mission logs 3 --level ERROR`,
	}

	cmd.AddCommand(newMissionListCommand())
	cmd.AddCommand(newMissionShowCommand())
	cmd.AddCommand(newMissionStartCommand())
	cmd.AddCommand(newMissionAbortCommand())
	cmd.AddCommand(newMissionLogsCommand())

	return cmd
}

func newMissionListCommand() *cobra.Command {
	var (
		settlement string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List missions",
		Long: `List live missions, optionally filtered by settlement.

Without --settlement the default settlement from 'marsmission config set-settlement'
is used; with neither, every settlement is listed. --all adds missions that have ended.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cancel, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()
			defer cancel()

			missions, err := client.ListMissions(ctx, resolveSettlement(settlement), all)
			if err != nil {
				return fmt.Errorf("failed to list missions: %w", err)
			}

			writeMissionTable(os.Stdout, missions)
			return nil
		},
	}

	cmd.Flags().StringVarP(&settlement, "settlement", "s", "", "Only missions of this settlement")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include missions that have ended")

	return cmd
}

func newMissionShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <mission-id>",
		Short: "Show one mission with its log and historical events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMissionID(args[0])
			if err != nil {
				return err
			}

			client, ctx, cancel, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()
			defer cancel()

			view, err := client.GetMission(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get mission: %w", err)
			}

			writeMissionDetail(os.Stdout, view)
			return nil
		},
	}

	return cmd
}

func newMissionStartCommand() *cobra.Command {
	var (
		person string
		kind   string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a mission on behalf of a person",
		Long: `Start a mission with the given person as its starter.

Without --type the person picks a kind the way the colony would, weighted by the
probability of each kind for them.

Kinds: TRADE, DELIVERY, MINING, COLLECT_ICE, COLLECT_REGOLITH, EMERGENCY_SUPPLY,
CONSTRUCTION, BUILDING_CONSTRUCTION`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cancel, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()
			defer cancel()

			result, err := client.StartMission(ctx, person, strings.ToUpper(kind))
			if err != nil {
				return fmt.Errorf("failed to start mission: %w", err)
			}

			writeMissionResult(os.Stdout, "Mission started", result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&person, "person", "p", "", "Name of the starter (required)")
	cmd.Flags().StringVarP(&kind, "type", "t", "", "Mission kind (default: chosen by probability)")
	cmd.MarkFlagRequired("person")

	return cmd
}

func newMissionAbortCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abort <mission-id>",
		Short: "Abort a mission",
		Long: `Abort a live mission. Members in the field head home before the mission
disbands; the mission is marked MISSION_ABORTED_BY_PLAYER.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMissionID(args[0])
			if err != nil {
				return err
			}

			client, ctx, cancel, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()
			defer cancel()

			result, err := client.AbortMission(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to abort mission: %w", err)
			}

			writeMissionResult(os.Stdout, "Mission aborted", result)
			return nil
		},
	}

	return cmd
}

func newMissionLogsCommand() *cobra.Command {
	var (
		limit int
		level string
		since float64
	)

	cmd := &cobra.Command{
		Use:   "logs <mission-id>",
		Short: "Show persisted log lines of a mission",
		Long: `Read the mission log table the daemon writes to. This goes straight to the
database configured in config.yaml (or MM_DATABASE_* variables), so it works
while the daemon is stopped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMissionID(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			var levelFilter *string
			if level != "" {
				upper := strings.ToUpper(level)
				levelFilter = &upper
			}
			var sinceFilter *float64
			if cmd.Flags().Changed("since") {
				sinceFilter = &since
			}

			repo := persistence.NewGormMissionLogRepository(db, nil)
			entries, err := repo.GetLogs(context.Background(), id, limit, levelFilter, sinceFilter)
			if err != nil {
				return fmt.Errorf("failed to read logs: %w", err)
			}

			if len(entries) == 0 {
				fmt.Printf("No log entries for mission #%d\n", id)
				return nil
			}

			for _, e := range entries {
				fmt.Printf("[%s] %s %s\n", e.MarsTime.String(), colorLevel(e.Level), e.Message)
				if verbose && len(e.Metadata) > 0 {
					fmt.Printf("    %s\n", gray(fmt.Sprint(e.Metadata)))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of entries")
	cmd.Flags().StringVarP(&level, "level", "l", "", "Only entries of this level (DEBUG, INFO, WARNING, ERROR)")
	cmd.Flags().Float64Var(&since, "since", 0, "Only entries after this many millisols")

	return cmd
}

func colorLevel(level string) string {
	padded := fmt.Sprintf("%-7s", level)
	switch level {
	case "ERROR":
		return red(padded)
	case "WARNING":
		return yellow(padded)
	case "DEBUG":
		return gray(padded)
	default:
		return padded
	}
}
