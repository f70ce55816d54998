package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub009/internal/application/common"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/config"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/database"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/scenario"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		ticks    int
		seed     int64
		scenFile string
		review   bool
		rate     float64
		persist  bool
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a colony in-process without the daemon",
		Long: `Run the mission engine in this process for a fixed number of ticks and print
the historical events as they happen, then a summary of every mission.

Settings not given as flags come from config.yaml (simulation section).
With --persist, snapshots, events and logs go to the configured database.

Examples:
  marsmission simulate --ticks 1000 --seed 7
  marsmission simulate --scenario colony.yaml --review --rate 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(configPath)
			sim := cfg.Simulation
			if cmd.Flags().Changed("seed") {
				sim.Seed = seed
			}
			if cmd.Flags().Changed("scenario") {
				sim.Scenario = scenFile
			}
			if cmd.Flags().Changed("review") {
				sim.ReviewPlans = review
			}

			scen, err := scenario.Load(sim.Scenario)
			if err != nil {
				return err
			}
			colony, err := scen.Build()
			if err != nil {
				return fmt.Errorf("failed to build colony: %w", err)
			}

			minLevel := "warning"
			if verbose {
				minLevel = "debug"
			}

			clock := shared.NewSimulationClock(colony.Start)
			opts := simulation.OptionsFromConfig(sim)
			opts.Clock = clock

			var (
				logRepo   persistence.MissionLogRepository
				snapshots mission.SnapshotRepository
				events    mission.EventRepository
			)
			if persist {
				db, err := database.NewConnection(&cfg.Database)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer database.Close(db)
				if err := database.AutoMigrate(db); err != nil {
					return fmt.Errorf("failed to migrate database: %w", err)
				}
				snapshotRepo := persistence.NewGormMissionSnapshotRepository(db)
				last, err := snapshotRepo.LastMissionID(context.Background())
				if err != nil {
					return fmt.Errorf("failed to read last mission id: %w", err)
				}
				opts.LastMissionID = last
				snapshots = snapshotRepo
				events = persistence.NewGormHistoricalEventRepository(db)
				logRepo = persistence.NewGormMissionLogRepository(db, clock)
			}

			logger := persistence.NewMissionLogger(logRepo, minLevel)
			recorders := mission.FanOutRecorder{newEventPrinter(os.Stdout, quiet)}
			if events != nil {
				recorders = append(recorders, persistence.NewEventSink(events, logger))
			}
			opts.Events = recorders
			opts.Logger = logger

			world := simulation.NewWorld(colony, opts)

			summary := &summaryObserver{}
			tickService := simulation.NewTickService(world, simulation.TickConfigFromConfig(sim), snapshots, summary)
			scheduler := simulation.NewScheduler(tickService, rate, int64(ticks))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = common.WithLogger(ctx, logger)

			fmt.Printf("%s %s, seed %d, %d ticks of %.0f millisols\n\n",
				cyan("Simulating"), world.Name(), sim.Seed, ticks, simulation.TickConfigFromConfig(sim).MillisolsPerTick)

			if err := scheduler.Run(ctx); err != nil {
				return err
			}

			summary.write(os.Stdout, world.Clock().Now().String(), tickService.Ticks())
			return nil
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 1000, "Number of ticks to run")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")
	cmd.Flags().StringVar(&scenFile, "scenario", "", "Scenario YAML file (default: built-in colony)")
	cmd.Flags().BoolVar(&review, "review", false, "Send new plans through settlement review")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Ticks per second (0 runs as fast as possible)")
	cmd.Flags().BoolVar(&persist, "persist", false, "Write snapshots, events and logs to the configured database")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary")

	return cmd
}

// eventPrinter writes historical events as one coloured line each
type eventPrinter struct {
	w     io.Writer
	quiet bool
}

func newEventPrinter(w io.Writer, quiet bool) *eventPrinter {
	return &eventPrinter{w: w, quiet: quiet}
}

func (p *eventPrinter) RecordEvent(event mission.HistoricalEvent) {
	if p.quiet {
		return
	}
	line := fmt.Sprintf("[%s] %s %s", event.Time.String(), colorEvent(event.Type), event.Designation)
	if event.Cause != "" {
		line += ": " + event.Cause
	}
	if event.Who != "" {
		line += " " + gray("("+event.Who+")")
	}
	fmt.Fprintln(p.w, line)
}

func colorEvent(t mission.HistoricalEventType) string {
	padded := fmt.Sprintf("%-30s", t)
	switch t {
	case mission.HistoricalMissionStart, mission.HistoricalMissionJoining:
		return green(padded)
	case mission.HistoricalEmergencyBeaconOn, mission.HistoricalMedicalEmergency,
		mission.HistoricalNotEnoughResources, mission.HistoricalEmergencyDestination:
		return red(padded)
	case mission.HistoricalMissionFinish:
		return cyan(padded)
	default:
		return gray(padded)
	}
}

// summaryObserver keeps the latest read model of every mission seen during the run
type summaryObserver struct {
	missions map[int]*mission.MissionData
	started  int
	ended    int
	reviews  int
}

func (s *summaryObserver) ObserveTick(report simulation.TickReport) {
	if s.missions == nil {
		s.missions = make(map[int]*mission.MissionData)
	}
	for _, m := range report.Missions {
		s.missions[m.ID] = m
	}
	s.started += report.Started
	s.ended += report.Ended
	s.reviews += report.Reviews
}

func (s *summaryObserver) write(w io.Writer, now string, ticks int64) {
	all := make([]*mission.MissionData, 0, len(s.missions))
	for _, m := range s.missions {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	fmt.Fprintf(w, "\n%s after %d ticks (%s)\n", cyan("Summary"), ticks, now)
	fmt.Fprintf(w, "  Started: %d  Ended: %d  Reviews: %d\n\n", s.started, s.ended, s.reviews)
	writeMissionTable(w, all)
}
