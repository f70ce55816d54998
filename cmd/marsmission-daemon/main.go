package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/grpc"
	"github.com/mars-sim/mars-sim-sub009/internal/adapters/metrics"
	"github.com/mars-sim/mars-sim-sub009/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub009/internal/adapters/websocket"
	"github.com/mars-sim/mars-sim-sub009/internal/application/common"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
	missionApp "github.com/mars-sim/mars-sim-sub009/internal/application/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/config"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/database"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/pidfile"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/scenario"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (default: search ./config.yaml, ./configs, ~/.marsmission)")
	flag.Parse()

	fmt.Printf("Mars Mission Daemon v%s\n", grpc.Version)
	fmt.Println("==========================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)
	if cfg.Logging.Output == "stdout" {
		log.SetOutput(os.Stdout)
	}

	// One daemon per PID file
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		log.Fatalf("Failed to acquire PID file lock: %v\nUse 'marsmission daemon stop' to stop the running daemon", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Printf("Fatal error: %v", err)
		_ = pf.Release()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// 1. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 2. Colony
	scen, err := scenario.Load(cfg.Simulation.Scenario)
	if err != nil {
		return err
	}
	colony, err := scen.Build()
	if err != nil {
		return fmt.Errorf("failed to build colony: %w", err)
	}
	fmt.Printf("Colony loaded: %s (%d settlements)\n", colony.Name, len(colony.Settlements.All()))

	// 3. Metrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	missionMetrics := metrics.NewMissionMetricsCollector()
	commandMetrics := metrics.NewCommandMetricsCollector()
	apiMetrics := metrics.NewAPIMetricsCollector()
	for _, c := range []interface{ Register() error }{missionMetrics, commandMetrics, apiMetrics} {
		if err := c.Register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	// 4. Repositories
	clock := shared.NewSimulationClock(colony.Start)
	snapshotRepo := persistence.NewGormMissionSnapshotRepository(db)
	eventRepo := persistence.NewGormHistoricalEventRepository(db)
	logRepo := persistence.NewGormMissionLogRepository(db, clock)
	logger := persistence.NewMissionLogger(logRepo, cfg.Logging.Level).WithFormat(cfg.Logging.Format)

	lastID, err := snapshotRepo.LastMissionID(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read last mission id: %w", err)
	}

	// 5. World
	hub := websocket.NewHub(apiMetrics)
	opts := simulation.OptionsFromConfig(cfg.Simulation)
	opts.Clock = clock
	opts.Logger = logger
	opts.LastMissionID = lastID
	opts.Events = mission.FanOutRecorder{
		persistence.NewEventSink(eventRepo, logger),
		missionMetrics,
		hub,
	}
	world := simulation.NewWorld(colony, opts)
	fmt.Printf("World ready at %s, mission ids continue after #%d\n", world.Clock().Now().String(), lastID)

	// 6. Mediator
	med := mediator.NewMediator()
	med.RegisterMiddleware(metrics.PrometheusMiddleware(commandMetrics))
	if err := missionApp.RegisterHandlers(med, world, snapshotRepo, eventRepo); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	// 7. Tick loop
	ticks := simulation.NewTickService(world, simulation.TickConfigFromConfig(cfg.Simulation), snapshotRepo, missionMetrics, hub)
	scheduler := simulation.NewScheduler(ticks, cfg.Simulation.TicksPerSecond, int64(cfg.Simulation.MaxTicks))

	// 8. Daemon server
	fmt.Printf("Starting daemon server on: %s\n", cfg.Daemon.SocketPath)
	daemonServer, err := grpc.NewDaemonServer(grpc.NewMissionServer(med, world, ticks), cfg.Daemon.SocketPath, apiMetrics)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = common.WithLogger(ctx, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		return daemonServer.Serve(gctx)
	})
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics)
		fmt.Printf("Metrics on http://%s%s\n", metricsServer.Addr(), cfg.Metrics.Path)
		g.Go(func() error {
			return metricsServer.Serve(gctx)
		})
	}
	if cfg.Daemon.WebsocketAddress != "" {
		fmt.Printf("Event feed on ws://%s%s\n", cfg.Daemon.WebsocketAddress, websocket.EventsPath)
		g.Go(func() error {
			return hub.Serve(gctx, cfg.Daemon.WebsocketAddress)
		})
	}

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	err = g.Wait()

	// Final snapshot so a restart resumes numbering and shows where every mission stood
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	var live []*mission.MissionData
	world.Do(func() {
		for _, m := range world.Manager().Missions() {
			live = append(live, m.ToData())
		}
	})
	if saveErr := snapshotRepo.SaveAll(shutdownCtx, live); saveErr != nil {
		log.Printf("Warning: failed to save final snapshots: %v", saveErr)
	}

	if err != nil {
		return err
	}
	fmt.Printf("\nDaemon stopped after %d ticks at %s\n", ticks.Ticks(), world.Clock().Now().String())
	return nil
}
