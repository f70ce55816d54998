package simulation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mars-sim/mars-sim-sub009/internal/application/common"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
	"github.com/mars-sim/mars-sim-sub009/pkg/utils"
)

// TickConfig sets the pace of the world
type TickConfig struct {
	MillisolsPerTick float64
	// NewMissionChance is the percent chance per tick that an idle person considers a mission
	NewMissionChance float64
	// ReviewChance is the percent chance per tick that an eligible reviewer scores a pending plan
	ReviewChance float64
}

// DefaultTickConfig matches the daemon defaults
func DefaultTickConfig() TickConfig {
	return TickConfig{MillisolsPerTick: 10, NewMissionChance: 2, ReviewChance: 25}
}

// TickService performs one pulse of the world at a time
type TickService struct {
	world     *World
	cfg       TickConfig
	snapshots mission.SnapshotRepository
	observers []TickObserver
	tick      atomic.Int64

	// missions the manager dropped, reported at the end of a pulse
	mu      sync.Mutex
	removed []*mission.Mission
}

// NewTickService creates a tick service. snapshots may be nil.
func NewTickService(world *World, cfg TickConfig, snapshots mission.SnapshotRepository, observers ...TickObserver) *TickService {
	if cfg.MillisolsPerTick <= 0 {
		cfg.MillisolsPerTick = DefaultTickConfig().MillisolsPerTick
	}
	s := &TickService{world: world, cfg: cfg, snapshots: snapshots, observers: observers}
	world.manager.AddListener(s)
	return s
}

func (s *TickService) MissionAdded(*mission.Mission) {}

// MissionRemoved keeps a dropped mission until the pulse reports it
func (s *TickService) MissionRemoved(m *mission.Mission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, m)
}

func (s *TickService) drainRemoved() []*mission.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.removed
	s.removed = nil
	return out
}

// Ticks returns how many pulses have run
func (s *TickService) Ticks() int64 {
	return s.tick.Load()
}

// Pulse advances the clock one step, lets every mission member act once, settles plan reviews,
// lets idle people start missions, then persists snapshots and notifies observers.
func (s *TickService) Pulse(ctx context.Context) (TickReport, error) {
	logger := common.LoggerFromContext(ctx)
	started := time.Now()
	var report TickReport

	s.world.Do(func() {
		report.Tick = s.tick.Add(1)
		report.Time = s.world.clock.Advance(s.cfg.MillisolsPerTick)
		mgr := s.world.manager

		tracked := mgr.Missions()
		for _, m := range tracked {
			for _, member := range m.Members() {
				if m.IsDone() {
					break
				}
				m.PerformMission(member)
			}
		}

		report.Reviews = s.reviewPlans()

		for _, p := range s.world.roster.People() {
			if !s.isIdle(p) || !shared.RandomPercentLessThan(s.world.random, s.cfg.NewMissionChance) {
				continue
			}
			if mgr.TotalMissionProbability(p) <= 0 {
				continue
			}
			m, err := mgr.NewMission(p)
			if err != nil {
				logger.Log("WARNING", "Mission could not be created", map[string]interface{}{
					"person": p.Name(),
					"error":  err.Error(),
				})
				continue
			}
			tracked = append(tracked, m)
			report.Started++
		}

		ended := make(map[int]bool)
		for _, m := range tracked {
			report.Missions = append(report.Missions, m.ToData())
			if m.IsDone() {
				report.Ended++
				ended[m.ID()] = true
			}
		}
		mgr.TimePassing()

		// dropped missions that the loop above did not already report
		for _, m := range s.drainRemoved() {
			if ended[m.ID()] {
				continue
			}
			report.Missions = append(report.Missions, m.ToData())
			report.Ended++
		}
	})
	report.Duration = time.Since(started)

	var saveErr error
	if s.snapshots != nil {
		for _, data := range report.Missions {
			if err := s.snapshots.Save(ctx, data); err != nil {
				saveErr = fmt.Errorf("tick %d: %w", report.Tick, err)
				break
			}
		}
	}
	for _, o := range s.observers {
		o.ObserveTick(report)
	}
	return report, saveErr
}

func (s *TickService) isIdle(p *worker.Person) bool {
	return p.CurrentSettlement() != "" && !s.world.manager.HasMission(p) && !p.HasSeriousMedicalProblems()
}

// reviewPlans lets people at each settlement score the plans waiting there
func (s *TickService) reviewPlans() int {
	reviews := 0
	now := s.world.clock.Now()
	for _, st := range s.world.settlements.All() {
		for _, m := range s.world.manager.PendingMissions(st.Name()) {
			plan := m.Plan()
			for _, w := range s.world.roster.At(st.Name()) {
				p, ok := w.(*worker.Person)
				if !ok || !plan.CanReview(p.Name()) {
					continue
				}
				if !shared.RandomPercentLessThan(s.world.random, s.cfg.ReviewChance) {
					continue
				}
				score := utils.Clamp(20+p.OpinionOf(m.Starter().Name())/2+shared.RandomDouble(s.world.random, 40), 0, 100)
				if err := plan.AddReview(p.Name(), p.Role(), score, now); err != nil {
					continue
				}
				reviews++
				m.Logf("INFO", "%s scored the plan %.1f, plan is %s", p.Name(), score, plan.Status())
				if plan.Status() != mission.PlanPending {
					break
				}
			}
		}
	}
	return reviews
}
