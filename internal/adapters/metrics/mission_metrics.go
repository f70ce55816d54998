package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

// MissionMetricsCollector turns tick reports and historical events into mission metrics.
// It is both a simulation.TickObserver and a mission.EventRecorder.
type MissionMetricsCollector struct {
	// Mission lifecycle
	missionsActive   *prometheus.GaugeVec
	missionsStarted  *prometheus.CounterVec
	missionsEnded    *prometheus.CounterVec
	phaseTransitions *prometheus.CounterVec
	missionDuration  *prometheus.HistogramVec

	// Travel
	distanceTravelled *prometheus.CounterVec
	emergencyBeacons  *prometheus.CounterVec

	// History
	historicalEvents *prometheus.CounterVec

	// Simulation
	ticksTotal   prometheus.Counter
	tickDuration prometheus.Histogram
	planReviews  prometheus.Counter
	marsTime     prometheus.Gauge

	mu   sync.Mutex
	seen map[int]missionState
}

// missionState is what the collector remembers of a mission between ticks
type missionState struct {
	phase    string
	distance float64
}

var _ simulation.TickObserver = (*MissionMetricsCollector)(nil)
var _ mission.EventRecorder = (*MissionMetricsCollector)(nil)

// NewMissionMetricsCollector creates a new mission metrics collector
func NewMissionMetricsCollector() *MissionMetricsCollector {
	return &MissionMetricsCollector{
		missionsActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "missions_active",
				Help:      "Live missions by type and phase",
			},
			[]string{"type", "phase"},
		),

		missionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "missions_started_total",
				Help:      "Missions seen for the first time by type and starting settlement",
			},
			[]string{"type", "settlement"},
		),

		missionsEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "missions_ended_total",
				Help:      "Ended missions by type and each status flag they ended with",
			},
			[]string{"type", "status"},
		),

		phaseTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "phase_transitions_total",
				Help:      "Phases entered by mission type",
			},
			[]string{"type", "phase"},
		),

		missionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "mission_duration_millisols",
				Help:      "Mission duration from filing to completion in millisols",
				Buckets:   []float64{100, 500, 1000, 2000, 5000, 10000, 20000, 50000},
			},
			[]string{"type"},
		),

		distanceTravelled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "distance_travelled_km_total",
				Help:      "Kilometres driven or flown by mission type",
			},
			[]string{"type"},
		),

		emergencyBeacons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "emergency_beacons_total",
				Help:      "Emergency beacons switched on by mission type",
			},
			[]string{"type"},
		),

		historicalEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "historical_events_total",
				Help:      "Historical events recorded by event type",
			},
			[]string{"event"},
		),

		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Simulation pulses performed",
			},
		),

		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Wall time spent in one simulation pulse",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		planReviews: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_reviews_total",
				Help:      "Mission plan reviews made by settlers",
			},
		),

		marsTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "mars_time_millisols",
				Help:      "Simulation clock in millisols since the epoch",
			},
		),

		seen: make(map[int]missionState),
	}
}

// Register registers all mission metrics with the Prometheus registry
func (c *MissionMetricsCollector) Register() error {
	return register(
		c.missionsActive,
		c.missionsStarted,
		c.missionsEnded,
		c.phaseTransitions,
		c.missionDuration,
		c.distanceTravelled,
		c.emergencyBeacons,
		c.historicalEvents,
		c.ticksTotal,
		c.tickDuration,
		c.planReviews,
		c.marsTime,
	)
}

// ObserveTick updates the metrics from one pulse of the world
func (c *MissionMetricsCollector) ObserveTick(report simulation.TickReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticksTotal.Inc()
	c.tickDuration.Observe(report.Duration.Seconds())
	c.planReviews.Add(float64(report.Reviews))
	c.marsTime.Set(report.Time.Total())

	// Reset active gauge to drop missions that ended
	c.missionsActive.Reset()

	for _, data := range report.Missions {
		state, known := c.seen[data.ID]
		if !known {
			c.missionsStarted.WithLabelValues(data.Type, data.Settlement).Inc()
		}
		if data.Phase != "" && data.Phase != state.phase {
			c.phaseTransitions.WithLabelValues(data.Type, data.Phase).Inc()
			state.phase = data.Phase
		}
		if delta := data.DistanceTravelled - state.distance; delta > 0 {
			c.distanceTravelled.WithLabelValues(data.Type).Add(delta)
			state.distance = data.DistanceTravelled
		}

		if !data.Done {
			c.missionsActive.WithLabelValues(data.Type, data.Phase).Inc()
			c.seen[data.ID] = state
			continue
		}

		c.recordEnding(data)
		delete(c.seen, data.ID)
	}
}

func (c *MissionMetricsCollector) recordEnding(data *mission.MissionData) {
	if len(data.Statuses) == 0 {
		c.missionsEnded.WithLabelValues(data.Type, "NONE").Inc()
	}
	for _, status := range data.Statuses {
		c.missionsEnded.WithLabelValues(data.Type, status).Inc()
	}
	if data.CompletedAt != nil {
		c.missionDuration.WithLabelValues(data.Type).Observe(*data.CompletedAt - data.FiledAt)
	}
}

// RecordEvent counts a historical event
func (c *MissionMetricsCollector) RecordEvent(event mission.HistoricalEvent) {
	c.historicalEvents.WithLabelValues(string(event.Type)).Inc()
	if event.Type == mission.HistoricalEmergencyBeaconOn {
		c.emergencyBeacons.WithLabelValues(event.MissionType.String()).Inc()
	}
}
