package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// Command outcomes. Failures are split by the domain error that caused them.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// CommandMetricsCollector handles all command/query execution metrics
type CommandMetricsCollector struct {
	commandDuration *prometheus.HistogramVec
	commandsTotal   *prometheus.CounterVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_duration_seconds",
				Help:      "Command execution duration distribution",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"command", "outcome"},
		),

		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Total number of commands executed by type and outcome",
			},
			[]string{"command", "outcome"},
		),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	return register(c.commandDuration, c.commandsTotal)
}

// RecordCommandExecution records one mediator request under its outcome
func (c *CommandMetricsCollector) RecordCommandExecution(commandName string, duration float64, outcome string) {
	c.commandDuration.WithLabelValues(commandName, outcome).Observe(duration)
	c.commandsTotal.WithLabelValues(commandName, outcome).Inc()
}

// Outcome classifies a handler's error
func Outcome(err error) string {
	var (
		invalid  *shared.ValidationError
		notFound *shared.MissionNotFoundError
		review   *shared.PlanReviewError
		zero     *shared.ZeroMissionProbabilityError
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &invalid):
		return OutcomeInvalid
	case errors.As(err, &notFound):
		return OutcomeNotFound
	case errors.As(err, &review), errors.As(err, &zero):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
