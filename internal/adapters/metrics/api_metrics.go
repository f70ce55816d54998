package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// APIMetricsCollector handles the daemon's outward surfaces: gRPC calls and the live event feed
type APIMetricsCollector struct {
	// gRPC
	rpcRequestsTotal   *prometheus.CounterVec
	rpcRequestDuration *prometheus.HistogramVec

	// Event feed
	feedClients  prometheus.Gauge
	feedMessages *prometheus.CounterVec
}

// NewAPIMetricsCollector creates a new API metrics collector
func NewAPIMetricsCollector() *APIMetricsCollector {
	return &APIMetricsCollector{
		rpcRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rpc_requests_total",
				Help:      "Total number of gRPC requests by method and status code",
			},
			[]string{"method", "code"},
		),

		rpcRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rpc_request_duration_seconds",
				Help:      "gRPC request duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"method"},
		),

		feedClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "event_feed_clients",
				Help:      "Websocket clients subscribed to the event feed",
			},
		),

		feedMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "event_feed_messages_total",
				Help:      "Event feed messages by outcome (sent, dropped)",
			},
			[]string{"outcome"},
		),
	}
}

// Register registers all API metrics with the Prometheus registry
func (c *APIMetricsCollector) Register() error {
	return register(c.rpcRequestsTotal, c.rpcRequestDuration, c.feedClients, c.feedMessages)
}

// RecordRPC records a finished gRPC call
func (c *APIMetricsCollector) RecordRPC(method, code string, duration float64) {
	c.rpcRequestsTotal.WithLabelValues(method, code).Inc()
	c.rpcRequestDuration.WithLabelValues(method).Observe(duration)
}

// SetFeedClients records how many feed clients are connected
func (c *APIMetricsCollector) SetFeedClients(n int) {
	c.feedClients.Set(float64(n))
}

// RecordFeedMessage counts one message offered to a feed client
func (c *APIMetricsCollector) RecordFeedMessage(dropped bool) {
	outcome := "sent"
	if dropped {
		outcome = "dropped"
	}
	c.feedMessages.WithLabelValues(outcome).Inc()
}
