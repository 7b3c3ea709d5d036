package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics (not component-specific)
type Metrics struct {
	// Summarization metrics
	RecordsReceived  *prometheus.CounterVec
	RecordsProcessed *prometheus.CounterVec
	AnalysisWarnings *prometheus.CounterVec
	ReportDuration   *prometheus.HistogramVec
	ErrorsTotal      *prometheus.CounterVec

	// NATS metrics
	NATSConnected  prometheus.Gauge
	NATSRTT        prometheus.Gauge
	NATSReconnects prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RecordsReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kgstat",
				Subsystem: "records",
				Name:      "received_total",
				Help:      "Total number of graph records received",
			},
			[]string{"component", "kind"},
		),

		RecordsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kgstat",
				Subsystem: "records",
				Name:      "processed_total",
				Help:      "Total number of graph records processed",
			},
			[]string{"component", "kind", "status"},
		),

		AnalysisWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kgstat",
				Subsystem: "analysis",
				Name:      "warnings_total",
				Help:      "Total number of analysis warnings by type",
			},
			[]string{"component", "type"},
		),

		ReportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "kgstat",
				Subsystem: "report",
				Name:      "duration_seconds",
				Help:      "Report finalization duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"component", "operation"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kgstat",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors",
			},
			[]string{"component", "type"},
		),

		// NATS metrics
		NATSConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "kgstat",
				Subsystem: "nats",
				Name:      "connected",
				Help:      "NATS connection status (0=disconnected, 1=connected)",
			},
		),

		NATSRTT: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "kgstat",
				Subsystem: "nats",
				Name:      "rtt_milliseconds",
				Help:      "NATS round-trip time in milliseconds",
			},
		),

		NATSReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "kgstat",
				Subsystem: "nats",
				Name:      "reconnects_total",
				Help:      "Total number of NATS reconnections",
			},
		),
	}
}

// RecordReceived increments the received record counter
func (c *Metrics) RecordReceived(component, kind string) {
	c.RecordsReceived.WithLabelValues(component, kind).Inc()
}

// RecordProcessed increments the processed record counter
func (c *Metrics) RecordProcessed(component, kind, status string) {
	c.RecordsProcessed.WithLabelValues(component, kind, status).Inc()
}

// RecordWarning increments the analysis warning counter
func (c *Metrics) RecordWarning(component, warningType string) {
	c.AnalysisWarnings.WithLabelValues(component, warningType).Inc()
}

// RecordReportDuration records report finalization time
func (c *Metrics) RecordReportDuration(component, operation string, duration time.Duration) {
	c.ReportDuration.WithLabelValues(component, operation).Observe(duration.Seconds())
}

// RecordError increments error counter
func (c *Metrics) RecordError(component, errorType string) {
	c.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// RecordNATSStatus updates NATS connection status
func (c *Metrics) RecordNATSStatus(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	c.NATSConnected.Set(value)
}

// RecordNATSRTT updates NATS round-trip time
func (c *Metrics) RecordNATSRTT(rtt time.Duration) {
	c.NATSRTT.Set(float64(rtt.Milliseconds()))
}

// RecordNATSReconnect increments reconnection counter
func (c *Metrics) RecordNATSReconnect() {
	c.NATSReconnects.Inc()
}
