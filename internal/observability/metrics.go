package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// refresh pipeline.
type Metrics struct {
	RefreshesApplied   *prometheus.CounterVec // label: horizon
	ParseErrors        prometheus.Counter
	SnapshotsPublished prometheus.Counter
	PipelineRunning    prometheus.Gauge

	// Batch processing metrics.
	BatchSize       prometheus.Histogram
	RefreshDuration prometheus.Histogram

	// Derived-view metrics.
	WindowEvents  *prometheus.GaugeVec // label: window={1h,24h,7d,14d,30d}
	StreamClients prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_views",
			Name:      "refreshes_applied_total",
			Help:      "Total feed refreshes folded into derived state, by horizon.",
		}, []string{"horizon"}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_views",
			Name:      "parse_errors_total",
			Help:      "Total refresh payloads that failed to parse.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_views",
			Name:      "snapshots_published_total",
			Help:      "Total derived snapshots written to the sink topic.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_views",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_views",
			Name:      "batch_size",
			Help:      "Number of refresh messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_views",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of one parse-reduce-publish cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		WindowEvents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "quake_views",
			Name:      "window_events",
			Help:      "Events currently inside each derived time window.",
		}, []string{"window"}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_views",
			Name:      "stream_clients",
			Help:      "Connected websocket snapshot subscribers.",
		}),
	}

	prometheus.MustRegister(
		m.RefreshesApplied,
		m.ParseErrors,
		m.SnapshotsPublished,
		m.PipelineRunning,
		m.BatchSize,
		m.RefreshDuration,
		m.WindowEvents,
		m.StreamClients,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshesApplied:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_views", Name: "refreshes_applied_total"}, []string{"horizon"}),
		ParseErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_views", Name: "parse_errors_total"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_views", Name: "snapshots_published_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_views", Name: "pipeline_running"}),
		BatchSize:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_views", Name: "batch_size"}),
		RefreshDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_views", Name: "refresh_duration_seconds"}),
		WindowEvents:       prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "quake_views", Name: "window_events"}, []string{"window"}),
		StreamClients:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_views", Name: "stream_clients"}),
	}
}
