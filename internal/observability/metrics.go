package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// kinematics pipeline.
type Metrics struct {
	RowsUsed         prometheus.Counter
	RowsExcluded     *prometheus.CounterVec // label: reason={empty_list,malformed,bad_timestamp}
	EventsSummarized prometheus.Counter
	EventsFailed     prometheus.Counter
	PipelineRunning  prometheus.Gauge

	EventDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cme_kinematics",
			Name:      "rows_used_total",
			Help:      "Total observation rows that reached geometry resolution.",
		}),
		RowsExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cme_kinematics",
			Name:      "rows_excluded_total",
			Help:      "Observation rows dropped before geometry resolution, by reason.",
		}, []string{"reason"}),
		EventsSummarized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cme_kinematics",
			Name:      "events_summarized_total",
			Help:      "Events that produced a complete summary.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cme_kinematics",
			Name:      "events_failed_total",
			Help:      "Events excluded from aggregation because a derived quantity failed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cme_kinematics",
			Name:      "pipeline_running",
			Help:      "1 while the batch is processing, 0 otherwise.",
		}),
		EventDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cme_kinematics",
			Name:      "event_processing_duration_seconds",
			Help:      "Duration of one event's series build, differencing, and fits.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	prometheus.MustRegister(
		m.RowsUsed,
		m.RowsExcluded,
		m.EventsSummarized,
		m.EventsFailed,
		m.PipelineRunning,
		m.EventDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsUsed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cme_kinematics", Name: "rows_used_total"}),
		RowsExcluded:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cme_kinematics", Name: "rows_excluded_total"}, []string{"reason"}),
		EventsSummarized: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cme_kinematics", Name: "events_summarized_total"}),
		EventsFailed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cme_kinematics", Name: "events_failed_total"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "cme_kinematics", Name: "pipeline_running"}),
		EventDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "cme_kinematics", Name: "event_processing_duration_seconds"}),
	}
}
