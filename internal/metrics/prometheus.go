// Package metrics provides Prometheus metrics for deviation runs.
package metrics

import (
	"net/http"
	"time"

	"godeviate/domain/kpi"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the run metrics and the registry they live on.
// It satisfies ports.RunRecorder.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	runsCompleted   *prometheus.CounterVec
	runsFailed      *prometheus.CounterVec
	rowsRead        prometheus.Counter
	classifications *prometheus.CounterVec
	runDuration     prometheus.Histogram
}

// NewManager creates a manager on a fresh registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "godeviate",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runsCompleted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_completed_total",
		Help:      "Number of deviation runs that produced a result, by grouping level",
	}, []string{"level"})

	m.runsFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_failed_total",
		Help:      "Number of deviation runs that stopped early, by error code",
	}, []string{"code"})

	m.rowsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "input_rows_total",
		Help:      "KPI rows read across all completed runs",
	})

	m.classifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classifications_total",
		Help:      "Employee summaries classified, by label",
	}, []string{"label"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Time spent computing group statistics and classifications",
		Buckets:   m.histogramBuckets,
	})
}

// RunCompleted records a successful run.
func (m *Manager) RunCompleted(level kpi.Level, inputRows int, counts map[kpi.Classification]int, elapsed time.Duration) {
	m.runsCompleted.WithLabelValues(string(level)).Inc()
	m.rowsRead.Add(float64(inputRows))
	for class, n := range counts {
		m.classifications.WithLabelValues(string(class)).Add(float64(n))
	}
	m.runDuration.Observe(elapsed.Seconds())
}

// RunFailed records a run that stopped with the given error code.
func (m *Manager) RunFailed(code string) {
	m.runsFailed.WithLabelValues(code).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
