package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "city_explorer"

// Metrics holds the Prometheus counters and histograms for a reporting run.
type Metrics struct {
	// Dataset loading metrics. label: table
	RowsLoaded        *prometheus.CounterVec
	RowsDropped       *prometheus.CounterVec
	TableLoadDuration *prometheus.HistogramVec

	Downloads *prometheus.CounterVec // labels: outcome={fetched,cached,error}

	// Report metrics.
	Reports        *prometheus.CounterVec   // labels: report, outcome={success,error}
	ReportDuration *prometheus.HistogramVec // labels: report

	registry *prometheus.Registry
}

// NewMetrics creates all metrics and registers them with a dedicated
// registry that WriteTextfile gathers from.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.TableLoadDuration,
		m.Downloads,
		m.Reports,
		m.ReportDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Rows kept after cleaning, by table.",
		}, []string{"table"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows dropped for missing or malformed values, by table.",
		}, []string{"table"}),
		TableLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_load_duration_seconds",
			Help:      "Time spent fetching and parsing a table.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}, []string{"table"}),
		Downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Dataset fetches by outcome.",
		}, []string{"outcome"}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Report runs by name and outcome.",
		}, []string{"report", "outcome"}),
		ReportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent computing and rendering a report.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"report"}),
	}
}

// WriteTextfile writes the registered metrics in the node-exporter textfile
// format. It is a no-op for test metrics.
func (m *Metrics) WriteTextfile(path string) error {
	if m.registry == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
