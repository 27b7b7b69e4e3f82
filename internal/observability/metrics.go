package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/teranos/energydb/errors"
)

// Load failure reasons used as the "reason" label.
const (
	ReasonFileAccess   = "file_access"
	ReasonMalformedRow = "malformed_row"
	ReasonStore        = "store"
)

// Metrics holds the Prometheus counters and histograms for loads and queries.
type Metrics struct {
	Registry *prometheus.Registry

	RowsLoaded   prometheus.Counter
	LoadsTotal   prometheus.Counter
	LoadFailures *prometheus.CounterVec // labels: reason={file_access,malformed_row,store}
	LoadDuration prometheus.Histogram
	TableRows    prometheus.Gauge
	QueriesTotal *prometheus.CounterVec // labels: outcome={ok,error}
}

// NewMetrics creates all metrics and registers them with a fresh registry, so
// repeated construction in tests never panics with "already registered".
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "energydb",
			Name:      "rows_loaded_total",
			Help:      "Total production records inserted by successful loads.",
		}),
		LoadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "energydb",
			Name:      "loads_total",
			Help:      "Total successful loads.",
		}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "energydb",
			Name:      "load_failures_total",
			Help:      "Failed loads by reason.",
		}, []string{"reason"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "energydb",
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete drop, parse, insert and commit cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		TableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "energydb",
			Name:      "production_rows",
			Help:      "Rows in the production table after the last successful load.",
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "energydb",
			Name:      "aggregate_queries_total",
			Help:      "Aggregate queries by outcome.",
		}, []string{"outcome"}),
	}

	m.Registry.MustRegister(
		m.RowsLoaded,
		m.LoadsTotal,
		m.LoadFailures,
		m.LoadDuration,
		m.TableRows,
		m.QueriesTotal,
	)
	return m
}

// WriteTextfile writes the current metric values in the Prometheus text
// format, for the node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}
