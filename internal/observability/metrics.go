package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "listing_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for one ETL
// job. Each instance owns its registry, so a batch run can write exactly its
// own series to a node_exporter textfile.
type Metrics struct {
	RowsRead       *prometheus.CounterVec // labels: table={listings,climate}
	RowsDropped    *prometheus.CounterVec // labels: reason
	Duplicates     prometheus.Counter
	ClimateMatches prometheus.Counter
	RecordsOutput  prometheus.Counter

	RecordsLoaded *prometheus.CounterVec // labels: sink={json,mysql,postgres,oracle,kafka}
	LoadErrors    *prometheus.CounterVec // labels: sink

	RunDuration        prometheus.Histogram
	LastSuccessSeconds prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates all job metrics and registers them with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Rows read from each source table.",
		}, []string{"table"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Listing rows rejected by the filter, by first failing rule.",
		}, []string{"reason"}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_total",
			Help:      "Admitted listings collapsed by APN deduplication.",
		}),
		ClimateMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "climate_matches_total",
			Help:      "Listings that found a climate row with the same APN.",
		}),
		RecordsOutput: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_output_total",
			Help:      "Enriched records produced by the transform.",
		}),
		RecordsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Records written to each sink.",
		}, []string{"sink"}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Failed load attempts per sink.",
		}, []string{"sink"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-transform-load run.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastSuccessSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that completed without error.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.RowsDropped,
		m.Duplicates,
		m.ClimateMatches,
		m.RecordsOutput,
		m.RecordsLoaded,
		m.LoadErrors,
		m.RunDuration,
		m.LastSuccessSeconds,
	)

	return m
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes every registered series to path in the Prometheus
// text format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
