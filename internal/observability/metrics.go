package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// bulletin ingestion pipeline.
type Metrics struct {
	BulletinsParsed  prometheus.Counter
	LinesRead        prometheus.Counter
	RecordsSkipped   prometheus.Counter
	OriginsParsed    prometheus.Counter
	MagnitudesParsed prometheus.Counter

	// Event outcomes by filter stage: accepted, filtered, rejected, discarded.
	EventOutcomes *prometheus.CounterVec

	EventsPublished prometheus.Counter
	MergeConflicts  prometheus.Counter
	ParseErrors     prometheus.Counter

	ParseDuration   prometheus.Histogram
	PipelineRunning prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.BulletinsParsed,
		m.LinesRead,
		m.RecordsSkipped,
		m.OriginsParsed,
		m.MagnitudesParsed,
		m.EventOutcomes,
		m.EventsPublished,
		m.MergeConflicts,
		m.ParseErrors,
		m.ParseDuration,
		m.PipelineRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		BulletinsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "bulletins_parsed_total",
			Help:      "Total ISF bulletins parsed from the spool directory.",
		}),
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "lines_read_total",
			Help:      "Total bulletin lines read.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "records_skipped_total",
			Help:      "Total malformed or unrecognized lines dropped.",
		}),
		OriginsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "origins_parsed_total",
			Help:      "Total origin records parsed and kept.",
		}),
		MagnitudesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "magnitudes_parsed_total",
			Help:      "Total magnitude records parsed and kept.",
		}),
		EventOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "event_outcomes_total",
			Help:      "Assembled events by acceptance outcome.",
		}, []string{"outcome"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "events_published_total",
			Help:      "Total harmonized events published to the sink topic.",
		}),
		MergeConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "merge_conflicts_total",
			Help:      "Total magnitude data-integrity conflicts hit during merging.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "parse_errors_total",
			Help:      "Total bulletins that failed to parse at all.",
		}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_etl",
			Name:      "parse_duration_seconds",
			Help:      "Duration of a complete bulletin parse-merge-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_etl",
			Name:      "pipeline_running",
			Help:      "1 when the ingestion pipeline is active, 0 when shut down.",
		}),
	}
}
