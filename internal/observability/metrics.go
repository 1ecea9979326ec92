package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ingestion service.
type Metrics struct {
	Uploads        *prometheus.CounterVec // labels: outcome={success,empty_file,no_time_rows,no_numeric_columns,ingestion_failure}
	RowsIngested   prometheus.Counter
	RowsDropped    prometheus.Counter
	FallbackLabels prometheus.Counter
	UploadBytes    prometheus.Histogram
	IngestDuration prometheus.Histogram

	// Reading sink metrics.
	ReadingsPublished prometheus.Counter
	PublishErrors     prometheus.Counter

	// Site geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "uploads_total",
			Help:      "CSV uploads processed, by outcome.",
		}, []string{"outcome"}),
		RowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "rows_ingested_total",
			Help:      "Rows present in finalized tables.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "rows_dropped_total",
			Help:      "Rows removed because their time value did not parse.",
		}),
		FallbackLabels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "fallback_labels_total",
			Help:      "Uploads labeled by position because no header matched a keyword.",
		}),
		UploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sensor_ingest",
			Name:      "upload_bytes",
			Help:      "Size of uploaded CSV files.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sensor_ingest",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of one upload ingestion.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		ReadingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "readings_published_total",
			Help:      "Readings written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "publish_errors_total",
			Help:      "Failed batch writes to the sink topic.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sensor_ingest",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sensor_ingest",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sensor_ingest",
			Name:      "geocode_enabled",
			Help:      "1 when site geocoding is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Uploads,
		m.RowsIngested,
		m.RowsDropped,
		m.FallbackLabels,
		m.UploadBytes,
		m.IngestDuration,
		m.ReadingsPublished,
		m.PublishErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Uploads:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "sensor_ingest", Name: "uploads_total"}, []string{"outcome"}),
		RowsIngested:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sensor_ingest", Name: "rows_ingested_total"}),
		RowsDropped:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sensor_ingest", Name: "rows_dropped_total"}),
		FallbackLabels:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sensor_ingest", Name: "fallback_labels_total"}),
		UploadBytes:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "sensor_ingest", Name: "upload_bytes"}),
		IngestDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "sensor_ingest", Name: "ingest_duration_seconds"}),
		ReadingsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sensor_ingest", Name: "readings_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sensor_ingest", Name: "publish_errors_total"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "sensor_ingest", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "sensor_ingest", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "sensor_ingest", Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "sensor_ingest", Name: "geocode_enabled"}),
	}
}
