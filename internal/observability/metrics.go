// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Chart metrics
	ChartsComputed   *prometheus.CounterVec
	ChartStageErrors *prometheus.CounterVec
	ChartDuration    prometheus.Histogram

	// Collaborator metrics
	CollaboratorCallLatency *prometheus.HistogramVec
	CollaboratorCallErrors  *prometheus.CounterVec

	// Almanac metrics
	AlmanacDaysIngested prometheus.Counter
	AlmanacDaysSkipped  prometheus.Counter
	FeedReconnects      prometheus.Counter
	AlmanacLookups      *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastChartComputed prometheus.Gauge
	LastAlmanacDay    prometheus.Gauge
	UptimeSeconds     prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "ziwei_lab"
	}

	return &Metrics{
		// Chart metrics
		ChartsComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "computed_total",
			Help:      "Total number of charts computed by outcome",
		}, []string{"outcome"}),
		ChartStageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "stage_errors_total",
			Help:      "Total number of chart computation errors by stage",
		}, []string{"stage"}),
		ChartDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "duration_seconds",
			Help:      "Chart computation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Collaborator metrics
		CollaboratorCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "collaborator",
			Name:      "call_latency_seconds",
			Help:      "Collaborator RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		CollaboratorCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collaborator",
			Name:      "call_errors_total",
			Help:      "Total number of collaborator call errors by method",
		}, []string{"method"}),

		// Almanac metrics
		AlmanacDaysIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "almanac",
			Name:      "days_ingested_total",
			Help:      "Total number of almanac days stored",
		}),
		AlmanacDaysSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "almanac",
			Name:      "days_skipped_total",
			Help:      "Total number of almanac days skipped (malformed or duplicate)",
		}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "almanac",
			Name:      "feed_reconnects_total",
			Help:      "Total number of almanac feed reconnects",
		}),
		AlmanacLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "almanac",
			Name:      "lookups_total",
			Help:      "Total number of almanac lookups by query",
		}, []string{"query"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastChartComputed: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_chart_computed_timestamp",
			Help:      "Unix timestamp of last successful chart computation",
		}),
		LastAlmanacDay: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_almanac_day_timestamp",
			Help:      "Unix timestamp of last ingested almanac day",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordChartComputed increments the charts computed counter.
func RecordChartComputed(outcome string) {
	DefaultMetrics.ChartsComputed.WithLabelValues(outcome).Inc()
}

// RecordChartStageError increments the stage error counter.
func RecordChartStageError(stage string) {
	DefaultMetrics.ChartStageErrors.WithLabelValues(stage).Inc()
}

// RecordAlmanacDayIngested increments the almanac days ingested counter.
func RecordAlmanacDayIngested() {
	DefaultMetrics.AlmanacDaysIngested.Inc()
}

// RecordFeedReconnect increments the feed reconnect counter.
func RecordFeedReconnect() {
	DefaultMetrics.FeedReconnects.Inc()
}
