// Package metrics holds the Prometheus collectors of the validation service and
// the gin middleware that feeds the HTTP ones.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal_validation"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	validationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "runs_total",
			Help:      "Total number of validation runs by kind and summary status.",
		},
		[]string{"kind", "status"},
	)

	sinkWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "writes_total",
			Help:      "Total number of result sink writes.",
		},
		[]string{"sink", "result"},
	)

	sinkRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "rows_total",
			Help:      "Total number of field result rows written.",
		},
		[]string{"sink"},
	)

	registryLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "lookups_total",
			Help:      "Total number of commercial registry lookups.",
		},
		[]string{"outcome"},
	)
)

// Result labels
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		validationRuns,
		sinkWrites,
		sinkRows,
		registryLookups,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records in-flight requests, request counts and durations. The
// route template is used as path label so IDs do not blow up cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "/metrics" {
			c.Next()
			return
		}
		if path == "" {
			path = "unmatched"
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordValidation counts one validation run of the given kind (portal, vendor, documents)
func RecordValidation(kind, status string) {
	validationRuns.WithLabelValues(kind, status).Inc()
}

// RecordSinkWrite counts one batch write and, on success, its rows
func RecordSinkWrite(sink string, rows int, err error) {
	if sink == "" {
		sink = "unknown"
	}
	if err != nil {
		sinkWrites.WithLabelValues(sink, ResultError).Inc()
		return
	}
	sinkWrites.WithLabelValues(sink, ResultSuccess).Inc()
	sinkRows.WithLabelValues(sink).Add(float64(rows))
}

// RecordRegistryLookup counts one registry lookup by outcome (found, error, missing_key)
func RecordRegistryLookup(outcome string) {
	registryLookups.WithLabelValues(outcome).Inc()
}
