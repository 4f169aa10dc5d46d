// Package metrics collects and exposes Prometheus metrics for the content engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the metrics interface consumed by services and middleware
type Collector interface {
	RecordTransition(from, to string)
	RecordTransitionRejected(kind string)
	RecordTransitionConflict()
	RecordScoreComputed(score int)
	RecordIngestItem()
	RecordIngestFailure(reason string)
	RecordHTTPRequest(method, path, status string, duration time.Duration)
}

// PrometheusCollector implements Collector backed by a prometheus registry
type PrometheusCollector struct {
	transitions         *prometheus.CounterVec
	transitionsRejected *prometheus.CounterVec
	transitionConflicts prometheus.Counter
	scoresComputed      prometheus.Counter
	scoreDistribution   prometheus.Histogram
	ingestItems         prometheus.Counter
	ingestFailures      *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// NewCollector creates a PrometheusCollector and registers its metrics
func NewCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_engine_transitions_total",
			Help: "Queue state machine transitions by from/to status",
		}, []string{"from", "to"}),
		transitionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_engine_transitions_rejected_total",
			Help: "Rejected transitions by error kind",
		}, []string{"kind"}),
		transitionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "content_engine_transition_conflicts_total",
			Help: "Optimistic-concurrency conflicts on status transitions",
		}),
		scoresComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "content_engine_scores_computed_total",
			Help: "SEO scoring gate runs",
		}),
		scoreDistribution: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "content_engine_seo_score",
			Help:    "Distribution of computed SEO scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		ingestItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "content_engine_ingest_items_total",
			Help: "Queue suggestions created by the feed ingestion worker",
		}),
		ingestFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_engine_ingest_failures_total",
			Help: "Feed ingestion failures by reason",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_engine_http_requests_total",
			Help: "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "content_engine_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		c.transitions,
		c.transitionsRejected,
		c.transitionConflicts,
		c.scoresComputed,
		c.scoreDistribution,
		c.ingestItems,
		c.ingestFailures,
		c.httpRequests,
		c.httpDuration,
	)

	return c
}

// RecordTransition records a successful state machine transition
func (c *PrometheusCollector) RecordTransition(from, to string) {
	c.transitions.WithLabelValues(from, to).Inc()
}

// RecordTransitionRejected records a rejected transition by error kind
func (c *PrometheusCollector) RecordTransitionRejected(kind string) {
	c.transitionsRejected.WithLabelValues(kind).Inc()
}

// RecordTransitionConflict records a lost optimistic-concurrency race
func (c *PrometheusCollector) RecordTransitionConflict() {
	c.transitionConflicts.Inc()
}

// RecordScoreComputed records one scoring gate run
func (c *PrometheusCollector) RecordScoreComputed(score int) {
	c.scoresComputed.Inc()
	c.scoreDistribution.Observe(float64(score))
}

// RecordIngestItem records one ingested queue suggestion
func (c *PrometheusCollector) RecordIngestItem() {
	c.ingestItems.Inc()
}

// RecordIngestFailure records one ingestion failure
func (c *PrometheusCollector) RecordIngestFailure(reason string) {
	c.ingestFailures.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records one completed HTTP request
func (c *PrometheusCollector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, status).Inc()
	c.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// NopCollector discards all metrics; used in tests
type NopCollector struct{}

func (NopCollector) RecordTransition(from, to string)            {}
func (NopCollector) RecordTransitionRejected(kind string)        {}
func (NopCollector) RecordTransitionConflict()                   {}
func (NopCollector) RecordScoreComputed(score int)               {}
func (NopCollector) RecordIngestItem()                           {}
func (NopCollector) RecordIngestFailure(reason string)           {}
func (NopCollector) RecordHTTPRequest(m, p, s string, d time.Duration) {}
