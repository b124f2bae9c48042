// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for store operations.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder is the metrics surface used by the service and middleware layers.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordStoreOperation(operation, outcome string)
	RecordAuthVerification(result string)
	RecordEventPublish(eventType string, err error)
}

// Collector implements Recorder on top of Prometheus collectors.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	storeOperations *prometheus.CounterVec
	authResults     *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "focusbubble_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "focusbubble_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storeOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "focusbubble_blocked_app_operations_total",
			Help: "Blocked app store operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		authResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "focusbubble_auth_verifications_total",
			Help: "Identity token verifications by result.",
		}, []string{"result"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "focusbubble_events_published_total",
			Help: "Blocked app change events by type and outcome.",
		}, []string{"type", "outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.storeOperations,
		c.authResults,
		c.eventsPublished,
	)

	return c
}

// RecordHTTPRequest records a served request. Unmatched routes should be
// passed as an empty string so arbitrary paths don't create label values.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordStoreOperation(operation, outcome string) {
	c.storeOperations.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) RecordAuthVerification(result string) {
	c.authResults.WithLabelValues(result).Inc()
}

func (c *Collector) RecordEventPublish(eventType string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.eventsPublished.WithLabelValues(eventType, outcome).Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used when metrics are disabled and in tests.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordStoreOperation(string, string)                   {}
func (Nop) RecordAuthVerification(string)                         {}
func (Nop) RecordEventPublish(string, error)                      {}
