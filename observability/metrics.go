// Package observability holds the prometheus collectors shared by the router,
// the stores and the photo gateway.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts served requests by route pattern, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pinboard_http_requests_total",
		Help: "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration records request latency by route pattern and method.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pinboard_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// StoreQueryDuration records post store latency by operation.
	StoreQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pinboard_store_query_seconds",
		Help:    "Post store query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// UpstreamRequestsTotal counts calls to the photo API by outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pinboard_upstream_requests_total",
		Help: "Total number of photo API calls by outcome",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records the latency of a store operation when called.
func TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
