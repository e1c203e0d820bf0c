package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var sizeBuckets = prometheus.ExponentialBuckets(100, 10, 6) // 100B .. 10MB

// HTTP metrics. Every vector carries a route label that InstrumentRoute curries at
// registration time; promhttp fills in method and code.
var (
	HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method"},
	)

	HTTPRequestsInFlight = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)

	HTTPRequestSize = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "Approximate HTTP request size in bytes",
			Buckets:   sizeBuckets,
		},
		[]string{"route", "method"},
	)

	HTTPResponseSize = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response body size in bytes",
			Buckets:   sizeBuckets,
		},
		[]string{"route", "method"},
	)
)

// InstrumentRoute wraps the handler registered under a ServeMux pattern such as
// "POST /api/logbooks/{id}/approve". Path wildcards collapse to {param} so entity ids
// never become label values.
func InstrumentRoute(pattern string, next http.Handler) http.Handler {
	labels := prometheus.Labels{"route": RouteLabel(pattern)}

	var h http.Handler = next
	h = promhttp.InstrumentHandlerResponseSize(HTTPResponseSize.MustCurryWith(labels), h)
	h = promhttp.InstrumentHandlerRequestSize(HTTPRequestSize.MustCurryWith(labels), h)
	h = promhttp.InstrumentHandlerDuration(HTTPRequestDuration.MustCurryWith(labels), h)
	h = promhttp.InstrumentHandlerCounter(HTTPRequestsTotal.MustCurryWith(labels), h)
	return promhttp.InstrumentHandlerInFlight(HTTPRequestsInFlight, h)
}

// RouteLabel drops the method from a ServeMux pattern and replaces each {wildcard}
// segment with {param}.
func RouteLabel(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		pattern = path
	}
	if !strings.HasPrefix(pattern, "/") {
		return pattern
	}
	segments := strings.Split(pattern, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			segments[i] = "{param}"
		}
	}
	return strings.Join(segments, "/")
}
