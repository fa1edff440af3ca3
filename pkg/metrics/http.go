package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts API requests by status code and method.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests, by status code and method",
		},
		[]string{"code", "method"},
	)

	// HTTPDuration observes API latency by method.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency, by method",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// InstrumentHandler wraps next with the request counter and latency histogram.
func InstrumentHandler(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(HTTPDuration,
		promhttp.InstrumentHandlerCounter(HTTPRequests, next))
}
