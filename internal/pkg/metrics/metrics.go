package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EnrollmentOutcomes counts enrollment engine results by outcome
// (enrolled, waitlisted, withdrawn, override, rejected).
var EnrollmentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "enrollment",
	Name:      "outcomes_total",
	Help:      "Enrollment engine outcomes by type",
}, []string{"outcome"})

// AccessDenials counts scope/role denials recorded by the access layer.
var AccessDenials = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "enrollment",
	Name:      "access_denials_total",
	Help:      "Requests denied by role or scope checks",
})

// HTTPRequestDuration observes request latency by method, path and status.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "enrollment",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "path", "status"})

// Handler returns the prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
