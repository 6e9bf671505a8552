package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carrental"

// requestsTotal counts backend calls.
// Labels:
//   - method: HTTP method
//   - route: request path with numeric ids collapsed to ":id"
//   - status: HTTP status code, or "error" when no response arrived
var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the car-rental backend.",
	},
	[]string{"method", "route", "status"},
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Latency of requests sent to the car-rental backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// invalidationsTotal counts sessions invalidated by a 401 from the backend
var invalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of authorization-denied answers that invalidated a session.",
	},
)
