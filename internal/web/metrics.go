package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carrental",
		Name:      "http_requests_total",
		Help:      "Requests served by the web front-end.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "carrental",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of requests served by the web front-end.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	guardRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carrental",
		Name:      "guard_rejections_total",
		Help:      "Requests turned away by a route guard.",
	}, []string{"guard", "reason"})
)
