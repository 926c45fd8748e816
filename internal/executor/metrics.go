package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotalMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeperf_requests_total",
		Help: "Requests issued, by routing method and outcome.",
	}, []string{"routing_method", "outcome"})

	requestLatencyMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "routeperf_request_latency_ms",
		Help: "Request wall-clock latency in milliseconds, by routing method.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000,
			10000, 30000, 60000},
	}, []string{"routing_method"})
)
