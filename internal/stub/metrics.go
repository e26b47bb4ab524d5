package stub

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cacheHits prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mulberry_stub",
			Name:      "requests_total",
			Help:      "Requests served by the stub inference service.",
		}, []string{"route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mulberry_stub",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving a request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mulberry_stub",
			Name:      "leaf_cache_hits_total",
			Help:      "Leaf predictions answered from the image-hash cache.",
		}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.cacheHits)
	return m
}
