// Package sentiment provides Prometheus metrics for sentiment lookups.
package sentiment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks sentiment service lookups by outcome
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_requests_total",
			Help: "Total number of sentiment service lookups",
		},
		[]string{"source", "status"},
	)

	// RequestLatency tracks sentiment lookup latency
	RequestLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentiment_request_latency_seconds",
			Help:    "Sentiment lookup latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CacheHitRatio tracks the snapshot cache hit ratio
	CacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentiment_cache_hit_ratio",
			Help: "Sentiment snapshot cache hit ratio",
		},
	)
)
