// Package metrics provides the centralized Prometheus metrics registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SignalEvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tradee",
		Name:      "signal_evaluations_total",
		Help:      "Total number of composite signal evaluations",
	})
	DataFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tradee",
		Name:      "data_fetches_total",
		Help:      "Total number of market data fetches by source and status",
	}, []string{"source", "status"})
)

// Gauge metrics
var (
	LastSimulationEquity = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tradee",
		Name:      "last_simulation_final_equity",
		Help:      "Final equity of the most recent simulation per symbol",
	}, []string{"symbol"})
	UniverseSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tradee",
		Name:      "screener_universe_size",
		Help:      "Number of symbols in the screener universe",
	})
)

// Histogram metrics
var (
	SignalEvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tradee",
		Name:      "signal_evaluation_duration_seconds",
		Help:      "Duration of composite signal evaluation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(SignalEvaluationsTotal)
		registry.MustRegister(DataFetchesTotal)

		registry.MustRegister(LastSimulationEquity)
		registry.MustRegister(UniverseSize)

		registry.MustRegister(SignalEvaluationDuration)

		// Simulation metrics
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(SimulationWinRate)

		// Screener metrics
		registry.MustRegister(ScreenerScansTotal)
		registry.MustRegister(ScreenerSignalsFound)
		registry.MustRegister(ScreenerScanDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSignalEvaluation records a composite signal evaluation.
func RecordSignalEvaluation(durationSeconds float64) {
	SignalEvaluationsTotal.Inc()
	SignalEvaluationDuration.Observe(durationSeconds)
}

// RecordDataFetch records a market data fetch attempt.
func RecordDataFetch(source, status string) {
	DataFetchesTotal.WithLabelValues(source, status).Inc()
}

// UpdateUniverseSize updates the screener universe size gauge.
func UpdateUniverseSize(count float64) {
	UniverseSize.Set(count)
}
