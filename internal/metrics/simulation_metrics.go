// Package metrics defines simulation-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Simulation counter vectors
var (
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tradee",
		Name:      "simulations_total",
		Help:      "Total number of simulation runs by symbol and verdict",
	}, []string{"symbol", "verdict"})
)

// Simulation histogram vectors
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tradee",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of simulation runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	SimulationWinRate = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tradee",
		Name:      "simulation_win_rate",
		Help:      "Win rates from simulation runs by symbol",
		Buckets:   []float64{10, 20, 30, 40, 45, 50, 55, 60, 70, 80, 90},
	}, []string{"symbol"})
)

// RecordSimulation records a completed simulation run.
// verdict is the recommendation verdict, e.g. "STRONG" or "NOT_ENOUGH_DATA".
func RecordSimulation(symbol, verdict string, durationSeconds float64) {
	SimulationsTotal.WithLabelValues(symbol, verdict).Inc()
	SimulationDuration.Observe(durationSeconds)
}

// RecordSimulationWinRate records the win rate of a simulation run.
func RecordSimulationWinRate(symbol string, winRate float64) {
	SimulationWinRate.WithLabelValues(symbol).Observe(winRate)
}

// UpdateFinalEquity updates the last-simulation equity gauge for a symbol.
func UpdateFinalEquity(symbol string, equity float64) {
	LastSimulationEquity.WithLabelValues(symbol).Set(equity)
}
