// Package metrics defines screener-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Screener counter vectors
var (
	ScreenerScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tradee",
		Name:      "screener_scans_total",
		Help:      "Total number of screener scans by status",
	}, []string{"status"})

	ScreenerSignalsFound = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tradee",
		Name:      "screener_signals_found_total",
		Help:      "Total number of screener signals by category",
	}, []string{"category"})
)

// Screener histogram vectors
var (
	ScreenerScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tradee",
		Name:      "screener_scan_duration_seconds",
		Help:      "Duration of full universe scans in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
)

// RecordScreenerScan records a completed scan.
// status should be one of: "success", "partial", "failure"
func RecordScreenerScan(status string, durationSeconds float64) {
	ScreenerScansTotal.WithLabelValues(status).Inc()
	ScreenerScanDuration.Observe(durationSeconds)
}

// RecordScreenerSignal records one signal found during a scan.
func RecordScreenerSignal(category string) {
	ScreenerSignalsFound.WithLabelValues(category).Inc()
}
