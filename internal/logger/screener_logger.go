// Package logger provides screener logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ScreenerLogger provides dedicated logging for screener scans.
type ScreenerLogger struct {
	*logrus.Entry
}

// NewScreenerLogger creates a new screener logger.
func NewScreenerLogger(baseLogger *logrus.Logger) *ScreenerLogger {
	return &ScreenerLogger{
		Entry: baseLogger.WithField("component", "screener"),
	}
}

// LogScanStart logs the start of a universe scan.
func (sl *ScreenerLogger) LogScanStart(scanID string, universeSize int, startedAt time.Time) {
	sl.WithFields(logrus.Fields{
		"scan_id":       scanID,
		"universe_size": universeSize,
		"started_at":    startedAt.Unix(),
	}).Info("Screener scan started")
}

// LogSignal logs a single qualifying signal.
func (sl *ScreenerLogger) LogSignal(scanID, symbol, category string, score float64, action string) {
	sl.WithFields(logrus.Fields{
		"scan_id":  scanID,
		"symbol":   symbol,
		"category": category,
		"score":    score,
		"action":   action,
	}).Info("Screener signal recorded")
}

// LogSymbolSkipped logs a symbol dropped from the scan with its reason.
func (sl *ScreenerLogger) LogSymbolSkipped(scanID, symbol, reason string) {
	sl.WithFields(logrus.Fields{
		"scan_id": scanID,
		"symbol":  symbol,
		"reason":  reason,
	}).Warn("Symbol skipped during scan")
}

// LogScanComplete logs the outcome of a finished scan.
func (sl *ScreenerLogger) LogScanComplete(scanID string, scanned, signals int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"scan_id":     scanID,
		"scanned":     scanned,
		"signals":     signals,
		"duration_ms": durationMs,
	}).Info("Screener scan completed")
}

// LogRetentionPrune logs removal of signals older than the retention window.
func (sl *ScreenerLogger) LogRetentionPrune(cutoff time.Time, deleted int64) {
	sl.WithFields(logrus.Fields{
		"cutoff":  cutoff.Format("2006-01-02"),
		"deleted": deleted,
	}).Info("Old screener signals pruned")
}
