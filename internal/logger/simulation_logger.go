// Package logger provides simulation-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for trade simulation runs.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger) *SimulationLogger {
	return &SimulationLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogSimulationStart logs the start of a simulation run.
func (sl *SimulationLogger) LogSimulationStart(symbol string, start, end time.Time, initialCapital float64, bars int) {
	sl.WithFields(logrus.Fields{
		"symbol":          symbol,
		"start_date":      start.Format("2006-01-02"),
		"end_date":        end.Format("2006-01-02"),
		"initial_capital": initialCapital,
		"bars":            bars,
	}).Info("Simulation started")
}

// LogTradeOpened logs a simulated position entry.
func (sl *SimulationLogger) LogTradeOpened(symbol string, entryDate time.Time, entryPrice float64, shares int64, stopLoss, target float64, convictionScore float64) {
	sl.WithFields(logrus.Fields{
		"symbol":           symbol,
		"entry_date":       entryDate.Format("2006-01-02"),
		"entry_price":      entryPrice,
		"shares":           shares,
		"stop_loss":        stopLoss,
		"target":           target,
		"conviction_score": convictionScore,
	}).Info("Position opened")
}

// LogTradeClosed logs a simulated position exit.
func (sl *SimulationLogger) LogTradeClosed(symbol string, exitDate time.Time, exitPrice float64, exitReason string, pnl, returnPct float64, holdDays int) {
	sl.WithFields(logrus.Fields{
		"symbol":      symbol,
		"exit_date":   exitDate.Format("2006-01-02"),
		"exit_price":  exitPrice,
		"exit_reason": exitReason,
		"pnl":         pnl,
		"return_pct":  returnPct,
		"hold_days":   holdDays,
	}).Info("Position closed")
}

// LogEvaluation logs the aggregate performance of a completed run.
func (sl *SimulationLogger) LogEvaluation(symbol string, totalTrades int, winRatePct, totalReturnPct, maxDrawdownPct float64, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"symbol":           symbol,
		"total_trades":     totalTrades,
		"win_rate_pct":     winRatePct,
		"total_return_pct": totalReturnPct,
		"max_drawdown_pct": maxDrawdownPct,
		"eval_duration_ms": durationMs,
	}).Info("Simulation evaluated")
}

// LogRecommendation logs the verdict produced for a symbol.
func (sl *SimulationLogger) LogRecommendation(symbol, verdict string, positionSizePct float64, significance string) {
	sl.WithFields(logrus.Fields{
		"symbol":            symbol,
		"verdict":           verdict,
		"position_size_pct": positionSizePct,
		"significance":      significance,
	}).Info("Recommendation issued")
}

// LogDrawdownWarning logs a run whose drawdown crossed the review threshold.
func (sl *SimulationLogger) LogDrawdownWarning(symbol string, drawdownPct, peakEquity, troughEquity float64) {
	sl.WithFields(logrus.Fields{
		"symbol":        symbol,
		"drawdown_pct":  drawdownPct,
		"peak_equity":   peakEquity,
		"trough_equity": troughEquity,
	}).Warn("Drawdown threshold exceeded")
}
