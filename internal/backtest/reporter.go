package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// GenerateConsoleReport formats a pipeline report for terminal output
func GenerateConsoleReport(report *Report) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Backtest Report: %s\n", report.Symbol))
	builder.WriteString("=========================\n")
	builder.WriteString(fmt.Sprintf("Verdict:         %s (size %.1f%%)\n", report.Recommendation.Verdict, report.Recommendation.PositionSizePct))
	builder.WriteString(fmt.Sprintf("Signal:          %s (score %.1f, confidence %s, %d conflicts)\n",
		report.Signal.Action, report.Signal.OverallScore, report.Signal.Confidence, report.Signal.ConflictCount()))
	builder.WriteString(fmt.Sprintf("Trades:          %d (win rate %.1f%%, significance %s)\n",
		report.Evaluation.TotalTrades, report.Evaluation.WinRate, report.Evaluation.Significance))
	builder.WriteString(fmt.Sprintf("Total Return:    %.2f%% (buy & hold %.2f%%)\n",
		report.Evaluation.TotalReturn, report.Evaluation.BuyHoldReturn))
	builder.WriteString(fmt.Sprintf("CAGR:            %.2f%%\n", report.Evaluation.CAGR))
	builder.WriteString(fmt.Sprintf("Volatility:      %.2f%% annualized\n", report.Evaluation.Volatility))
	if report.Evaluation.SharpeRatio != nil {
		builder.WriteString(fmt.Sprintf("Sharpe Ratio:    %.2f\n", *report.Evaluation.SharpeRatio))
	} else {
		builder.WriteString("Sharpe Ratio:    undefined\n")
	}
	builder.WriteString(fmt.Sprintf("Max Drawdown:    %.2f%%\n", report.Evaluation.MaxDrawdown))
	if report.Evaluation.ProfitFactor.IsInf() {
		builder.WriteString("Profit Factor:   inf\n")
	} else {
		builder.WriteString(fmt.Sprintf("Profit Factor:   %.2f\n", float64(report.Evaluation.ProfitFactor)))
	}

	if len(report.Evaluation.ExitBreakdown) > 0 {
		builder.WriteString("Exit Breakdown:\n")
		for _, reason := range exitReasonOrder {
			if count, ok := report.Evaluation.ExitBreakdown[reason]; ok {
				builder.WriteString(fmt.Sprintf("  %-16s %d\n", reason, count))
			}
		}
	}
	if report.WalkForward != nil {
		builder.WriteString(fmt.Sprintf("Walk-Forward:    %.0f%% of windows profitable\n", report.WalkForward.ConsistencyScore*100))
	}
	if report.MonteCarlo != nil {
		builder.WriteString(fmt.Sprintf("Monte Carlo:     %.0f%% probability of profit, worst drawdown %.1f%%\n",
			report.MonteCarlo.ProbabilityOfProfit*100, report.MonteCarlo.WorstMaxDrawdown))
	}
	builder.WriteString(fmt.Sprintf("Rationale:       %s\n", report.Recommendation.Rationale))
	return builder.String()
}

// WriteEquityCurveCSV writes the equity curve for offline charting
func WriteEquityCurveCSV(report *Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(report.EquityCurve.ToCSV()), 0o644)
}

// WriteJSONReport writes the full report document
func WriteJSONReport(report *Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	full, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, full, 0o644)
}

// exitReasonOrder keeps the breakdown stable across runs
var exitReasonOrder = []models.ExitReason{
	models.ExitStopLoss,
	models.ExitTrailingStop,
	models.ExitTakeProfit,
	models.ExitSignal,
	models.ExitMaxHold,
	models.ExitEndOfBacktest,
}
