package backtest

import (
	"fmt"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// Verdict classifies how much trust the historical evidence earns.
type Verdict string

const (
	VerdictStrong        Verdict = "STRONG"
	VerdictModerate      Verdict = "MODERATE"
	VerdictWeak          Verdict = "WEAK"
	VerdictNotProfitable Verdict = "NOT_PROFITABLE"
	VerdictNotEnoughData Verdict = "NOT_ENOUGH_DATA"
)

// Recommendation is the actionable output: a verdict with concrete
// entry, stop and target levels and a position size.
type Recommendation struct {
	Symbol          string  `json:"symbol"`
	Verdict         Verdict `json:"verdict"`
	PositionSizePct float64 `json:"position_size_pct"`
	Entry           float64 `json:"entry"`
	StopLoss        float64 `json:"stop_loss"`
	Target          float64 `json:"target"`
	Rationale       string  `json:"rationale"`
}

// Recommend maps a backtest evaluation plus the current signal to a
// verdict, evaluated in fixed order. Levels come from re-applying the
// simulator's sizing rule to the current price, never re-optimized.
func Recommend(eval Evaluation, cs *models.CompositeSignal, currentPrice, atr float64, cfg SimulationConfig) Recommendation {
	rec := Recommendation{Symbol: eval.Symbol}

	switch {
	case eval.TotalTrades < SignificanceMinTrades:
		rec.Verdict = VerdictNotEnoughData
		rec.PositionSizePct = 0
		rec.Rationale = fmt.Sprintf("only %d closed trades; %d needed before the result means anything", eval.TotalTrades, SignificanceMinTrades)
	case eval.WinRate < 45:
		rec.Verdict = VerdictNotProfitable
		rec.PositionSizePct = 0
		rec.Rationale = fmt.Sprintf("win rate %.1f%% below the 45%% viability floor", eval.WinRate)
	case eval.WinRate < 50:
		rec.Verdict = VerdictWeak
		rec.PositionSizePct = 1
		rec.Rationale = fmt.Sprintf("marginal win rate %.1f%%; minimum exposure only", eval.WinRate)
	case eval.WinRate < 60:
		rec.Verdict = VerdictModerate
		rec.PositionSizePct = 3
		rec.Rationale = fmt.Sprintf("win rate %.1f%% is workable; standard sizing", eval.WinRate)
	case eval.SharpeRatio != nil && *eval.SharpeRatio >= 1.0 && eval.TotalTrades >= SignificanceHighTrades:
		rec.Verdict = VerdictStrong
		rec.PositionSizePct = 5
		rec.Rationale = fmt.Sprintf("win rate %.1f%%, Sharpe %.2f over %d trades", eval.WinRate, *eval.SharpeRatio, eval.TotalTrades)
	default:
		rec.Verdict = VerdictModerate
		rec.PositionSizePct = 3
		rec.Rationale = fmt.Sprintf("win rate %.1f%% but Sharpe or sample size below the STRONG bar", eval.WinRate)
	}

	if currentPrice > 0 && atr > 0 {
		rec.Entry = currentPrice
		rec.StopLoss = currentPrice - cfg.ATRStopMultiple*atr
		rec.Target = currentPrice + cfg.RiskRewardRatio*(currentPrice-rec.StopLoss)
	}
	if cs != nil && !cs.Action.IsBuy() {
		rec.Rationale += "; current signal is not a buy, wait for a setup"
	}
	return rec
}
