package backtest

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// Significance tiers by closed-trade count.
const (
	SignificanceMinTrades  = 30
	SignificanceGoodTrades = 100
	SignificanceHighTrades = 200
)

// ProfitFactor is gross profit over gross loss. It serializes the
// no-losing-trades case as the string "inf" instead of overflowing or
// producing NaN.
type ProfitFactor float64

// IsInf reports whether the factor is the no-losses sentinel
func (p ProfitFactor) IsInf() bool {
	return math.IsInf(float64(p), 1)
}

// MarshalJSON implements json.Marshaler
func (p ProfitFactor) MarshalJSON() ([]byte, error) {
	if p.IsInf() {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(p))
}

// UnmarshalJSON implements json.Unmarshaler
func (p *ProfitFactor) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*p = ProfitFactor(math.Inf(1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid profit factor: %w", err)
	}
	*p = ProfitFactor(v)
	return nil
}

// Evaluation holds the performance metrics of one simulation run.
// Sharpe and Sortino are nil when the run had zero volatility; that is
// reported as undefined, never as a division blowing up.
type Evaluation struct {
	Symbol        string                    `json:"symbol"`
	StartDate     time.Time                 `json:"start_date"`
	EndDate       time.Time                 `json:"end_date"`
	TradingDays   int                       `json:"trading_days"`
	InitialEquity float64                   `json:"initial_equity"`
	FinalEquity   float64                   `json:"final_equity"`
	TotalTrades   int                       `json:"total_trades"`
	WinningTrades int                       `json:"winning_trades"`
	LosingTrades  int                       `json:"losing_trades"`
	WinRate       float64                   `json:"win_rate_pct"`
	TotalReturn   float64                   `json:"total_return_pct"`
	BuyHoldReturn float64                   `json:"buy_hold_return_pct"`
	CAGR          float64                   `json:"cagr_pct"`
	Volatility    float64                   `json:"annualized_volatility_pct"`
	SharpeRatio   *float64                  `json:"sharpe_ratio"`
	SortinoRatio  *float64                  `json:"sortino_ratio"`
	MaxDrawdown   float64                   `json:"max_drawdown_pct"`
	ProfitFactor  ProfitFactor              `json:"profit_factor"`
	AverageWin    float64                   `json:"average_win"`
	AverageLoss   float64                   `json:"average_loss"`
	Expectancy    float64                   `json:"expectancy"`
	BestDayPnL    float64                   `json:"best_day_pnl"`
	WorstDayPnL   float64                   `json:"worst_day_pnl"`
	ExitBreakdown map[models.ExitReason]int `json:"exit_breakdown"`
	IsSignificant bool                      `json:"is_significant"`
	Significance  string                    `json:"significance"`
}

// Evaluate reduces a simulation run to its performance metrics
func Evaluate(symbol string, state *SimulationState, cfg SimulationConfig) Evaluation {
	eval := Evaluation{
		Symbol:        symbol,
		ExitBreakdown: make(map[models.ExitReason]int),
		Significance:  "NONE",
	}
	if state == nil || len(state.EquityCurve) == 0 {
		return eval
	}

	curve := state.EquityCurve
	eval.StartDate = curve[0].Time
	eval.EndDate = curve[len(curve)-1].Time
	eval.TradingDays = len(curve)
	eval.InitialEquity = curve[0].Value
	eval.FinalEquity = curve[len(curve)-1].Value

	if eval.InitialEquity > 0 {
		eval.TotalReturn = (eval.FinalEquity/eval.InitialEquity - 1) * 100
		eval.CAGR = calculateCAGR(eval.InitialEquity, eval.FinalEquity, eval.EndDate.Sub(eval.StartDate))
	}
	if state.FirstClose > 0 {
		eval.BuyHoldReturn = (state.LastClose/state.FirstClose - 1) * 100
	}
	eval.MaxDrawdown = curve.MaxDrawdown() * 100

	meanReturn := average(curve.GetReturns())
	eval.Volatility = curve.GetVolatility() * math.Sqrt(252) * 100
	eval.SharpeRatio = annualizedRatio(meanReturn, curve.GetVolatility(), cfg.RiskFreeRate)
	eval.SortinoRatio = annualizedRatio(meanReturn, curve.GetDownsideDeviation(), cfg.RiskFreeRate)

	eval.TotalTrades = len(state.Trades)
	var grossProfit, grossLoss float64
	for _, t := range state.Trades {
		eval.ExitBreakdown[t.ExitReason]++
		if t.IsWin() {
			eval.WinningTrades++
			grossProfit += t.PnL
		} else {
			eval.LosingTrades++
			grossLoss += -t.PnL
		}
	}
	if eval.TotalTrades > 0 {
		eval.WinRate = float64(eval.WinningTrades) / float64(eval.TotalTrades) * 100
		eval.Expectancy = (grossProfit - grossLoss) / float64(eval.TotalTrades)
	}
	if eval.WinningTrades > 0 {
		eval.AverageWin = grossProfit / float64(eval.WinningTrades)
	}
	if eval.LosingTrades > 0 {
		eval.AverageLoss = grossLoss / float64(eval.LosingTrades)
	}
	for _, pnl := range state.DailyPnL {
		if pnl > eval.BestDayPnL {
			eval.BestDayPnL = pnl
		}
		if pnl < eval.WorstDayPnL {
			eval.WorstDayPnL = pnl
		}
	}

	switch {
	case grossLoss > 0:
		eval.ProfitFactor = ProfitFactor(grossProfit / grossLoss)
	case grossProfit > 0:
		eval.ProfitFactor = ProfitFactor(math.Inf(1))
	}

	eval.IsSignificant = eval.TotalTrades >= SignificanceMinTrades
	switch {
	case eval.TotalTrades >= SignificanceHighTrades:
		eval.Significance = "HIGH"
	case eval.TotalTrades >= SignificanceGoodTrades:
		eval.Significance = "GOOD"
	case eval.TotalTrades >= SignificanceMinTrades:
		eval.Significance = "BASIC"
	}

	return eval
}

// calculateCAGR annualizes growth over the elapsed calendar time
func calculateCAGR(initial, final float64, elapsed time.Duration) float64 {
	days := elapsed.Hours() / 24
	if days <= 0 || initial <= 0 || final <= 0 {
		return 0
	}
	return (math.Pow(final/initial, 365.25/days) - 1) * 100
}

// annualizedRatio scales excess mean return by a deviation over 252
// trading days. Sharpe passes full volatility, Sortino the downside
// deviation. Returns nil when the deviation is zero: the ratio is
// undefined, not zero.
func annualizedRatio(meanReturn, deviation, riskFreeRate float64) *float64 {
	if deviation == 0 {
		return nil
	}
	ratio := (meanReturn - riskFreeRate/252.0) / deviation * math.Sqrt(252)
	return &ratio
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}
