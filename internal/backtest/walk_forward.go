package backtest

import (
	"context"
	"fmt"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// WalkForwardWindow is one out-of-sample slice of the full history
type WalkForwardWindow struct {
	WindowID   int        `json:"window_id"`
	Evaluation Evaluation `json:"evaluation"`
}

// WalkForwardResult aggregates per-window evaluations. A rule that only
// works in one slice of history is curve luck, not edge; the
// consistency score is the fraction of windows that were profitable.
type WalkForwardResult struct {
	Windows          []WalkForwardWindow `json:"windows"`
	ConsistencyScore float64             `json:"consistency_score"`
	MeanWinRate      float64             `json:"mean_win_rate"`
	MeanReturn       float64             `json:"mean_return_pct"`
}

// RunWalkForward splits the series into n sequential windows and runs
// an independent simulation over each. Every window starts flat with
// fresh capital so results are comparable.
func RunWalkForward(ctx context.Context, sim *Simulator, ps *models.PriceSeries, fund *models.FundamentalSnapshot, sent *models.SentimentSnapshot, n int) (WalkForwardResult, error) {
	if sim == nil {
		return WalkForwardResult{}, fmt.Errorf("simulator is required")
	}
	if n <= 0 {
		n = 4
	}
	if ps == nil || ps.Len() < n {
		return WalkForwardResult{}, fmt.Errorf("walk-forward: %w", models.ErrInsufficientHistory)
	}

	size := ps.Len() / n
	result := WalkForwardResult{}
	var winRates, returns []float64

	for w := 0; w < n; w++ {
		startIdx := w * size
		endIdx := startIdx + size
		if w == n-1 {
			endIdx = ps.Len()
		}
		window := &models.PriceSeries{Symbol: ps.Symbol, Bars: ps.Bars[startIdx:endIdx]}

		state, err := sim.Run(ctx, window, fund, sent)
		if err != nil {
			return WalkForwardResult{}, fmt.Errorf("window %d: %w", w+1, err)
		}
		eval := Evaluate(ps.Symbol, state, sim.Config())
		result.Windows = append(result.Windows, WalkForwardWindow{WindowID: w + 1, Evaluation: eval})

		if eval.TotalReturn > 0 {
			result.ConsistencyScore++
		}
		winRates = append(winRates, eval.WinRate)
		returns = append(returns, eval.TotalReturn)
	}

	result.ConsistencyScore /= float64(n)
	result.MeanWinRate = average(winRates)
	result.MeanReturn = average(returns)
	return result, nil
}
