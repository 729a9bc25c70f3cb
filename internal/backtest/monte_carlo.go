package backtest

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// MonteCarloConfig configures trade-order resampling
type MonteCarloConfig struct {
	Iterations      int
	InitialCapital  float64
	RuinDrawdownPct float64
	Seed            int64
}

// MonteCarloResult summarizes the resampled outcome distribution.
// Shuffling the order of the same closed trades shows how much of a
// run's drawdown profile was luck of sequencing.
type MonteCarloResult struct {
	Iterations          int                `json:"iterations"`
	MeanFinalEquity     float64            `json:"mean_final_equity"`
	StdFinalEquity      float64            `json:"std_final_equity"`
	MeanMaxDrawdown     float64            `json:"mean_max_drawdown_pct"`
	WorstMaxDrawdown    float64            `json:"worst_max_drawdown_pct"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	Percentiles         map[string]float64 `json:"final_equity_percentiles"`
}

// RunMonteCarlo resamples the order of closed trades and rebuilds the
// equity path each iteration. Deterministic for a fixed non-zero seed.
func RunMonteCarlo(trades []*models.Trade, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if len(trades) == 0 {
		return MonteCarloResult{}, fmt.Errorf("monte carlo requires at least one closed trade")
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.InitialCapital <= 0 {
		return MonteCarloResult{}, fmt.Errorf("initial capital must be positive")
	}
	if cfg.RuinDrawdownPct <= 0 {
		cfg.RuinDrawdownPct = 50
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.PnL
	}

	finals := make([]float64, cfg.Iterations)
	drawdowns := make([]float64, cfg.Iterations)
	profitable, ruined := 0, 0

	for i := 0; i < cfg.Iterations; i++ {
		rng.Shuffle(len(pnls), func(a, b int) {
			pnls[a], pnls[b] = pnls[b], pnls[a]
		})

		equity := cfg.InitialCapital
		peak := equity
		maxDD := 0.0
		for _, pnl := range pnls {
			equity += pnl
			if equity > peak {
				peak = equity
			}
			if peak > 0 {
				if dd := (peak - equity) / peak * 100; dd > maxDD {
					maxDD = dd
				}
			}
		}

		finals[i] = equity
		drawdowns[i] = maxDD
		if equity > cfg.InitialCapital {
			profitable++
		}
		if maxDD >= cfg.RuinDrawdownPct {
			ruined++
		}
	}

	result := MonteCarloResult{
		Iterations:          cfg.Iterations,
		MeanFinalEquity:     average(finals),
		StdFinalEquity:      stddev(finals),
		MeanMaxDrawdown:     average(drawdowns),
		WorstMaxDrawdown:    percentile(drawdowns, 1.0),
		ProbabilityOfProfit: float64(profitable) / float64(cfg.Iterations),
		ProbabilityOfRuin:   float64(ruined) / float64(cfg.Iterations),
		Percentiles: map[string]float64{
			"p05": percentile(finals, 0.05),
			"p25": percentile(finals, 0.25),
			"p50": percentile(finals, 0.50),
			"p75": percentile(finals, 0.75),
			"p95": percentile(finals, 0.95),
		},
	}
	return result, nil
}

// percentile returns the p-quantile of values, p in [0,1]
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(p * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
