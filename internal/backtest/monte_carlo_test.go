package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/models"
)

func mcTrades(pnls ...float64) []*models.Trade {
	trades := make([]*models.Trade, len(pnls))
	for i, pnl := range pnls {
		trades[i] = tradeWithPnL(pnl, models.ExitSignal, i)
	}
	return trades
}

func TestMonteCarloDeterministicForSeed(t *testing.T) {
	trades := mcTrades(500, -200, 300, -150, 400, -100, 250, -300)
	cfg := MonteCarloConfig{Iterations: 200, InitialCapital: 10000, Seed: 42}

	first, err := RunMonteCarlo(trades, cfg)
	require.NoError(t, err)
	second, err := RunMonteCarlo(trades, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMonteCarloFinalEquityIsOrderInvariant(t *testing.T) {
	// Shuffling changes the path, never the sum of PnLs.
	trades := mcTrades(500, -200, 300, -150, 400)
	result, err := RunMonteCarlo(trades, MonteCarloConfig{Iterations: 100, InitialCapital: 10000, Seed: 7})
	require.NoError(t, err)

	assert.InDelta(t, 10850.0, result.MeanFinalEquity, 1e-6)
	assert.InDelta(t, 0.0, result.StdFinalEquity, 1e-6)
	assert.Equal(t, 1.0, result.ProbabilityOfProfit)
}

func TestMonteCarloDrawdownVariesWithOrder(t *testing.T) {
	trades := mcTrades(1000, 1000, 1000, -900, -900, 1000, 1000)
	result, err := RunMonteCarlo(trades, MonteCarloConfig{Iterations: 500, InitialCapital: 10000, Seed: 99})
	require.NoError(t, err)

	assert.Greater(t, result.MeanMaxDrawdown, 0.0)
	assert.GreaterOrEqual(t, result.WorstMaxDrawdown, result.MeanMaxDrawdown)
	assert.Len(t, result.Percentiles, 5)
	assert.LessOrEqual(t, result.Percentiles["p05"], result.Percentiles["p95"])
}

func TestMonteCarloRuinProbability(t *testing.T) {
	// Every ordering loses 80% of capital at some point.
	trades := mcTrades(-2000, -2000, -2000, -2000)
	result, err := RunMonteCarlo(trades, MonteCarloConfig{Iterations: 100, InitialCapital: 10000, Seed: 3, RuinDrawdownPct: 50})
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.ProbabilityOfRuin)
	assert.Zero(t, result.ProbabilityOfProfit)
}

func TestMonteCarloRejectsBadInput(t *testing.T) {
	_, err := RunMonteCarlo(nil, MonteCarloConfig{Iterations: 10, InitialCapital: 10000})
	assert.Error(t, err)

	_, err = RunMonteCarlo(mcTrades(100), MonteCarloConfig{Iterations: 10})
	assert.Error(t, err)
}
