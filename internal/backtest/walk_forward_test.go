package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/models"
)

func TestWalkForwardSplitsIntoIndependentWindows(t *testing.T) {
	bars := make([]models.Bar, 80)
	for i := range bars {
		bars[i] = flatBar(i)
	}
	ps := seriesOf(t, bars)

	// One buy inside each 20-bar window, late enough for the
	// volatility window to be available.
	eval := newStubEvaluator()
	for _, i := range []int{16, 36, 56, 76} {
		eval.actions[dateOf(i)] = models.ActionBuy
	}

	sim := newTestSimulator(t, testSimConfig(), eval)
	result, err := RunWalkForward(context.Background(), sim, ps, nil, nil, 4)
	require.NoError(t, err)

	require.Len(t, result.Windows, 4)
	for w, window := range result.Windows {
		assert.Equal(t, w+1, window.WindowID)
		// Fresh capital each window, so each one trades exactly once.
		assert.Equal(t, 1, window.Evaluation.TotalTrades)
	}

	// Flat prices with zero costs close every trade at breakeven.
	assert.Zero(t, result.ConsistencyScore)
	assert.Zero(t, result.MeanWinRate)
	assert.InDelta(t, 0.0, result.MeanReturn, 1e-9)
}

func TestWalkForwardLastWindowAbsorbsRemainder(t *testing.T) {
	bars := make([]models.Bar, 85)
	for i := range bars {
		bars[i] = flatBar(i)
	}
	ps := seriesOf(t, bars)

	sim := newTestSimulator(t, testSimConfig(), newStubEvaluator())
	result, err := RunWalkForward(context.Background(), sim, ps, nil, nil, 4)
	require.NoError(t, err)

	require.Len(t, result.Windows, 4)
	var total int
	for _, window := range result.Windows {
		total += window.Evaluation.TradingDays
	}
	assert.Equal(t, 85, total)
	assert.Equal(t, 22, result.Windows[3].Evaluation.TradingDays)
}

func TestWalkForwardRejectsBadInput(t *testing.T) {
	sim := newTestSimulator(t, testSimConfig(), newStubEvaluator())

	_, err := RunWalkForward(context.Background(), nil, nil, nil, nil, 4)
	assert.Error(t, err)

	short := seriesOf(t, []models.Bar{flatBar(0), flatBar(1)})
	_, err = RunWalkForward(context.Background(), sim, short, nil, nil, 4)
	assert.ErrorIs(t, err, models.ErrInsufficientHistory)
}
