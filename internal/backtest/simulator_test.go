package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// stubEvaluator drives the simulator with scripted signals keyed by
// bar date; unscripted dates read neutral.
type stubEvaluator struct {
	actions     map[string]models.Action
	volumeRatio float64
	confidence  models.Confidence
	conflicts   []models.Conflict
}

func newStubEvaluator() *stubEvaluator {
	return &stubEvaluator{
		actions:     make(map[string]models.Action),
		volumeRatio: 1.0,
		confidence:  models.ConfidenceMedium,
	}
}

func (s *stubEvaluator) Evaluate(ps *models.PriceSeries, _ *models.FundamentalSnapshot, _ *models.SentimentSnapshot) (*models.CompositeSignal, error) {
	last, _ := ps.Last()
	action, ok := s.actions[last.Time.Format("2006-01-02")]
	if !ok {
		action = models.ActionNeutral
	}
	return &models.CompositeSignal{
		Symbol:      ps.Symbol,
		AsOf:        last.Time,
		Action:      action,
		Confidence:  s.confidence,
		Conflicts:   s.conflicts,
		VolumeRatio: s.volumeRatio,
	}, nil
}

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func flatBar(i int) models.Bar {
	return models.Bar{
		Time: day0.AddDate(0, 0, i), Open: 100, High: 101, Low: 99, Close: 100, Volume: 100000,
	}
}

func dateOf(i int) string {
	return day0.AddDate(0, 0, i).Format("2006-01-02")
}

func testSimConfig() SimulationConfig {
	cfg := DefaultSimulationConfig()
	cfg.TransactionCostBps = 0
	cfg.MaxHoldDays = 0
	return cfg
}

func newTestSimulator(t *testing.T, cfg SimulationConfig, eval SignalEvaluator) *Simulator {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	sim, err := NewSimulator(cfg, eval, logger)
	require.NoError(t, err)
	return sim
}

func seriesOf(t *testing.T, bars []models.Bar) *models.PriceSeries {
	t.Helper()
	ps, err := models.NewPriceSeries("TEST", bars)
	require.NoError(t, err)
	return ps
}

// A single bar spanning both the stop and the target must be treated
// as a stop-loss: the adverse level is assumed to have been hit first.
func TestStopLossBeatsTakeProfitOnSameBar(t *testing.T) {
	bars := make([]models.Bar, 0, 17)
	for i := 0; i < 16; i++ {
		bars = append(bars, flatBar(i))
	}
	// Flat warmup gives ATR = 2: stop 96, target 110 from a 100 entry.
	wide := models.Bar{
		Time: day0.AddDate(0, 0, 16), Open: 100, High: 111, Low: 95, Close: 100, Volume: 100000,
	}
	bars = append(bars, wide)

	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)

	require.Len(t, state.Trades, 1)
	trade := state.Trades[0]
	assert.Equal(t, models.ExitStopLoss, trade.ExitReason)
	assert.InDelta(t, 96.0, trade.ExitPrice, 1e-9)
	assert.InDelta(t, 100.0, trade.EntryPrice, 1e-9)
}

func TestTakeProfitExit(t *testing.T) {
	bars := make([]models.Bar, 0, 18)
	for i := 0; i < 16; i++ {
		bars = append(bars, flatBar(i))
	}
	bars = append(bars, models.Bar{
		Time: day0.AddDate(0, 0, 16), Open: 100, High: 112, Low: 99, Close: 111, Volume: 100000,
	})

	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)

	require.Len(t, state.Trades, 1)
	assert.Equal(t, models.ExitTakeProfit, state.Trades[0].ExitReason)
	assert.InDelta(t, 110.0, state.Trades[0].ExitPrice, 1e-9)
	assert.Greater(t, state.Trades[0].PnL, 0.0)
}

func TestTrailingStopArmsAndTightens(t *testing.T) {
	bars := make([]models.Bar, 0, 20)
	for i := 0; i < 16; i++ {
		bars = append(bars, flatBar(i))
	}
	// Favorable move past the 3% activation arms the trail at
	// 106 * 0.95 = 100.70, above the fixed stop of 96.
	bars = append(bars, models.Bar{
		Time: day0.AddDate(0, 0, 16), Open: 100, High: 106, Low: 101, Close: 105, Volume: 100000,
	})
	// Pullback through the trail but not the fixed stop.
	bars = append(bars, models.Bar{
		Time: day0.AddDate(0, 0, 17), Open: 104, High: 105, Low: 100, Close: 101, Volume: 100000,
	})

	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)

	require.Len(t, state.Trades, 1)
	trade := state.Trades[0]
	assert.Equal(t, models.ExitTrailingStop, trade.ExitReason)
	assert.InDelta(t, 100.70, trade.ExitPrice, 1e-9)
	assert.Greater(t, trade.PnL, 0.0, "trailing exit locks in part of the move")
}

func TestSignalExitAtClose(t *testing.T) {
	bars := make([]models.Bar, 0, 18)
	for i := 0; i < 16; i++ {
		bars = append(bars, flatBar(i))
	}
	bars = append(bars, models.Bar{
		Time: day0.AddDate(0, 0, 16), Open: 100, High: 102, Low: 99, Close: 101, Volume: 100000,
	})

	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy
	eval.actions[dateOf(16)] = models.ActionSell

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)

	require.Len(t, state.Trades, 1)
	assert.Equal(t, models.ExitSignal, state.Trades[0].ExitReason)
	assert.InDelta(t, 101.0, state.Trades[0].ExitPrice, 1e-9)
}

func TestEntryFilterRejectsThinVolume(t *testing.T) {
	bars := make([]models.Bar, 0, 20)
	for i := 0; i < 20; i++ {
		bars = append(bars, flatBar(i))
	}
	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy
	eval.volumeRatio = 0.5

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, state.Trades)
	assert.True(t, state.Flat())
}

func TestEntryFilterRejectsTwoConflicts(t *testing.T) {
	bars := make([]models.Bar, 0, 20)
	for i := 0; i < 20; i++ {
		bars = append(bars, flatBar(i))
	}
	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy
	eval.conflicts = []models.Conflict{{Type: "A"}, {Type: "B"}}

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, state.Trades, "two conflicts are a hard no-trade regardless of score")
}

func TestEntryFilterRejectsLowConfidence(t *testing.T) {
	bars := make([]models.Bar, 0, 20)
	for i := 0; i < 20; i++ {
		bars = append(bars, flatBar(i))
	}
	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy
	eval.confidence = models.ConfidenceLow

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, state.Trades)
}

func TestPositionSizingRiskAndConvictionCap(t *testing.T) {
	bars := make([]models.Bar, 0, 17)
	for i := 0; i < 17; i++ {
		bars = append(bars, flatBar(i))
	}
	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy
	eval.volumeRatio = 1.0 // conviction ceiling 3% of equity

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)

	// Risk sizing alone would buy 5000 shares (2% of 1M over a 4-point
	// stop); the 3% value ceiling caps the position at 300 shares.
	require.Len(t, state.Trades, 1)
	assert.InDelta(t, 300.0, state.Trades[0].Shares, 1e-9)
}

func TestEndOfBacktestForcesClose(t *testing.T) {
	bars := make([]models.Bar, 0, 17)
	for i := 0; i < 17; i++ {
		bars = append(bars, flatBar(i))
	}
	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)

	require.Len(t, state.Trades, 1)
	assert.Equal(t, models.ExitEndOfBacktest, state.Trades[0].ExitReason)
	assert.True(t, state.Flat())
}

func TestMaxHoldExit(t *testing.T) {
	bars := make([]models.Bar, 0, 30)
	for i := 0; i < 30; i++ {
		bars = append(bars, flatBar(i))
	}
	eval := newStubEvaluator()
	eval.actions[dateOf(15)] = models.ActionBuy

	cfg := testSimConfig()
	cfg.MaxHoldDays = 5
	sim := newTestSimulator(t, cfg, eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)

	require.NotEmpty(t, state.Trades)
	assert.Equal(t, models.ExitMaxHold, state.Trades[0].ExitReason)
	assert.Equal(t, 5, state.Trades[0].Duration)
}

func TestTradeInvariants(t *testing.T) {
	bars := make([]models.Bar, 0, 120)
	price := 100.0
	for i := 0; i < 120; i++ {
		drift := 0.4
		if i%7 == 0 {
			drift = -2.5
		}
		price += drift
		bars = append(bars, models.Bar{
			Time: day0.AddDate(0, 0, i), Open: price - 0.2, High: price + 1.2, Low: price - 1.4, Close: price, Volume: 100000,
		})
	}

	eval := newStubEvaluator()
	for i := 15; i < 120; i++ {
		eval.actions[dateOf(i)] = models.ActionBuy
	}

	sim := newTestSimulator(t, testSimConfig(), eval)
	state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, state.Trades)

	valid := map[models.ExitReason]bool{
		models.ExitStopLoss: true, models.ExitTrailingStop: true,
		models.ExitTakeProfit: true, models.ExitSignal: true,
		models.ExitMaxHold: true, models.ExitEndOfBacktest: true,
	}
	for _, tr := range state.Trades {
		assert.True(t, tr.EntryTime.Before(tr.ExitTime), "entry must precede exit")
		assert.True(t, valid[tr.ExitReason], "unknown exit reason %s", tr.ExitReason)
		assert.Greater(t, tr.Shares, 0.0)
	}

	// Closed trades never overlap: each entry starts at or after the
	// prior exit (re-entry on the exit bar is allowed).
	for i := 1; i < len(state.Trades); i++ {
		assert.False(t, state.Trades[i].EntryTime.Before(state.Trades[i-1].ExitTime))
	}
}

func TestTransactionCostsReduceProfit(t *testing.T) {
	run := func(bps float64) float64 {
		bars := make([]models.Bar, 0, 18)
		for i := 0; i < 16; i++ {
			bars = append(bars, flatBar(i))
		}
		bars = append(bars, models.Bar{
			Time: day0.AddDate(0, 0, 16), Open: 100, High: 112, Low: 99, Close: 111, Volume: 100000,
		})
		eval := newStubEvaluator()
		eval.actions[dateOf(15)] = models.ActionBuy

		cfg := testSimConfig()
		cfg.TransactionCostBps = bps
		sim := newTestSimulator(t, cfg, eval)
		state, err := sim.Run(context.Background(), seriesOf(t, bars), nil, nil)
		require.NoError(t, err)
		require.Len(t, state.Trades, 1)
		return state.Trades[0].PnL
	}

	assert.Less(t, run(25), run(0), "costs on both sides must reduce net profit")
}

func TestRunEmptySeries(t *testing.T) {
	sim := newTestSimulator(t, testSimConfig(), newStubEvaluator())
	_, err := sim.Run(context.Background(), &models.PriceSeries{Symbol: "EMPTY"}, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientHistory)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := newTestSimulator(t, testSimConfig(), newStubEvaluator())
	bars := []models.Bar{flatBar(0)}
	_, err := sim.Run(ctx, seriesOf(t, bars), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
