package backtest

import (
	"context"
	"fmt"
	"io"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/models"
	"github.com/Nikhil170404/Tradee/internal/repository"
	"github.com/Nikhil170404/Tradee/internal/signal"
)

type fakeProvider struct {
	series map[string]*models.PriceSeries
	funds  map[string]*models.FundamentalSnapshot
}

func (f *fakeProvider) GetPriceHistory(_ context.Context, symbol string, _, _ time.Time) (*models.PriceSeries, error) {
	ps, ok := f.series[symbol]
	if !ok {
		return nil, fmt.Errorf("no data for %s: %w", symbol, models.ErrNotFound)
	}
	return ps, nil
}

func (f *fakeProvider) GetFundamentals(_ context.Context, symbol string) (*models.FundamentalSnapshot, error) {
	fund, ok := f.funds[symbol]
	if !ok {
		return nil, models.ErrNotFound
	}
	return fund, nil
}

func (f *fakeProvider) Name() string    { return "fake" }
func (f *fakeProvider) IsEnabled() bool { return true }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// wavySeries produces an uptrend with pullbacks so the simulator sees
// both entries and stop exits rather than one monotonic hold.
func wavySeries(t *testing.T, symbol string, bars int) *models.PriceSeries {
	t.Helper()
	base := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.Bar, 0, bars)
	for i := 0; i < bars; i++ {
		price := 100 + 0.15*float64(i) + 4*math.Sin(float64(i)/9)
		out = append(out, models.Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   price - 0.4,
			High:   price + 1.2,
			Low:    price - 1.2,
			Close:  price,
			Volume: 1_200_000,
		})
	}
	ps, err := models.NewPriceSeries(symbol, out)
	require.NoError(t, err)
	return ps
}

func testEngineConfig() SimulationConfig {
	cfg := DefaultSimulationConfig()
	cfg.StartDate = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg.EndDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg.MonteCarloIterations = 100
	return cfg
}

func newTestEngine(t *testing.T, provider *fakeProvider, results repository.BacktestResultRepository) *Engine {
	t.Helper()
	log := quietLogger()
	engine, err := NewEngine(testEngineConfig(), provider, signal.NewScorer(log), nil, results, log)
	require.NoError(t, err)
	return engine
}

func TestNewEngineRequiresProviderAndEvaluator(t *testing.T) {
	log := quietLogger()
	provider := &fakeProvider{}

	_, err := NewEngine(testEngineConfig(), nil, signal.NewScorer(log), nil, nil, log)
	assert.ErrorContains(t, err, "provider")

	_, err = NewEngine(testEngineConfig(), provider, nil, nil, nil, log)
	assert.ErrorContains(t, err, "evaluator")
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	log := quietLogger()
	cfg := testEngineConfig()
	cfg.InitialCapital = -1

	_, err := NewEngine(cfg, &fakeProvider{}, signal.NewScorer(log), nil, nil, log)
	assert.Error(t, err)
}

func TestEvaluateSignalScoresSymbol(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{"RELIANCE": wavySeries(t, "RELIANCE", 260)},
	}
	engine := newTestEngine(t, provider, nil)

	cs, err := engine.EvaluateSignal(context.Background(), "RELIANCE")
	require.NoError(t, err)
	assert.Equal(t, "RELIANCE", cs.Symbol)
	assert.GreaterOrEqual(t, cs.OverallScore, 0.0)
	assert.LessOrEqual(t, cs.OverallScore, 100.0)
	assert.NotEmpty(t, cs.Action)
}

func TestEvaluateSignalMissingPricesIsError(t *testing.T) {
	engine := newTestEngine(t, &fakeProvider{series: map[string]*models.PriceSeries{}}, nil)

	_, err := engine.EvaluateSignal(context.Background(), "MISSING")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRunBacktestProducesReport(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{"TCS": wavySeries(t, "TCS", 300)},
	}
	engine := newTestEngine(t, provider, nil)

	report, err := engine.RunBacktest(context.Background(), "TCS")
	require.NoError(t, err)

	assert.Equal(t, "TCS", report.Symbol)
	assert.NotNil(t, report.Signal)
	assert.Equal(t, "TCS", report.Evaluation.Symbol)
	assert.NotEmpty(t, report.EquityCurve)
	assert.NotEmpty(t, report.Recommendation.Verdict)
	assert.Positive(t, report.Evaluation.BuyHoldReturn, "uptrend series must report a positive buy-hold benchmark")
	if report.Evaluation.TotalTrades > 0 {
		assert.NotNil(t, report.MonteCarlo)
	}
}

func TestRunBacktestPersistsResult(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{"INFY": wavySeries(t, "INFY", 300)},
	}
	repo := repository.NewInMemoryBacktestResultRepository()
	engine := newTestEngine(t, provider, repo)

	report, err := engine.RunBacktest(context.Background(), "INFY")
	require.NoError(t, err)

	saved, err := repo.GetBySymbol(context.Background(), "INFY")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, string(report.Recommendation.Verdict), saved[0].Recommendation)
	assert.NotEmpty(t, saved[0].FullResults)
}

func TestRecommendMatchesReportRecommendation(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{"HDFCBANK": wavySeries(t, "HDFCBANK", 280)},
	}
	engine := newTestEngine(t, provider, nil)

	rec, err := engine.Recommend(context.Background(), "HDFCBANK")
	require.NoError(t, err)
	assert.Equal(t, "HDFCBANK", rec.Symbol)
	assert.NotEmpty(t, rec.Verdict)
	assert.NotEmpty(t, rec.Rationale)
}
