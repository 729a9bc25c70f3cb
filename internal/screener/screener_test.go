package screener

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/config"
	"github.com/Nikhil170404/Tradee/internal/datasource"
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

type fakeSentiment struct {
	calls int
}

func (f *fakeSentiment) Score(_ context.Context, symbol string) (*models.SentimentSnapshot, error) {
	f.calls++
	return &models.SentimentSnapshot{Symbol: symbol, NewsScore: models.Float(60)}, nil
}

func (f *fakeSentiment) HealthCheck(context.Context) error { return nil }
func (f *fakeSentiment) Close() error                      { return nil }

func trendSeries(t *testing.T, symbol string, bars int, drift float64) *models.PriceSeries {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Bar, 0, bars)
	for i := 0; i < bars; i++ {
		price := 100 + drift*float64(i)
		out = append(out, models.Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   price - 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1_000_000,
		})
	}
	ps, err := models.NewPriceSeries(symbol, out)
	require.NoError(t, err)
	return ps
}

func testScreenerConfig(universe ...string) config.ScreenerConfig {
	return config.ScreenerConfig{
		Universe:      universe,
		Schedule:      "30 18 * * 1-5",
		MinScore:      60,
		TopN:          10,
		RetentionDays: 30,
		LookbackDays:  120,
	}
}

func newTestScreener(t *testing.T, cfg config.ScreenerConfig, provider datasource.Provider, repo repository.ScreenerSignalRepository) *Screener {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	scr, err := New(cfg, provider, signal.NewScorer(log), &fakeSentiment{}, repo, log)
	require.NoError(t, err)
	return scr
}

func TestNewRequiresProviderAndScorer(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	_, err := New(testScreenerConfig("RELIANCE"), nil, signal.NewScorer(log), nil, nil, log)
	assert.Error(t, err)

	_, err = New(testScreenerConfig("RELIANCE"), &fakeProvider{}, nil, nil, nil, log)
	assert.Error(t, err)

	_, err = New(config.ScreenerConfig{}, &fakeProvider{}, signal.NewScorer(log), nil, nil, log)
	assert.Error(t, err)
}

func TestScanEvaluatesUniverseAndSkipsFailures(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{
			"RELIANCE": trendSeries(t, "RELIANCE", 80, 0.5),
			"TCS":      trendSeries(t, "TCS", 80, -0.3),
		},
		funds: map[string]*models.FundamentalSnapshot{
			"RELIANCE": {Symbol: "RELIANCE", Sector: models.SectorEnergy, PE: models.Float(22), ROE: models.Float(14)},
		},
	}
	repo := repository.NewInMemoryScreenerSignalRepository()
	scr := newTestScreener(t, testScreenerConfig("RELIANCE", "TCS", "MISSING"), provider, repo)

	report, err := scr.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, []string{"MISSING"}, report.Failed)
	assert.Len(t, report.Categories.BestOverall, 2)
	assert.NotEmpty(t, report.Sectors)
	assert.NotEqual(t, report.ScanID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestScanPersistsOnlyActionableCategories(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{
			"RELIANCE": trendSeries(t, "RELIANCE", 80, 0.5),
		},
		funds: map[string]*models.FundamentalSnapshot{},
	}
	repo := repository.NewInMemoryScreenerSignalRepository()
	scr := newTestScreener(t, testScreenerConfig("RELIANCE"), provider, repo)

	report, err := scr.Scan(context.Background())
	require.NoError(t, err)

	saved, err := repo.GetByScanID(context.Background(), report.ScanID)
	require.NoError(t, err)
	assert.Len(t, saved, len(report.Categories.StrongBuy)+len(report.Categories.StrongSell))
}

func TestScanAllSymbolsFailingIsAnError(t *testing.T) {
	provider := &fakeProvider{series: map[string]*models.PriceSeries{}}
	scr := newTestScreener(t, testScreenerConfig("GHOST"), provider, nil)

	_, err := scr.Scan(context.Background())
	assert.Error(t, err)
}

func TestScanHonorsContextCancellation(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{
			"RELIANCE": trendSeries(t, "RELIANCE", 80, 0.5),
		},
	}
	scr := newTestScreener(t, testScreenerConfig("RELIANCE"), provider, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scr.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanPrefersStreamedQuotePrice(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{
			"RELIANCE": trendSeries(t, "RELIANCE", 80, 0.5),
		},
	}
	scr := newTestScreener(t, testScreenerConfig("RELIANCE"), provider, nil)
	scr.lastQuotes["RELIANCE"] = datasource.Quote{Symbol: "RELIANCE", LastPrice: 142.75}

	report, err := scr.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Categories.BestOverall, 1)
	assert.Equal(t, 142.75, report.Categories.BestOverall[0].CurrentPrice)
}

func TestPruneDeletesOldSignals(t *testing.T) {
	repo := repository.NewInMemoryScreenerSignalRepository()
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{
			"RELIANCE": trendSeries(t, "RELIANCE", 80, 0.5),
		},
	}
	cfg := testScreenerConfig("RELIANCE")
	cfg.RetentionDays = 7
	scr := newTestScreener(t, cfg, provider, repo)

	stale := &models.ScreenerSignal{
		Symbol:    "OLD",
		Category:  CategoryStrongBuy,
		ScannedAt: time.Now().UTC().AddDate(0, 0, -30),
	}
	require.NoError(t, repo.SaveBatch(context.Background(), []*models.ScreenerSignal{stale}))

	deleted, err := scr.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestPruneWithoutRepositoryIsNoop(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*models.PriceSeries{
			"RELIANCE": trendSeries(t, "RELIANCE", 80, 0.5),
		},
	}
	scr := newTestScreener(t, testScreenerConfig("RELIANCE"), provider, nil)

	deleted, err := scr.Prune(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
