package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/config"
	"github.com/Nikhil170404/Tradee/internal/models"
	"github.com/Nikhil170404/Tradee/internal/screener"
	"github.com/Nikhil170404/Tradee/internal/signal"
)

type staticProvider struct{}

func (staticProvider) GetPriceHistory(_ context.Context, symbol string, _, _ time.Time) (*models.PriceSeries, error) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 0, 40)
	for i := 0; i < 40; i++ {
		bars = append(bars, models.Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100,
			Volume: 1_000_000,
		})
	}
	return models.NewPriceSeries(symbol, bars)
}

func (staticProvider) GetFundamentals(context.Context, string) (*models.FundamentalSnapshot, error) {
	return nil, models.ErrNotFound
}

func (staticProvider) Name() string    { return "static" }
func (staticProvider) IsEnabled() bool { return true }

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.ScreenerConfig{
		Universe:      []string{"RELIANCE"},
		Schedule:      "30 18 * * 1-5",
		TopN:          5,
		RetentionDays: 7,
		LookbackDays:  60,
	}
	scr, err := screener.New(cfg, staticProvider{}, signal.NewScorer(log), nil, nil, log)
	require.NoError(t, err)
	return NewScheduler(scr, log)
}

func TestScheduleScanRejectsBadExpression(t *testing.T) {
	s := newTestScheduler(t)
	assert.Error(t, s.ScheduleScan("not a cron expression"))
}

func TestStartWithoutJobsFails(t *testing.T) {
	s := newTestScheduler(t)
	assert.Error(t, s.Start())
}

func TestSchedulerLifecycle(t *testing.T) {
	s := newTestScheduler(t)

	require.NoError(t, s.ScheduleScan("30 18 * * 1-5"))
	require.NoError(t, s.ScheduleRetentionPrune(""))
	assert.Len(t, s.Entries(), 2)

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	// Jobs cannot be modified while running.
	assert.Error(t, s.ScheduleScan("@daily"))
	assert.Error(t, s.Start())

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.True(t, next.After(time.Now().Add(-time.Minute)))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	// Stopping twice is safe.
	require.NoError(t, s.Stop())
}
