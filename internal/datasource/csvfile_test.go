package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/models"
)

const csvHistory = `Date,Open,High,Low,Close,Volume
2024-01-01,100.0,102.0,99.0,101.0,100000
2024-01-02,101.0,103.0,100.0,102.0,110000
2024-01-03,102.0,104.0,101.0,103.5,120000
`

func writeCSVFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "RELIANCE.csv"), []byte(csvHistory), 0o644))

	fundamentals := `{
		"RELIANCE": {"sector": "Energy", "pe": 24.5, "roe": 9.2}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fundamentals.json"), []byte(fundamentals), 0o644))
	return dir
}

func TestCSVGetPriceHistory(t *testing.T) {
	client := NewCSVClient(writeCSVFixtures(t), true, testLogger())

	ps, err := client.GetPriceHistory(context.Background(), "RELIANCE",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Equal(t, 3, ps.Len())
	assert.InDelta(t, 101.0, ps.Bars[0].Close, 1e-9)
	assert.InDelta(t, 103.5, ps.Bars[2].Close, 1e-9)
}

func TestCSVGetPriceHistoryRespectsRange(t *testing.T) {
	client := NewCSVClient(writeCSVFixtures(t), true, testLogger())

	ps, err := client.GetPriceHistory(context.Background(), "RELIANCE",
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 1, ps.Len())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ps.Bars[0].Time)
}

func TestCSVGetPriceHistoryUnknownSymbol(t *testing.T) {
	client := NewCSVClient(writeCSVFixtures(t), true, testLogger())

	_, err := client.GetPriceHistory(context.Background(), "NOPE", time.Time{}, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCSVGetFundamentals(t *testing.T) {
	client := NewCSVClient(writeCSVFixtures(t), true, testLogger())

	snapshot, err := client.GetFundamentals(context.Background(), "RELIANCE")
	require.NoError(t, err)
	assert.Equal(t, models.SectorEnergy, snapshot.Sector)
	require.NotNil(t, snapshot.PE)
	assert.InDelta(t, 24.5, *snapshot.PE, 1e-9)
	assert.Nil(t, snapshot.PB)

	_, err = client.GetFundamentals(context.Background(), "NOPE")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCSVDisabled(t *testing.T) {
	client := NewCSVClient(t.TempDir(), false, testLogger())
	_, err := client.GetPriceHistory(context.Background(), "RELIANCE", time.Time{}, time.Now())
	assert.ErrorIs(t, err, ErrSourceDisabled)
}
