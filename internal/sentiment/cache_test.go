package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/models"
)

func snapshotFixture(symbol string, news float64) *models.SentimentSnapshot {
	return &models.SentimentSnapshot{Symbol: symbol, NewsScore: models.Float(news)}
}

func TestSnapshotCacheHitAndMiss(t *testing.T) {
	c := NewSnapshotCache(time.Minute, 100)

	assert.Nil(t, c.Get("RELIANCE"))

	c.Set("RELIANCE", snapshotFixture("RELIANCE", 70))
	got := c.Get("RELIANCE")
	require.NotNil(t, got)
	assert.InDelta(t, 70.0, *got.NewsScore, 1e-9)

	hits, misses, ratio := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestSnapshotCacheExpiry(t *testing.T) {
	c := NewSnapshotCache(10*time.Millisecond, 100)
	c.Set("RELIANCE", snapshotFixture("RELIANCE", 70))

	time.Sleep(30 * time.Millisecond)
	assert.Nil(t, c.Get("RELIANCE"))
}

func TestSnapshotCacheInvalidateAndClear(t *testing.T) {
	c := NewSnapshotCache(time.Minute, 100)
	c.Set("RELIANCE", snapshotFixture("RELIANCE", 70))
	c.Set("TCS", snapshotFixture("TCS", 55))

	c.Invalidate("RELIANCE")
	assert.Nil(t, c.Get("RELIANCE"))
	assert.NotNil(t, c.Get("TCS"))

	c.Clear()
	assert.Zero(t, c.ItemCount())
	hits, misses, _ := c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

// countingClient records how often the upstream service is hit.
type countingClient struct {
	calls int
}

func (c *countingClient) Score(_ context.Context, symbol string) (*models.SentimentSnapshot, error) {
	c.calls++
	return snapshotFixture(symbol, 65), nil
}

func (c *countingClient) HealthCheck(context.Context) error { return nil }
func (c *countingClient) Close() error                      { return nil }

func TestCachedClientOnlyHitsUpstreamOnce(t *testing.T) {
	upstream := &countingClient{}
	client := NewCachedClientWith(upstream, NewSnapshotCache(time.Minute, 100), testLogger())

	for i := 0; i < 5; i++ {
		snapshot, err := client.Score(context.Background(), "RELIANCE")
		require.NoError(t, err)
		assert.InDelta(t, 65.0, *snapshot.NewsScore, 1e-9)
	}
	assert.Equal(t, 1, upstream.calls)

	client.Invalidate("RELIANCE")
	_, err := client.Score(context.Background(), "RELIANCE")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}
