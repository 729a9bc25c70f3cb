// Package sentiment provides a cached sentiment client implementation.
package sentiment

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/config"
	"github.com/Nikhil170404/Tradee/internal/models"
)

// CachedClient wraps a Client with snapshot caching
type CachedClient struct {
	client Client
	cache  *SnapshotCache
	logger *logrus.Logger
}

// NewCachedClient creates a new cached sentiment client
func NewCachedClient(cfg *config.SentimentConfig, logger *logrus.Logger) *CachedClient {
	return &CachedClient{
		client: NewHTTPClient(cfg, logger),
		cache: NewSnapshotCache(
			time.Duration(cfg.CacheTTLSeconds)*time.Second,
			cfg.CacheMaxSize,
		),
		logger: logger,
	}
}

// NewCachedClientWith wraps an existing client, used in tests
func NewCachedClientWith(client Client, cache *SnapshotCache, logger *logrus.Logger) *CachedClient {
	return &CachedClient{client: client, cache: cache, logger: logger}
}

// Score retrieves sentiment with caching
func (c *CachedClient) Score(ctx context.Context, symbol string) (*models.SentimentSnapshot, error) {
	if cached := c.cache.Get(symbol); cached != nil {
		c.logger.WithField("symbol", symbol).Debug("Sentiment cache hit")
		RequestsTotal.WithLabelValues("cache", "ok").Inc()
		return cached, nil
	}

	snapshot, err := c.client.Score(ctx, symbol)
	if err != nil {
		return nil, err
	}

	c.cache.Set(symbol, snapshot)
	return snapshot, nil
}

// HealthCheck checks the underlying service health
func (c *CachedClient) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}

// Invalidate drops the cached snapshot for a symbol
func (c *CachedClient) Invalidate(symbol string) {
	c.cache.Invalidate(symbol)
}

// CacheStats returns cache statistics
func (c *CachedClient) CacheStats() (hits, misses uint64, ratio float64) {
	return c.cache.Stats()
}

// Close closes the underlying client
func (c *CachedClient) Close() error {
	return c.client.Close()
}
