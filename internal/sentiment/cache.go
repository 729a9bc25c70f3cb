// Package sentiment provides caching for sentiment snapshots.
package sentiment

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// SnapshotCache provides in-memory caching for sentiment snapshots.
// Sentiment moves on a news cycle, not tick by tick, so a short TTL
// spares the upstream service during universe scans.
type SnapshotCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewSnapshotCache creates a new snapshot cache
func NewSnapshotCache(ttl time.Duration, maxSize int) *SnapshotCache {
	return &SnapshotCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached snapshot, nil on miss
func (sc *SnapshotCache) Get(symbol string) *models.SentimentSnapshot {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if result, found := sc.cache.Get(symbol); found {
		if snapshot, ok := result.(*models.SentimentSnapshot); ok {
			sc.hitCount++
			sc.updateMetrics()
			return snapshot
		}
	}

	sc.missCount++
	sc.updateMetrics()
	return nil
}

// Set stores a snapshot in cache
func (sc *SnapshotCache) Set(symbol string, snapshot *models.SentimentSnapshot) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.cache.ItemCount() >= sc.maxSize {
		sc.cache.DeleteExpired()
	}
	sc.cache.Set(symbol, snapshot, sc.ttl)
}

// Invalidate removes the cached snapshot for a symbol
func (sc *SnapshotCache) Invalidate(symbol string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.Delete(symbol)
}

// Clear flushes the entire cache
func (sc *SnapshotCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.cache.Flush()
	sc.hitCount = 0
	sc.missCount = 0
}

// Stats returns cache statistics
func (sc *SnapshotCache) Stats() (hits, misses uint64, ratio float64) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.statsLocked()
}

func (sc *SnapshotCache) statsLocked() (hits, misses uint64, ratio float64) {
	hits = sc.hitCount
	misses = sc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (sc *SnapshotCache) ItemCount() int {
	return sc.cache.ItemCount()
}

func (sc *SnapshotCache) updateMetrics() {
	_, _, ratio := sc.statsLocked()
	CacheHitRatio.Set(ratio)
}
