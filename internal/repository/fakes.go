package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// InMemoryBacktestResultRepository is a map-backed BacktestResultRepository
// for tests and dry runs without a database.
type InMemoryBacktestResultRepository struct {
	mu      sync.RWMutex
	results map[uuid.UUID]*models.BacktestResult
}

// NewInMemoryBacktestResultRepository creates an empty in-memory repository
func NewInMemoryBacktestResultRepository() *InMemoryBacktestResultRepository {
	return &InMemoryBacktestResultRepository{results: make(map[uuid.UUID]*models.BacktestResult)}
}

// Save stores a backtest result
func (r *InMemoryBacktestResultRepository) Save(_ context.Context, result *models.BacktestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.results[result.ID]; exists {
		return models.ErrDuplicateKey
	}
	clone := *result
	r.results[result.ID] = &clone
	return nil
}

// GetByID retrieves a backtest result by ID
func (r *InMemoryBacktestResultRepository) GetByID(_ context.Context, id uuid.UUID) (*models.BacktestResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *result
	return &clone, nil
}

// GetBySymbol retrieves backtest results for a symbol, newest first
func (r *InMemoryBacktestResultRepository) GetBySymbol(_ context.Context, symbol string) ([]*models.BacktestResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var results []*models.BacktestResult
	for _, result := range r.results {
		if result.Symbol == symbol {
			clone := *result
			results = append(results, &clone)
		}
	}
	sortResultsByRunDate(results)
	return results, nil
}

// GetLatest retrieves the most recent backtest results
func (r *InMemoryBacktestResultRepository) GetLatest(_ context.Context, limit int) ([]*models.BacktestResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := make([]*models.BacktestResult, 0, len(r.results))
	for _, result := range r.results {
		clone := *result
		results = append(results, &clone)
	}
	sortResultsByRunDate(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetByDateRange retrieves backtest results within a date range
func (r *InMemoryBacktestResultRepository) GetByDateRange(_ context.Context, start, end time.Time) ([]*models.BacktestResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var results []*models.BacktestResult
	for _, result := range r.results {
		if !result.RunDate.Before(start) && !result.RunDate.After(end) {
			clone := *result
			results = append(results, &clone)
		}
	}
	sortResultsByRunDate(results)
	return results, nil
}

// Count returns how many results are stored
func (r *InMemoryBacktestResultRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

func sortResultsByRunDate(results []*models.BacktestResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].RunDate.After(results[j].RunDate)
	})
}

// InMemoryScreenerSignalRepository is a slice-backed ScreenerSignalRepository
// for tests.
type InMemoryScreenerSignalRepository struct {
	mu      sync.RWMutex
	signals []*models.ScreenerSignal
}

// NewInMemoryScreenerSignalRepository creates an empty in-memory repository
func NewInMemoryScreenerSignalRepository() *InMemoryScreenerSignalRepository {
	return &InMemoryScreenerSignalRepository{}
}

// SaveBatch stores one scan's signals
func (r *InMemoryScreenerSignalRepository) SaveBatch(_ context.Context, signals []*models.ScreenerSignal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, signal := range signals {
		clone := *signal
		r.signals = append(r.signals, &clone)
	}
	return nil
}

// GetByScanID retrieves all signals produced by one scan, best score first
func (r *InMemoryScreenerSignalRepository) GetByScanID(_ context.Context, scanID uuid.UUID) ([]*models.ScreenerSignal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.ScreenerSignal
	for _, signal := range r.signals {
		if signal.ScanID == scanID {
			clone := *signal
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Score > matched[j].Score })
	return matched, nil
}

// GetLatestForSymbol retrieves the most recent signals for a symbol
func (r *InMemoryScreenerSignalRepository) GetLatestForSymbol(_ context.Context, symbol string, limit int) ([]*models.ScreenerSignal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.ScreenerSignal
	for _, signal := range r.signals {
		if signal.Symbol == symbol {
			clone := *signal
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ScannedAt.After(matched[j].ScannedAt) })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// DeleteOlderThan removes signals scanned before the cutoff
func (r *InMemoryScreenerSignalRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.signals[:0]
	var deleted int64
	for _, signal := range r.signals {
		if signal.ScannedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, signal)
	}
	r.signals = kept
	return deleted, nil
}
