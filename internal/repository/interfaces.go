package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// BacktestResultRepository defines the interface for backtest result data access
type BacktestResultRepository interface {
	Save(ctx context.Context, result *models.BacktestResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestResult, error)
	GetBySymbol(ctx context.Context, symbol string) ([]*models.BacktestResult, error)
	GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.BacktestResult, error)
}

// ScreenerSignalRepository defines the interface for screener signal data access
type ScreenerSignalRepository interface {
	SaveBatch(ctx context.Context, signals []*models.ScreenerSignal) error
	GetByScanID(ctx context.Context, scanID uuid.UUID) ([]*models.ScreenerSignal, error)
	GetLatestForSymbol(ctx context.Context, symbol string, limit int) ([]*models.ScreenerSignal, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
