package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Nikhil170404/Tradee/internal/database"
	"github.com/Nikhil170404/Tradee/internal/models"
)

const errScanBacktestResult = "failed to scan backtest result: %w"

const backtestResultColumns = `id, symbol, run_date, start_date, end_date, initial_capital, final_capital,
	total_return, sharpe_ratio, max_drawdown, total_trades, win_rate, profit_factor,
	recommendation, position_size_pct, full_results, created_at`

// PostgresBacktestResultRepository implements BacktestResultRepository for PostgreSQL
type PostgresBacktestResultRepository struct {
	db *database.DB
}

// NewPostgresBacktestResultRepository creates a new backtest result repository
func NewPostgresBacktestResultRepository(db *database.DB) BacktestResultRepository {
	return &PostgresBacktestResultRepository{db: db}
}

// Save inserts a backtest result
func (r *PostgresBacktestResultRepository) Save(ctx context.Context, result *models.BacktestResult) error {
	query := `
		INSERT INTO backtest_results (
			id, symbol, run_date, start_date, end_date,
			initial_capital, final_capital, total_return, sharpe_ratio, max_drawdown,
			total_trades, win_rate, profit_factor, recommendation, position_size_pct,
			full_results, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		result.ID, result.Symbol, result.RunDate, result.StartDate, result.EndDate,
		result.InitialCapital, result.FinalCapital, result.TotalReturn, result.SharpeRatio, result.MaxDrawdown,
		result.TotalTrades, result.WinRate, result.ProfitFactor, result.Recommendation, result.PositionSizePct,
		result.FullResults, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save backtest result: %w", err)
	}
	return nil
}

// GetByID retrieves a backtest result by ID
func (r *PostgresBacktestResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + ` FROM backtest_results WHERE id = $1`

	result := &models.BacktestResult{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&result.ID, &result.Symbol, &result.RunDate, &result.StartDate, &result.EndDate,
		&result.InitialCapital, &result.FinalCapital, &result.TotalReturn, &result.SharpeRatio, &result.MaxDrawdown,
		&result.TotalTrades, &result.WinRate, &result.ProfitFactor,
		&result.Recommendation, &result.PositionSizePct, &result.FullResults, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf(errScanBacktestResult, err)
	}
	return result, nil
}

// GetBySymbol retrieves backtest results for a symbol, newest first
func (r *PostgresBacktestResultRepository) GetBySymbol(ctx context.Context, symbol string) ([]*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + ` FROM backtest_results WHERE symbol = $1 ORDER BY run_date DESC`

	rows, err := r.db.GetPool().Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest results: %w", err)
	}
	defer rows.Close()

	return scanBacktestResults(rows)
}

// GetLatest retrieves the most recent backtest results
func (r *PostgresBacktestResultRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + ` FROM backtest_results ORDER BY run_date DESC LIMIT $1`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest backtest results: %w", err)
	}
	defer rows.Close()

	return scanBacktestResults(rows)
}

// GetByDateRange retrieves backtest results within a date range
func (r *PostgresBacktestResultRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + ` FROM backtest_results
		WHERE run_date >= $1 AND run_date <= $2 ORDER BY run_date DESC`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest results by date range: %w", err)
	}
	defer rows.Close()

	return scanBacktestResults(rows)
}

func scanBacktestResults(rows pgx.Rows) ([]*models.BacktestResult, error) {
	var results []*models.BacktestResult
	for rows.Next() {
		result := &models.BacktestResult{}
		if err := rows.Scan(
			&result.ID, &result.Symbol, &result.RunDate, &result.StartDate, &result.EndDate,
			&result.InitialCapital, &result.FinalCapital, &result.TotalReturn, &result.SharpeRatio, &result.MaxDrawdown,
			&result.TotalTrades, &result.WinRate, &result.ProfitFactor,
			&result.Recommendation, &result.PositionSizePct, &result.FullResults, &result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanBacktestResult, err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
