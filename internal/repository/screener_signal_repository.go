package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Nikhil170404/Tradee/internal/database"
	"github.com/Nikhil170404/Tradee/internal/models"
)

const screenerSignalColumns = `id, scan_id, symbol, sector, score, action, confidence,
	conflicts, volume_ratio, category, current_price, scanned_at`

// PostgresScreenerSignalRepository implements ScreenerSignalRepository for PostgreSQL
type PostgresScreenerSignalRepository struct {
	db *database.DB
}

// NewPostgresScreenerSignalRepository creates a new screener signal repository
func NewPostgresScreenerSignalRepository(db *database.DB) ScreenerSignalRepository {
	return &PostgresScreenerSignalRepository{db: db}
}

// SaveBatch inserts one scan's signals in a single transaction
func (r *PostgresScreenerSignalRepository) SaveBatch(ctx context.Context, signals []*models.ScreenerSignal) error {
	if len(signals) == 0 {
		return nil
	}

	query := `
		INSERT INTO screener_signals (
			id, scan_id, symbol, sector, score, action, confidence,
			conflicts, volume_ratio, category, current_price, scanned_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, signal := range signals {
			if _, err := tx.Exec(ctx, query,
				signal.ID, signal.ScanID, signal.Symbol, signal.Sector, signal.Score,
				signal.Action, signal.Confidence, signal.Conflicts, signal.VolumeRatio,
				signal.Category, signal.CurrentPrice, signal.ScannedAt,
			); err != nil {
				return fmt.Errorf("failed to save screener signal for %s: %w", signal.Symbol, err)
			}
		}
		return nil
	})
}

// GetByScanID retrieves all signals produced by one scan, best score first
func (r *PostgresScreenerSignalRepository) GetByScanID(ctx context.Context, scanID uuid.UUID) ([]*models.ScreenerSignal, error) {
	query := `SELECT ` + screenerSignalColumns + ` FROM screener_signals WHERE scan_id = $1 ORDER BY score DESC`

	rows, err := r.db.GetPool().Query(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query screener signals: %w", err)
	}
	defer rows.Close()

	return scanScreenerSignals(rows)
}

// GetLatestForSymbol retrieves the most recent signals for a symbol
func (r *PostgresScreenerSignalRepository) GetLatestForSymbol(ctx context.Context, symbol string, limit int) ([]*models.ScreenerSignal, error) {
	query := `SELECT ` + screenerSignalColumns + ` FROM screener_signals
		WHERE symbol = $1 ORDER BY scanned_at DESC LIMIT $2`

	rows, err := r.db.GetPool().Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query screener signals for symbol: %w", err)
	}
	defer rows.Close()

	return scanScreenerSignals(rows)
}

// DeleteOlderThan removes signals scanned before the cutoff and reports the count
func (r *PostgresScreenerSignalRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM screener_signals WHERE scanned_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old screener signals: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanScreenerSignals(rows pgx.Rows) ([]*models.ScreenerSignal, error) {
	var signals []*models.ScreenerSignal
	for rows.Next() {
		signal := &models.ScreenerSignal{}
		if err := rows.Scan(
			&signal.ID, &signal.ScanID, &signal.Symbol, &signal.Sector, &signal.Score,
			&signal.Action, &signal.Confidence, &signal.Conflicts, &signal.VolumeRatio,
			&signal.Category, &signal.CurrentPrice, &signal.ScannedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan screener signal: %w", err)
		}
		signals = append(signals, signal)
	}
	return signals, rows.Err()
}
