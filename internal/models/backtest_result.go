package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BacktestResult represents a persisted simulation run. FullResults
// carries the complete evaluation document as JSON so the flat columns
// stay queryable while nothing is lost.
type BacktestResult struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Symbol          string          `db:"symbol" json:"symbol"`
	RunDate         time.Time       `db:"run_date" json:"run_date"`
	StartDate       time.Time       `db:"start_date" json:"start_date"`
	EndDate         time.Time       `db:"end_date" json:"end_date"`
	InitialCapital  float64         `db:"initial_capital" json:"initial_capital"`
	FinalCapital    float64         `db:"final_capital" json:"final_capital"`
	TotalReturn     float64         `db:"total_return" json:"total_return"`
	SharpeRatio     float64         `db:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdown     float64         `db:"max_drawdown" json:"max_drawdown"`
	TotalTrades     int             `db:"total_trades" json:"total_trades"`
	WinRate         float64         `db:"win_rate" json:"win_rate"`
	ProfitFactor    float64         `db:"profit_factor" json:"profit_factor"`
	Recommendation  string          `db:"recommendation" json:"recommendation"`
	PositionSizePct float64         `db:"position_size_pct" json:"position_size_pct"`
	FullResults     json.RawMessage `db:"full_results" json:"full_results"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// ScreenerSignal represents a persisted screener hit for one scan.
type ScreenerSignal struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ScanID       uuid.UUID  `db:"scan_id" json:"scan_id"`
	Symbol       string     `db:"symbol" json:"symbol"`
	Sector       Sector     `db:"sector" json:"sector"`
	Score        float64    `db:"score" json:"score"`
	Action       Action     `db:"action" json:"action"`
	Confidence   Confidence `db:"confidence" json:"confidence"`
	Conflicts    int        `db:"conflicts" json:"conflicts"`
	VolumeRatio  float64    `db:"volume_ratio" json:"volume_ratio"`
	Category     string     `db:"category" json:"category"`
	CurrentPrice float64    `db:"current_price" json:"current_price"`
	ScannedAt    time.Time  `db:"scanned_at" json:"scanned_at"`
}
