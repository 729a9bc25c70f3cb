package models

import (
	"time"

	"github.com/google/uuid"
)

// ExitReason records which rule closed a trade.
type ExitReason string

const (
	ExitStopLoss      ExitReason = "STOP_LOSS"
	ExitTrailingStop  ExitReason = "TRAILING_STOP"
	ExitTakeProfit    ExitReason = "TAKE_PROFIT"
	ExitSignal        ExitReason = "SIGNAL_EXIT"
	ExitMaxHold       ExitReason = "MAX_HOLD"
	ExitEndOfBacktest ExitReason = "END_OF_BACKTEST"
)

// Position is the single open long position of a simulation run.
// It is mutated bar-by-bar only to raise HighestSinceEntry and, once
// trailing is armed, to tighten the effective stop.
type Position struct {
	Symbol            string    `json:"symbol"`
	EntryTime         time.Time `json:"entry_date"`
	EntryPrice        float64   `json:"entry_price"`
	Shares            float64   `json:"shares"`
	StopLoss          float64   `json:"stop_loss"`
	TakeProfit        float64   `json:"take_profit"`
	TrailingPct       float64   `json:"trailing_stop_pct"`
	TrailingArmed     bool      `json:"trailing_enabled"`
	TrailingStop      float64   `json:"trailing_stop_level"`
	HighestSinceEntry float64   `json:"highest_price_since_entry"`
	EntryCost         float64   `json:"entry_cost"`
}

// MarketValue is the position value at the given price
func (p *Position) MarketValue(price float64) float64 {
	return p.Shares * price
}

// Trade is an immutable closed trade record.
type Trade struct {
	ID         uuid.UUID  `json:"id"`
	Symbol     string     `json:"symbol"`
	EntryTime  time.Time  `json:"entry_date"`
	EntryPrice float64    `json:"entry_price"`
	ExitTime   time.Time  `json:"exit_date"`
	ExitPrice  float64    `json:"exit_price"`
	Shares     float64    `json:"shares"`
	ExitReason ExitReason `json:"exit_reason"`
	PnL        float64    `json:"pnl_amount"`
	PnLPct     float64    `json:"pnl_pct"`
	Duration   int        `json:"duration_days"`
}

// IsWin reports whether the trade closed with positive net profit
func (t *Trade) IsWin() bool {
	return t.PnL > 0
}
