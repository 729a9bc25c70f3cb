package backtest

import (
	"time"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// SimulationState tracks one simulation run: cash, the single open
// position if any, the closed-trade ledger and the equity curve.
type SimulationState struct {
	Cash        float64
	PeakEquity  float64
	Position    *models.Position
	Trades      []*models.Trade
	EquityCurve EquityCurve
	DailyPnL    map[time.Time]float64

	// First and last closes of the replayed series, kept for the
	// buy-and-hold benchmark.
	FirstClose float64
	LastClose  float64
}

// NewSimulationState initializes simulation state
func NewSimulationState(initialCapital float64) *SimulationState {
	return &SimulationState{
		Cash:       initialCapital,
		PeakEquity: initialCapital,
		Trades:     []*models.Trade{},
		DailyPnL:   make(map[time.Time]float64),
	}
}

// Flat reports whether no position is open
func (s *SimulationState) Flat() bool {
	return s.Position == nil
}

// EquityAt marks the portfolio to market at the given price
func (s *SimulationState) EquityAt(price float64) float64 {
	if s.Position == nil {
		return s.Cash
	}
	return s.Cash + s.Position.MarketValue(price)
}

// CloseTrade appends a closed trade and returns the position to flat
func (s *SimulationState) CloseTrade(trade *models.Trade) {
	s.Trades = append(s.Trades, trade)
	s.Position = nil

	day := trade.ExitTime.Truncate(24 * time.Hour)
	s.DailyPnL[day] += trade.PnL
}

// RecordEquityPoint marks equity at a bar close and tracks drawdown
func (s *SimulationState) RecordEquityPoint(t time.Time, equity float64) {
	if equity > s.PeakEquity {
		s.PeakEquity = equity
	}
	drawdown := 0.0
	if s.PeakEquity > 0 && equity < s.PeakEquity {
		drawdown = (s.PeakEquity - equity) / s.PeakEquity
	}

	dailyPnL := 0.0
	if n := len(s.EquityCurve); n > 0 {
		dailyPnL = equity - s.EquityCurve[n-1].Value
	}
	s.EquityCurve = append(s.EquityCurve, EquityPoint{
		Time:     t,
		Value:    equity,
		Drawdown: drawdown,
		DailyPnL: dailyPnL,
	})
}

// FinalEquity returns the last recorded equity value
func (s *SimulationState) FinalEquity() float64 {
	if len(s.EquityCurve) == 0 {
		return s.Cash
	}
	return s.EquityCurve[len(s.EquityCurve)-1].Value
}
