// Package backtest simulates the single-position long-only trading rule
// over historical bars and evaluates the outcome.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/indicators"
	"github.com/Nikhil170404/Tradee/internal/models"
)

// SignalEvaluator produces a composite signal for a series as of its
// last bar. *signal.Scorer is the production implementation.
type SignalEvaluator interface {
	Evaluate(ps *models.PriceSeries, fund *models.FundamentalSnapshot, sent *models.SentimentSnapshot) (*models.CompositeSignal, error)
}

// Simulator replays a price history through the FLAT/OPEN position
// state machine. Each run owns its own state, so independent symbols
// can be simulated concurrently with one shared Simulator.
type Simulator struct {
	config    SimulationConfig
	evaluator SignalEvaluator
	logger    *logrus.Logger
}

// NewSimulator creates a position simulator
func NewSimulator(cfg SimulationConfig, evaluator SignalEvaluator, logger *logrus.Logger) (*Simulator, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("signal evaluator is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	return &Simulator{config: cfg, evaluator: evaluator, logger: logger}, nil
}

// Config returns the simulation configuration
func (s *Simulator) Config() SimulationConfig {
	return s.config
}

// Run replays the series bar by bar. Bars are processed strictly in
// chronological order; the composite signal for a bar only ever sees
// history up to that bar. Deterministic given identical inputs.
func (s *Simulator) Run(ctx context.Context, ps *models.PriceSeries, fund *models.FundamentalSnapshot, sent *models.SentimentSnapshot) (*SimulationState, error) {
	if ps == nil || ps.Len() == 0 {
		return nil, fmt.Errorf("simulate: %w", models.ErrInsufficientHistory)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := NewSimulationState(s.config.InitialCapital)
	state.FirstClose = ps.Bars[0].Close
	state.LastClose = ps.Bars[ps.Len()-1].Close
	s.logger.WithFields(logrus.Fields{
		"symbol":  ps.Symbol,
		"bars":    ps.Len(),
		"capital": s.config.InitialCapital,
	}).Info("Starting simulation run")

	for i, bar := range ps.Bars {
		cs := s.evaluateAt(ps, fund, sent, i)

		if !state.Flat() {
			s.checkExits(state, bar, cs)
		}

		// Re-entry on the exit bar is permitted.
		if state.Flat() && cs != nil {
			s.tryEnter(state, ps, cs, i)
		}

		state.RecordEquityPoint(bar.Time, state.EquityAt(bar.Close))
	}

	// A position surviving the final bar is force-closed at its close.
	if !state.Flat() {
		last := ps.Bars[ps.Len()-1]
		s.closePosition(state, last.Time, last.Close, models.ExitEndOfBacktest)
		state.EquityCurve[len(state.EquityCurve)-1].Value = state.Cash
	}

	s.logger.WithFields(logrus.Fields{
		"symbol":       ps.Symbol,
		"trades":       len(state.Trades),
		"final_equity": state.FinalEquity(),
	}).Info("Simulation run complete")

	return state, nil
}

// evaluateAt computes the composite signal as of bar index i. A series
// still too short to score returns nil rather than failing the run.
func (s *Simulator) evaluateAt(ps *models.PriceSeries, fund *models.FundamentalSnapshot, sent *models.SentimentSnapshot, i int) *models.CompositeSignal {
	cs, err := s.evaluator.Evaluate(ps.Through(i), fund, sent)
	if err != nil {
		return nil
	}
	return cs
}

// tryEnter opens a position at the bar close when the entry filter
// passes: a buy signal with at least medium confidence, no more than
// one conflict, volume backing, and a computable ATR stop.
func (s *Simulator) tryEnter(state *SimulationState, ps *models.PriceSeries, cs *models.CompositeSignal, i int) {
	if !cs.Tradeable() {
		return
	}
	window := ps.Through(i)
	atr := indicators.ATR(window.Bars, indicators.ATRPeriod)
	if atr == nil || *atr <= 0 {
		return
	}

	bar := ps.Bars[i]
	entry := bar.Close
	stop := entry - s.config.ATRStopMultiple * *atr
	if stop <= 0 || stop >= entry {
		return
	}
	target := entry + s.config.RiskRewardRatio*(entry-stop)

	equity := state.EquityAt(entry)
	riskAmount := s.config.RiskPerTradePct / 100 * equity
	shares := riskAmount / (entry - stop)

	// Conviction ceiling on total position value.
	maxValue := MaxPositionPct(cs.VolumeRatio) / 100 * equity
	if shares*entry > maxValue {
		shares = maxValue / entry
	}
	if shares <= 0 || shares*entry > state.Cash {
		return
	}

	cost := s.transactionCost(shares * entry)
	state.Cash -= shares*entry + cost
	state.Position = &models.Position{
		Symbol:            ps.Symbol,
		EntryTime:         bar.Time,
		EntryPrice:        entry,
		Shares:            shares,
		StopLoss:          stop,
		TakeProfit:        target,
		TrailingPct:       s.config.TrailingStopPct / 100,
		HighestSinceEntry: entry,
		EntryCost:         cost,
	}

	s.logger.WithFields(logrus.Fields{
		"symbol": ps.Symbol,
		"date":   bar.Time.Format("2006-01-02"),
		"entry":  entry,
		"stop":   stop,
		"target": target,
		"shares": shares,
		"score":  cs.OverallScore,
	}).Debug("Position opened")
}

// checkExits applies the exit rules to an open position for one bar, in
// fixed priority order: stop-loss, trailing stop, take-profit, then
// signal exit at the close. A bar spanning both the stop and the target
// is conservatively assumed to have hit the stop first. The trailing
// level in force during a bar was set by prior bars; the current bar's
// high raises it only for later bars.
func (s *Simulator) checkExits(state *SimulationState, bar models.Bar, cs *models.CompositeSignal) {
	pos := state.Position

	switch {
	case bar.Low <= pos.StopLoss:
		s.closePosition(state, bar.Time, pos.StopLoss, models.ExitStopLoss)
	case pos.TrailingArmed && bar.Low <= pos.TrailingStop:
		s.closePosition(state, bar.Time, pos.TrailingStop, models.ExitTrailingStop)
	case bar.High >= pos.TakeProfit:
		s.closePosition(state, bar.Time, pos.TakeProfit, models.ExitTakeProfit)
	case cs != nil && cs.Action.IsSell():
		s.closePosition(state, bar.Time, bar.Close, models.ExitSignal)
	case s.config.MaxHoldDays > 0 && int(bar.Time.Sub(pos.EntryTime).Hours()/24) >= s.config.MaxHoldDays:
		s.closePosition(state, bar.Time, bar.Close, models.ExitMaxHold)
	default:
		s.updateTrailing(pos, bar)
	}
}

// updateTrailing raises the high-water mark and the trailing level.
// Once armed, the level only ever tightens.
func (s *Simulator) updateTrailing(pos *models.Position, bar models.Bar) {
	if bar.High > pos.HighestSinceEntry {
		pos.HighestSinceEntry = bar.High
	}
	if !pos.TrailingArmed {
		activation := pos.EntryPrice * (1 + s.config.TrailingActivatePct/100)
		if pos.HighestSinceEntry >= activation {
			pos.TrailingArmed = true
			pos.TrailingStop = pos.HighestSinceEntry * (1 - pos.TrailingPct)
		}
		return
	}
	if level := pos.HighestSinceEntry * (1 - pos.TrailingPct); level > pos.TrailingStop {
		pos.TrailingStop = level
	}
}

// closePosition converts the open position into a closed trade
func (s *Simulator) closePosition(state *SimulationState, exitTime time.Time, exitPrice float64, reason models.ExitReason) {
	pos := state.Position
	cost := s.transactionCost(pos.Shares * exitPrice)
	state.Cash += pos.Shares*exitPrice - cost

	pnl := pos.Shares*(exitPrice-pos.EntryPrice) - pos.EntryCost - cost
	pnlPct := 0.0
	if invested := pos.Shares * pos.EntryPrice; invested > 0 {
		pnlPct = pnl / invested * 100
	}

	trade := &models.Trade{
		ID:         uuid.New(),
		Symbol:     pos.Symbol,
		EntryTime:  pos.EntryTime,
		EntryPrice: pos.EntryPrice,
		ExitTime:   exitTime,
		ExitPrice:  exitPrice,
		Shares:     pos.Shares,
		ExitReason: reason,
		PnL:        pnl,
		PnLPct:     pnlPct,
		Duration:   int(exitTime.Sub(pos.EntryTime).Hours() / 24),
	}
	state.CloseTrade(trade)

	s.logger.WithFields(logrus.Fields{
		"symbol": trade.Symbol,
		"date":   exitTime.Format("2006-01-02"),
		"exit":   exitPrice,
		"reason": reason,
		"pnl":    pnl,
	}).Debug("Position closed")
}

func (s *Simulator) transactionCost(notional float64) float64 {
	return s.config.TransactionCostBps / 10000 * notional
}
