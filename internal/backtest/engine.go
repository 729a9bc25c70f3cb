package backtest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/datasource"
	"github.com/Nikhil170404/Tradee/internal/indicators"
	"github.com/Nikhil170404/Tradee/internal/metrics"
	"github.com/Nikhil170404/Tradee/internal/models"
	"github.com/Nikhil170404/Tradee/internal/repository"
	"github.com/Nikhil170404/Tradee/internal/sentiment"
)

// Report is the full output of one pipeline run for one symbol.
type Report struct {
	Symbol         string                  `json:"symbol"`
	Signal         *models.CompositeSignal `json:"signal"`
	Evaluation     Evaluation              `json:"evaluation"`
	Recommendation Recommendation          `json:"recommendation"`
	WalkForward    *WalkForwardResult      `json:"walk_forward,omitempty"`
	MonteCarlo     *MonteCarloResult       `json:"monte_carlo,omitempty"`
	Trades         []*models.Trade         `json:"trades"`
	EquityCurve    EquityCurve             `json:"equity_curve"`
}

// Engine wires market data, signal scoring, the simulator and optional
// persistence into the evaluate/backtest/recommend pipeline.
type Engine struct {
	config    SimulationConfig
	provider  datasource.Provider
	sentiment sentiment.Client
	evaluator SignalEvaluator
	simulator *Simulator
	results   repository.BacktestResultRepository
	logger    *logrus.Logger
}

// NewEngine creates a pipeline engine. The sentiment client and result
// repository are optional; everything else is required.
func NewEngine(cfg SimulationConfig, provider datasource.Provider, evaluator SignalEvaluator, sentimentClient sentiment.Client, results repository.BacktestResultRepository, logger *logrus.Logger) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("signal evaluator is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	sim, err := NewSimulator(cfg, evaluator, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{
		config:    cfg,
		provider:  provider,
		sentiment: sentimentClient,
		evaluator: evaluator,
		simulator: sim,
		results:   results,
		logger:    logger,
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() SimulationConfig {
	return e.config
}

// EvaluateSignal fetches current data and scores the composite signal
func (e *Engine) EvaluateSignal(ctx context.Context, symbol string) (*models.CompositeSignal, error) {
	ps, fund, sent, err := e.fetchInputs(ctx, symbol, e.config.StartDate, e.config.EndDate)
	if err != nil {
		return nil, err
	}
	return e.evaluator.Evaluate(ps, fund, sent)
}

// RunBacktest executes the full simulation and validation pipeline for
// one symbol and persists the result when a repository is configured.
func (e *Engine) RunBacktest(ctx context.Context, symbol string) (*Report, error) {
	started := time.Now()
	ps, fund, sent, err := e.fetchInputs(ctx, symbol, e.config.StartDate, e.config.EndDate)
	if err != nil {
		return nil, err
	}

	state, err := e.simulator.Run(ctx, ps, fund, sent)
	if err != nil {
		return nil, err
	}
	eval := Evaluate(symbol, state, e.config)

	cs, err := e.evaluator.Evaluate(ps, fund, sent)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Symbol:         symbol,
		Signal:         cs,
		Evaluation:     eval,
		Recommendation: e.recommend(ps, eval, cs),
		Trades:         state.Trades,
		EquityCurve:    state.EquityCurve,
	}

	if e.config.WalkForwardWindows > 1 {
		wf, err := RunWalkForward(ctx, e.simulator, ps, fund, sent, e.config.WalkForwardWindows)
		if err != nil {
			e.logger.WithError(err).Warn("Walk-forward validation skipped")
		} else {
			report.WalkForward = &wf
		}
	}
	if len(state.Trades) > 0 {
		mc, err := RunMonteCarlo(state.Trades, MonteCarloConfig{
			Iterations:     e.config.MonteCarloIterations,
			InitialCapital: e.config.InitialCapital,
		})
		if err != nil {
			e.logger.WithError(err).Warn("Monte carlo validation skipped")
		} else {
			report.MonteCarlo = &mc
		}
	}

	if e.results != nil {
		if err := e.persist(ctx, report); err != nil {
			e.logger.WithError(err).Error("Failed to persist backtest result")
		}
	}

	metrics.RecordSimulation(symbol, string(report.Recommendation.Verdict), time.Since(started).Seconds())
	return report, nil
}

// Recommend composes signal evaluation and backtest into the single
// actionable verdict for a symbol.
func (e *Engine) Recommend(ctx context.Context, symbol string) (Recommendation, error) {
	report, err := e.RunBacktest(ctx, symbol)
	if err != nil {
		return Recommendation{}, err
	}
	return report.Recommendation, nil
}

func (e *Engine) recommend(ps *models.PriceSeries, eval Evaluation, cs *models.CompositeSignal) Recommendation {
	last, _ := ps.Last()
	atr := 0.0
	if v := indicators.ATR(ps.Bars, indicators.ATRPeriod); v != nil {
		atr = *v
	}
	return Recommend(eval, cs, last.Close, atr, e.config)
}

// fetchInputs loads bars, fundamentals and sentiment. Missing
// fundamentals or sentiment degrade to neutral; missing prices are an
// error, never fabricated.
func (e *Engine) fetchInputs(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, *models.FundamentalSnapshot, *models.SentimentSnapshot, error) {
	ps, err := e.provider.GetPriceHistory(ctx, symbol, start, end)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("price history for %s: %w", symbol, err)
	}

	fund, err := e.provider.GetFundamentals(ctx, symbol)
	if err != nil {
		e.logger.WithError(err).WithField("symbol", symbol).Warn("Fundamentals unavailable, scoring neutral")
		fund = nil
	}

	var sent *models.SentimentSnapshot
	if e.sentiment != nil {
		sent, err = e.sentiment.Score(ctx, symbol)
		if err != nil {
			e.logger.WithError(err).WithField("symbol", symbol).Debug("Sentiment unavailable, scoring neutral")
			sent = nil
		}
	}
	return ps, fund, sent, nil
}

func (e *Engine) persist(ctx context.Context, report *Report) error {
	full, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	sharpe := 0.0
	if report.Evaluation.SharpeRatio != nil {
		sharpe = *report.Evaluation.SharpeRatio
	}
	pf := float64(report.Evaluation.ProfitFactor)
	if report.Evaluation.ProfitFactor.IsInf() {
		pf = -1 // column sentinel for "no losing trades"
	}

	result := &models.BacktestResult{
		ID:              uuid.New(),
		Symbol:          report.Symbol,
		RunDate:         time.Now().UTC(),
		StartDate:       report.Evaluation.StartDate,
		EndDate:         report.Evaluation.EndDate,
		InitialCapital:  report.Evaluation.InitialEquity,
		FinalCapital:    report.Evaluation.FinalEquity,
		TotalReturn:     report.Evaluation.TotalReturn,
		SharpeRatio:     sharpe,
		MaxDrawdown:     report.Evaluation.MaxDrawdown,
		TotalTrades:     report.Evaluation.TotalTrades,
		WinRate:         report.Evaluation.WinRate,
		ProfitFactor:    pf,
		Recommendation:  string(report.Recommendation.Verdict),
		PositionSizePct: report.Recommendation.PositionSizePct,
		FullResults:     full,
		CreatedAt:       time.Now().UTC(),
	}
	return e.results.Save(ctx, result)
}
