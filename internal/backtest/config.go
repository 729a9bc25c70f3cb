package backtest

import (
	"fmt"
	"time"

	"github.com/Nikhil170404/Tradee/internal/config"
)

// SimulationConfig extends core config with simulation-specific settings
type SimulationConfig struct {
	StartDate            time.Time
	EndDate              time.Time
	InitialCapital       float64
	RiskPerTradePct      float64
	ATRStopMultiple      float64
	RiskRewardRatio      float64
	TrailingStopPct      float64
	TrailingActivatePct  float64
	TransactionCostBps   float64
	MaxHoldDays          int
	RiskFreeRate         float64
	MonteCarloIterations int
	WalkForwardWindows   int
}

// DefaultSimulationConfig returns the standard risk parameters: 2% risk
// per trade, a 2-ATR stop, 2.5:1 reward-to-risk, a 5% trailing stop
// arming after a 3% favorable move, and 10 bps per side.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		InitialCapital:       1000000,
		RiskPerTradePct:      2.0,
		ATRStopMultiple:      2.0,
		RiskRewardRatio:      2.5,
		TrailingStopPct:      5.0,
		TrailingActivatePct:  3.0,
		TransactionCostBps:   10,
		MaxHoldDays:          60,
		RiskFreeRate:         0,
		MonteCarloIterations: 1000,
		WalkForwardWindows:   4,
	}
}

// FromConfig converts app config to simulation config
func FromConfig(cfg *config.BacktestConfig) (SimulationConfig, error) {
	if cfg == nil {
		return SimulationConfig{}, fmt.Errorf("backtest config is required")
	}
	start, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.EndDate)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("invalid end date: %w", err)
	}

	sc := SimulationConfig{
		StartDate:            start,
		EndDate:              end,
		InitialCapital:       cfg.InitialCapital,
		RiskPerTradePct:      cfg.RiskPerTradePct,
		ATRStopMultiple:      cfg.ATRStopMultiple,
		RiskRewardRatio:      cfg.RiskRewardRatio,
		TrailingStopPct:      cfg.TrailingStopPct,
		TrailingActivatePct:  cfg.TrailingActivatePct,
		TransactionCostBps:   cfg.TransactionCostBps,
		MaxHoldDays:          cfg.MaxHoldDays,
		RiskFreeRate:         cfg.RiskFreeRate,
		MonteCarloIterations: cfg.MonteCarloIterations,
		WalkForwardWindows:   cfg.WalkForwardWindows,
	}

	return sc, sc.Validate()
}

// Validate validates simulation config parameters
func (c SimulationConfig) Validate() error {
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.StartDate.After(c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive")
	}
	if c.RiskPerTradePct <= 0 || c.RiskPerTradePct > 10 {
		return fmt.Errorf("risk per trade must be between 0 and 10 percent")
	}
	if c.ATRStopMultiple <= 0 {
		return fmt.Errorf("ATR stop multiple must be positive")
	}
	if c.RiskRewardRatio < 2.5 {
		return fmt.Errorf("risk reward ratio must be at least 2.5")
	}
	if c.TrailingStopPct <= 0 || c.TrailingStopPct >= 100 {
		return fmt.Errorf("trailing stop percent must be between 0 and 100")
	}
	if c.TransactionCostBps < 0 {
		return fmt.Errorf("transaction cost cannot be negative")
	}
	if c.MonteCarloIterations <= 0 {
		return fmt.Errorf("monte carlo iterations must be positive")
	}
	return nil
}

// MaxPositionPct returns the conviction-based ceiling on position value
// as a percentage of equity, keyed off volume backing.
func MaxPositionPct(volumeRatio float64) float64 {
	switch {
	case volumeRatio > 1.5:
		return 8.0
	case volumeRatio > 1.0:
		return 5.0
	case volumeRatio >= 0.7:
		return 3.0
	default:
		return 1.5
	}
}
