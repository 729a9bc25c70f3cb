package signal

import (
	"fmt"

	"github.com/Nikhil170404/Tradee/internal/indicators"
	"github.com/Nikhil170404/Tradee/internal/models"
)

// Minimum history per timeframe.
const (
	intradayBars = 5
	swingBars    = 50
	longTermBars = 200
)

// Per-timeframe action thresholds.
const (
	timeframeBuyAt  = 60.0
	timeframeSellAt = 40.0
)

func timeframeAction(score float64) models.Action {
	switch {
	case score >= timeframeBuyAt:
		return models.ActionBuy
	case score <= timeframeSellAt:
		return models.ActionSell
	default:
		return models.ActionNeutral
	}
}

// intradaySignal scores the last handful of bars on fast momentum,
// VWAP positioning and candlestick patterns.
func intradaySignal(set *indicators.Set, lastClose float64) *models.TimeframeSignal {
	if set.FastRSI == nil {
		return nil
	}
	score := 50.0

	switch {
	case *set.FastRSI < 30:
		score += 15
	case *set.FastRSI < 40:
		score += 10
	case *set.FastRSI > 70:
		score -= 15
	case *set.FastRSI > 60:
		score -= 10
	}

	if set.MACD != nil {
		if set.MACD.Histogram > 0 {
			score += 10
		} else {
			score -= 10
		}
	}

	if set.VolumeRatio != nil {
		switch {
		case *set.VolumeRatio >= 1.5:
			score += 10
		case *set.VolumeRatio >= 1.0:
			score += 5
		case *set.VolumeRatio < 0.7:
			score -= 10
		}
	}

	if set.VWAP != nil {
		score += (set.VWAP.PositionScore(lastClose) - 50) * 0.4
	}
	score += indicators.PatternBias(set.Patterns)

	score = clampScore(score)
	return &models.TimeframeSignal{
		Timeframe:   models.TimeframeIntraday,
		Action:      timeframeAction(score),
		Score:       score,
		Description: fmt.Sprintf("fast RSI %.1f, VWAP positioning and volume over the last %d sessions", *set.FastRSI, intradayBars),
	}
}

// swingSignal scores medium-horizon confluence and requires multiple
// confirmations before it reads directional.
func swingSignal(set *indicators.Set, lastClose float64) (*models.TimeframeSignal, int) {
	if set.RSI == nil || set.SMA20 == nil {
		return nil, 0
	}
	score := 50.0
	confirmations := 0

	switch {
	case *set.RSI < 40:
		score += 10
		confirmations++
	case *set.RSI > 70:
		score -= 10
	}

	if set.MACD != nil && set.MACD.Line > set.MACD.Signal {
		score += 10
		confirmations++
	}

	if lastClose > *set.SMA20 {
		score += 5
		confirmations++
	}
	if set.SMA50 != nil && *set.SMA20 > *set.SMA50 {
		score += 10
		confirmations++
	}

	if set.Bollinger != nil {
		switch {
		case set.Bollinger.PercentB < 0.2:
			score += 10
			confirmations++
		case set.Bollinger.PercentB > 0.8:
			score -= 10
		}
	}

	if set.ADX != nil && set.ADX.ADX > 25 {
		if set.ADX.PlusDI > set.ADX.MinusDI {
			score += 5
			confirmations++
		} else {
			score -= 5
		}
	}

	if set.Stochastic != nil {
		switch {
		case set.Stochastic.K < 20:
			score += 5
			confirmations++
		case set.Stochastic.K > 80:
			score -= 5
		}
	}

	if set.ROC != nil && *set.ROC > 0 {
		score += 5
		confirmations++
	}

	// Directional reads need at least two independent confirmations.
	if score > 50 && confirmations < 2 {
		score = 50
	}

	score = clampScore(score)
	return &models.TimeframeSignal{
		Timeframe:   models.TimeframeSwing,
		Action:      timeframeAction(score),
		Score:       score,
		Description: fmt.Sprintf("%d confirmations across RSI, MACD, moving averages and band position", confirmations),
	}, confirmations
}

// longTermSignal scores the 200-day trend structure.
func longTermSignal(set *indicators.Set, lastClose float64, obvTrend int) *models.TimeframeSignal {
	if set.SMA200 == nil || set.SMA50 == nil {
		return nil
	}
	score := 50.0

	if *set.SMA50 > *set.SMA200 {
		score += 25
	} else {
		score -= 25
	}
	if lastClose > *set.SMA200 {
		score += 20
	} else {
		score -= 20
	}
	score += float64(obvTrend) * 5

	score = clampScore(score)
	desc := "price below the 200-day average"
	if lastClose > *set.SMA200 {
		desc = "price above the 200-day average"
	}
	if *set.SMA50 > *set.SMA200 {
		desc += ", golden-cross structure intact"
	}
	return &models.TimeframeSignal{
		Timeframe:   models.TimeframeLongTerm,
		Action:      timeframeAction(score),
		Score:       score,
		Description: desc,
	}
}
