// Package indicators provides pure, stateless technical indicator
// functions over daily price bars. Every function returns nil when the
// window is shorter than the indicator requires; callers treat nil as
// missing history, never as zero.
package indicators

import "github.com/Nikhil170404/Tradee/internal/models"

// Default periods matching the scoring layer's expectations.
const (
	RSIPeriod       = 14
	FastRSIPeriod   = 5
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerPeriod = 20
	BollingerWidth  = 2.0
	ADXPeriod       = 14
	ATRPeriod       = 14
	VolumePeriod    = 20
	StochasticK     = 14
	StochasticD     = 3
	ROCPeriod       = 12
	VWAPPeriod      = 20
	OBVLookback     = 20
)

// Set is a one-shot computation of every indicator over a price series.
// Nil fields mean the series was too short for that indicator.
type Set struct {
	RSI         *float64         `json:"rsi,omitempty"`
	FastRSI     *float64         `json:"fast_rsi,omitempty"`
	MACD        *MACDValue       `json:"macd,omitempty"`
	SMA20       *float64         `json:"sma_20,omitempty"`
	SMA50       *float64         `json:"sma_50,omitempty"`
	SMA200      *float64         `json:"sma_200,omitempty"`
	EMA20       *float64         `json:"ema_20,omitempty"`
	EMA50       *float64         `json:"ema_50,omitempty"`
	Bollinger   *BollingerValue  `json:"bollinger,omitempty"`
	ADX         *ADXValue        `json:"adx,omitempty"`
	ATR         *float64         `json:"atr,omitempty"`
	VolumeRatio *float64         `json:"volume_ratio,omitempty"`
	Stochastic  *StochasticValue `json:"stochastic,omitempty"`
	ROC         *float64         `json:"roc,omitempty"`
	VWAP        *VWAPValue       `json:"vwap,omitempty"`
	OBVTrend    int              `json:"obv_trend"`
	Patterns    []Pattern        `json:"patterns,omitempty"`
}

// Compute evaluates the full indicator set for the series as of its
// last bar. Safe for concurrent use on independent series.
func Compute(ps *models.PriceSeries) *Set {
	closes := ps.Closes()
	volumes := ps.Volumes()

	return &Set{
		RSI:         RSI(closes, RSIPeriod),
		FastRSI:     RSI(closes, FastRSIPeriod),
		MACD:        MACD(closes, MACDFast, MACDSlow, MACDSignal),
		SMA20:       SMA(closes, 20),
		SMA50:       SMA(closes, 50),
		SMA200:      SMA(closes, 200),
		EMA20:       EMA(closes, 20),
		EMA50:       EMA(closes, 50),
		Bollinger:   Bollinger(closes, BollingerPeriod, BollingerWidth),
		ADX:         ADX(ps.Bars, ADXPeriod),
		ATR:         ATR(ps.Bars, ATRPeriod),
		VolumeRatio: VolumeRatio(volumes, VolumePeriod),
		Stochastic:  Stochastic(ps.Bars, StochasticK, StochasticD),
		ROC:         ROC(closes, ROCPeriod),
		VWAP:        VWAP(ps.Bars, VWAPPeriod),
		OBVTrend:    OBVTrend(ps.Bars, OBVLookback),
		Patterns:    DetectPatterns(ps.Bars),
	}
}
