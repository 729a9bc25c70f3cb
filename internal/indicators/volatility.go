package indicators

import (
	"math"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// BollingerValue holds the 20-period band levels plus the position of
// the last close within the band.
type BollingerValue struct {
	Upper    float64 `json:"upper"`
	Middle   float64 `json:"middle"`
	Lower    float64 `json:"lower"`
	PercentB float64 `json:"percent_b"`
}

// Bollinger computes period-SMA bands at width standard deviations.
// Returns nil when the window is too short.
func Bollinger(closes []float64, period int, width float64) *BollingerValue {
	middle := SMA(closes, period)
	if middle == nil {
		return nil
	}
	window := closes[len(closes)-period:]
	variance := 0.0
	for _, v := range window {
		d := v - *middle
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(period))

	bv := &BollingerValue{
		Upper:  *middle + width*sd,
		Middle: *middle,
		Lower:  *middle - width*sd,
	}
	last := closes[len(closes)-1]
	if bv.Upper > bv.Lower {
		bv.PercentB = (last - bv.Lower) / (bv.Upper - bv.Lower)
	} else {
		bv.PercentB = 0.5
	}
	return bv
}

// ATR returns the Wilder-smoothed average true range, or nil when
// fewer than period+1 bars exist.
func ATR(bars []models.Bar, period int) *float64 {
	trs := trueRanges(bars)
	series := wilderSeries(trs, period)
	if series == nil {
		return nil
	}
	out := series[len(series)-1]
	return &out
}

// ADXValue holds the trend-strength index and its directional lines.
type ADXValue struct {
	ADX     float64 `json:"adx"`
	PlusDI  float64 `json:"plus_di"`
	MinusDI float64 `json:"minus_di"`
}

// ADX computes Wilder's average directional index. Returns nil until
// 2*period bars are available, which the DX smoothing requires.
func ADX(bars []models.Bar, period int) *ADXValue {
	if period <= 0 || len(bars) < 2*period+1 {
		return nil
	}
	trs := trueRanges(bars)
	plusDM := make([]float64, len(bars)-1)
	minusDM := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
	}

	atr := wilderSeries(trs, period)
	pdm := wilderSeries(plusDM, period)
	mdm := wilderSeries(minusDM, period)

	dx := make([]float64, len(atr))
	var lastPlusDI, lastMinusDI float64
	for i := range atr {
		if atr[i] == 0 {
			continue
		}
		plusDI := pdm[i] / atr[i] * 100
		minusDI := mdm[i] / atr[i] * 100
		lastPlusDI, lastMinusDI = plusDI, minusDI
		if sum := plusDI + minusDI; sum > 0 {
			dx[i] = math.Abs(plusDI-minusDI) / sum * 100
		}
	}

	adxSeries := wilderSeries(dx, period)
	if adxSeries == nil {
		return nil
	}
	return &ADXValue{
		ADX:     adxSeries[len(adxSeries)-1],
		PlusDI:  lastPlusDI,
		MinusDI: lastMinusDI,
	}
}

// trueRanges returns the TR series, one element per bar after the first
func trueRanges(bars []models.Bar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	out := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		out[i-1] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}
