package indicators

import (
	"math"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// VWAPValue holds the volume-weighted average price with deviation bands.
type VWAPValue struct {
	VWAP       float64 `json:"vwap"`
	UpperBand1 float64 `json:"upper_band_1"`
	LowerBand1 float64 `json:"lower_band_1"`
	UpperBand2 float64 `json:"upper_band_2"`
	LowerBand2 float64 `json:"lower_band_2"`
}

// VWAP computes the volume-weighted average of typical prices over the
// trailing period, with one and two sigma bands from the volume-weighted
// deviation. Returns nil when the window is too short or volume is zero.
func VWAP(bars []models.Bar, period int) *VWAPValue {
	if period <= 0 || len(bars) < period {
		return nil
	}
	window := bars[len(bars)-period:]

	var pvSum, volSum float64
	for _, b := range window {
		typical := (b.High + b.Low + b.Close) / 3
		pvSum += typical * b.Volume
		volSum += b.Volume
	}
	if volSum == 0 {
		return nil
	}
	vwap := pvSum / volSum

	var varSum float64
	for _, b := range window {
		typical := (b.High + b.Low + b.Close) / 3
		varSum += b.Volume * (typical - vwap) * (typical - vwap)
	}
	sd := math.Sqrt(varSum / volSum)

	return &VWAPValue{
		VWAP:       vwap,
		UpperBand1: vwap + sd,
		LowerBand1: vwap - sd,
		UpperBand2: vwap + 2*sd,
		LowerBand2: vwap - 2*sd,
	}
}

// PositionScore maps a price to a 0-100 score by its position relative
// to the VWAP bands. Prices near the lower bands score high (favorable
// long entry), prices stretched above the upper bands score low.
func (v *VWAPValue) PositionScore(price float64) float64 {
	switch {
	case price <= v.LowerBand2:
		return 90
	case price <= v.LowerBand1:
		return 75
	case price <= v.VWAP:
		return 60
	case price <= v.UpperBand1:
		return 45
	case price <= v.UpperBand2:
		return 30
	default:
		return 15
	}
}
