package indicators

import "github.com/Nikhil170404/Tradee/internal/models"

// VolumeRatio returns the last bar's volume relative to its trailing
// period average, or nil when the window is too short. Values above 1
// mean the move is backed by above-average activity.
func VolumeRatio(volumes []float64, period int) *float64 {
	avg := SMA(volumes, period)
	if avg == nil || *avg == 0 {
		return nil
	}
	out := volumes[len(volumes)-1] / *avg
	return &out
}

// OBV returns the cumulative on-balance volume series, one value per bar
func OBV(bars []models.Bar) []float64 {
	if len(bars) == 0 {
		return nil
	}
	out := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// OBVTrend compares current OBV against its value lookback bars ago.
// Returns +1 when accumulation is rising, -1 when falling, 0 when flat
// or when the window is too short.
func OBVTrend(bars []models.Bar, lookback int) int {
	obv := OBV(bars)
	if lookback <= 0 || len(obv) < lookback+1 {
		return 0
	}
	diff := obv[len(obv)-1] - obv[len(obv)-1-lookback]
	switch {
	case diff > 0:
		return 1
	case diff < 0:
		return -1
	default:
		return 0
	}
}
