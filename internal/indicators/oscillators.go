package indicators

import "github.com/Nikhil170404/Tradee/internal/models"

// MACDValue holds the MACD line, its signal EMA and the histogram.
type MACDValue struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// RSI returns the Wilder-smoothed relative strength index over the
// trailing period, or nil when fewer than period+1 closes exist.
func RSI(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}
	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	avgGain := wilderSeries(gains, period)
	avgLoss := wilderSeries(losses, period)
	g := avgGain[len(avgGain)-1]
	l := avgLoss[len(avgLoss)-1]

	out := 50.0
	switch {
	case l > 0:
		rs := g / l
		out = 100 - 100/(1+rs)
	case g > 0:
		out = 100
	}
	return &out
}

// MACD computes the fast/slow EMA difference plus a signal EMA over it.
// Returns nil until slow+signal closes are available.
func MACD(closes []float64, fast, slow, signal int) *MACDValue {
	if len(closes) < slow+signal {
		return nil
	}
	fastSeries := emaSeries(closes, fast)
	slowSeries := emaSeries(closes, slow)

	// Align tails: slowSeries starts later than fastSeries.
	offset := len(fastSeries) - len(slowSeries)
	line := make([]float64, len(slowSeries))
	for i := range slowSeries {
		line[i] = fastSeries[i+offset] - slowSeries[i]
	}

	signalSeries := emaSeries(line, signal)
	if signalSeries == nil {
		return nil
	}
	return &MACDValue{
		Line:      line[len(line)-1],
		Signal:    signalSeries[len(signalSeries)-1],
		Histogram: line[len(line)-1] - signalSeries[len(signalSeries)-1],
	}
}

// StochasticValue holds the %K and %D lines of the stochastic oscillator.
type StochasticValue struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// Stochastic computes the fast stochastic oscillator with a smoothing
// SMA over %K. Returns nil until kPeriod+dPeriod-1 bars are available.
func Stochastic(bars []models.Bar, kPeriod, dPeriod int) *StochasticValue {
	if kPeriod <= 0 || dPeriod <= 0 || len(bars) < kPeriod+dPeriod-1 {
		return nil
	}
	kValues := make([]float64, 0, dPeriod)
	for i := len(bars) - dPeriod; i < len(bars); i++ {
		window := bars[i-kPeriod+1 : i+1]
		low, high := window[0].Low, window[0].High
		for _, b := range window[1:] {
			if b.Low < low {
				low = b.Low
			}
			if b.High > high {
				high = b.High
			}
		}
		k := 50.0
		if high > low {
			k = (bars[i].Close - low) / (high - low) * 100
		}
		kValues = append(kValues, k)
	}

	d := 0.0
	for _, k := range kValues {
		d += k
	}
	return &StochasticValue{K: kValues[len(kValues)-1], D: d / float64(dPeriod)}
}

// ROC returns the rate of change over the trailing period in percent,
// or nil when the window is too short.
func ROC(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}
	base := closes[len(closes)-1-period]
	if base == 0 {
		return nil
	}
	out := (closes[len(closes)-1]/base - 1) * 100
	return &out
}
