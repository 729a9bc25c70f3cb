package indicators

// SMA returns the simple moving average of the trailing period, or nil
// when fewer values exist than the period requires.
func SMA(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	out := sum / float64(period)
	return &out
}

// EMA returns the exponential moving average (alpha = 2/(period+1),
// seeded with the SMA of the first period values), or nil when the
// window is too short.
func EMA(values []float64, period int) *float64 {
	series := emaSeries(values, period)
	if series == nil {
		return nil
	}
	out := series[len(series)-1]
	return &out
}

// emaSeries computes the EMA value for every index from period-1
// onward. Returns nil when len(values) < period.
func emaSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	alpha := 2.0 / float64(period+1)

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)
	prev := seed
	for _, v := range values[period:] {
		prev = alpha*v + (1-alpha)*prev
		out = append(out, prev)
	}
	return out
}

// wilderSeries applies Wilder smoothing (alpha = 1/period, seeded with
// the simple average of the first period values). Used by RSI, ATR and
// ADX, which all follow Wilder's recursive average.
func wilderSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)
	prev := seed
	for _, v := range values[period:] {
		prev = (prev*float64(period-1) + v) / float64(period)
		out = append(out, prev)
	}
	return out
}
