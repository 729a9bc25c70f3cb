package models

import (
	"fmt"
	"time"
)

// Bar is a single daily OHLCV candle.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Validate checks a bar for internally consistent prices
func (b Bar) Validate() error {
	if b.Time.IsZero() {
		return fmt.Errorf("bar time is required")
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar prices must be positive")
	}
	if b.High < b.Low {
		return fmt.Errorf("bar high %.4f below low %.4f", b.High, b.Low)
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar volume cannot be negative")
	}
	return nil
}

// PriceSeries is an ordered sequence of daily bars for one instrument.
// Bar times are strictly increasing; calendar gaps are permitted and
// never interpolated.
type PriceSeries struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// NewPriceSeries validates ordering and prices and returns a series
func NewPriceSeries(symbol string, bars []Bar) (*PriceSeries, error) {
	if symbol == "" {
		return nil, ErrSymbolRequired
	}
	for i, bar := range bars {
		if err := bar.Validate(); err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		if i > 0 && !bars[i-1].Time.Before(bar.Time) {
			return nil, fmt.Errorf("bar %d: time %s not after previous bar %s",
				i, bar.Time.Format("2006-01-02"), bars[i-1].Time.Format("2006-01-02"))
		}
	}
	return &PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// Len returns the number of bars in the series
func (ps *PriceSeries) Len() int {
	return len(ps.Bars)
}

// Last returns the most recent bar, or false on an empty series
func (ps *PriceSeries) Last() (Bar, bool) {
	if len(ps.Bars) == 0 {
		return Bar{}, false
	}
	return ps.Bars[len(ps.Bars)-1], true
}

// LastN returns the trailing n bars (all bars when fewer exist)
func (ps *PriceSeries) LastN(n int) []Bar {
	if n >= len(ps.Bars) {
		return ps.Bars
	}
	return ps.Bars[len(ps.Bars)-n:]
}

// Through returns a sub-series containing bars up to and including index i,
// preserving chronological order. Used by bar-by-bar evaluation so that
// indicators never see future data.
func (ps *PriceSeries) Through(i int) *PriceSeries {
	if i < 0 {
		return &PriceSeries{Symbol: ps.Symbol}
	}
	if i >= len(ps.Bars) {
		i = len(ps.Bars) - 1
	}
	return &PriceSeries{Symbol: ps.Symbol, Bars: ps.Bars[:i+1]}
}

// Closes extracts the close column
func (ps *PriceSeries) Closes() []float64 {
	out := make([]float64, len(ps.Bars))
	for i, b := range ps.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume column
func (ps *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(ps.Bars))
	for i, b := range ps.Bars {
		out[i] = b.Volume
	}
	return out
}
