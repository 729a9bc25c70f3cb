package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/models"
)

func makeBars(closes []float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.Bar{
			Time:   day.AddDate(0, 0, i),
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 100000,
		}
	}
	return bars
}

func risingCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	sma := SMA(closes, 5)
	require.NotNil(t, sma)
	assert.InDelta(t, 3.0, *sma, 1e-9)

	sma = SMA(closes, 3)
	require.NotNil(t, sma)
	assert.InDelta(t, 4.0, *sma, 1e-9)
}

func TestSMAInsufficientWindow(t *testing.T) {
	assert.Nil(t, SMA([]float64{1, 2, 3}, 5))
	assert.Nil(t, SMA(nil, 1))
	assert.Nil(t, SMA([]float64{1, 2, 3}, 0))
}

func TestEMAConstantSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42.0
	}
	ema := EMA(closes, 20)
	require.NotNil(t, ema)
	assert.InDelta(t, 42.0, *ema, 1e-9)
}

func TestEMAInsufficientWindow(t *testing.T) {
	assert.Nil(t, EMA(risingCloses(10, 100, 1), 20))
}

func TestRSIAllGains(t *testing.T) {
	rsi := RSI(risingCloses(30, 100, 1), 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 100.0, *rsi, 1e-6)
}

func TestRSIAllLosses(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	rsi := RSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 0.0, *rsi, 1e-6)
}

func TestRSIFlatSeriesIsNeutral(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	rsi := RSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 50.0, *rsi, 1e-9)
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{100, 102, 99, 103, 101, 104, 100, 105, 103, 106, 102, 107, 104, 108, 105, 109}
	rsi := RSI(closes, 14)
	require.NotNil(t, rsi)
	assert.GreaterOrEqual(t, *rsi, 0.0)
	assert.LessOrEqual(t, *rsi, 100.0)
	assert.Greater(t, *rsi, 50.0, "net-rising series should read bullish")
}

func TestRSIInsufficientWindow(t *testing.T) {
	assert.Nil(t, RSI(risingCloses(14, 100, 1), 14))
}

func TestMACDUptrendPositive(t *testing.T) {
	macd := MACD(risingCloses(60, 100, 1), MACDFast, MACDSlow, MACDSignal)
	require.NotNil(t, macd)
	assert.Greater(t, macd.Line, 0.0)
	assert.InDelta(t, macd.Histogram, macd.Line-macd.Signal, 1e-9)
}

func TestMACDInsufficientWindow(t *testing.T) {
	assert.Nil(t, MACD(risingCloses(30, 100, 1), MACDFast, MACDSlow, MACDSignal))
}

func TestBollingerBands(t *testing.T) {
	closes := risingCloses(25, 100, 0.5)
	bv := Bollinger(closes, 20, 2.0)
	require.NotNil(t, bv)
	assert.Greater(t, bv.Upper, bv.Middle)
	assert.Greater(t, bv.Middle, bv.Lower)
	assert.GreaterOrEqual(t, bv.PercentB, 0.0)
}

func TestBollingerConstantSeries(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50
	}
	bv := Bollinger(closes, 20, 2.0)
	require.NotNil(t, bv)
	assert.InDelta(t, 50.0, bv.Upper, 1e-9)
	assert.InDelta(t, 50.0, bv.Lower, 1e-9)
	assert.InDelta(t, 0.5, bv.PercentB, 1e-9, "degenerate band reads mid")
}

func TestATR(t *testing.T) {
	bars := makeBars(risingCloses(30, 100, 1))
	atr := ATR(bars, 14)
	require.NotNil(t, atr)
	assert.Greater(t, *atr, 0.0)
}

func TestATRInsufficientWindow(t *testing.T) {
	assert.Nil(t, ATR(makeBars(risingCloses(14, 100, 1)), 14))
}

func TestADXTrendingMarket(t *testing.T) {
	bars := makeBars(risingCloses(60, 100, 2))
	adx := ADX(bars, 14)
	require.NotNil(t, adx)
	assert.Greater(t, adx.ADX, 20.0, "strong uptrend should register trend strength")
	assert.Greater(t, adx.PlusDI, adx.MinusDI)
}

func TestADXInsufficientWindow(t *testing.T) {
	assert.Nil(t, ADX(makeBars(risingCloses(20, 100, 1)), 14))
}

func TestVolumeRatio(t *testing.T) {
	volumes := make([]float64, 25)
	for i := range volumes {
		volumes[i] = 1000
	}
	volumes[24] = 2000

	vr := VolumeRatio(volumes, 20)
	require.NotNil(t, vr)
	// Trailing average includes the spike itself.
	assert.InDelta(t, 2000.0/1050.0, *vr, 1e-9)
}

func TestVolumeRatioInsufficientWindow(t *testing.T) {
	assert.Nil(t, VolumeRatio([]float64{1, 2, 3}, 20))
}

func TestOBVAccumulation(t *testing.T) {
	bars := makeBars(risingCloses(30, 100, 1))
	obv := OBV(bars)
	require.Len(t, obv, 30)
	assert.Greater(t, obv[29], obv[0])
	assert.Equal(t, 1, OBVTrend(bars, 20))
}

func TestStochasticUptrendHigh(t *testing.T) {
	bars := makeBars(risingCloses(30, 100, 1))
	st := Stochastic(bars, 14, 3)
	require.NotNil(t, st)
	assert.Greater(t, st.K, 80.0)
	assert.GreaterOrEqual(t, st.D, 0.0)
	assert.LessOrEqual(t, st.D, 100.0)
}

func TestROC(t *testing.T) {
	closes := risingCloses(20, 100, 1)
	roc := ROC(closes, 12)
	require.NotNil(t, roc)
	assert.Greater(t, *roc, 0.0)

	assert.Nil(t, ROC(closes[:10], 12))
}

func TestVWAPBands(t *testing.T) {
	bars := makeBars(risingCloses(25, 100, 1))
	v := VWAP(bars, 20)
	require.NotNil(t, v)
	assert.Greater(t, v.UpperBand2, v.UpperBand1)
	assert.Greater(t, v.UpperBand1, v.VWAP)
	assert.Greater(t, v.VWAP, v.LowerBand1)
	assert.Greater(t, v.LowerBand1, v.LowerBand2)

	assert.InDelta(t, 90.0, v.PositionScore(v.LowerBand2-1), 1e-9)
	assert.InDelta(t, 15.0, v.PositionScore(v.UpperBand2+1), 1e-9)
}

func TestComputeShortSeriesAllNil(t *testing.T) {
	ps, err := models.NewPriceSeries("TEST", makeBars(risingCloses(5, 100, 1)))
	require.NoError(t, err)

	set := Compute(ps)
	assert.Nil(t, set.RSI)
	assert.Nil(t, set.MACD)
	assert.Nil(t, set.SMA200)
	assert.Nil(t, set.ATR)
	assert.Nil(t, set.VolumeRatio)
}

func TestComputeFullSeries(t *testing.T) {
	ps, err := models.NewPriceSeries("TEST", makeBars(risingCloses(250, 100, 0.5)))
	require.NoError(t, err)

	set := Compute(ps)
	assert.NotNil(t, set.RSI)
	assert.NotNil(t, set.MACD)
	assert.NotNil(t, set.SMA200)
	assert.NotNil(t, set.ATR)
	assert.NotNil(t, set.VolumeRatio)
	assert.NotNil(t, set.Bollinger)
	assert.NotNil(t, set.ADX)
	assert.NotNil(t, set.VWAP)
}
