package screener

import (
	"sort"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// Category labels for persisted signals.
const (
	CategoryStrongBuy  = "STRONG_BUY"
	CategoryStrongSell = "STRONG_SELL"
)

// Thresholds holds the category cut-offs. The strong-buy floor doubles
// as the screener's configurable minimum score.
type Thresholds struct {
	StrongBuyScore   float64
	StrongBuyRelaxed float64
	StrongSellScore  float64
	StrongSellDeep   float64
	ValuePickScore   float64
	TopN             int
}

// DefaultThresholds returns the standard category cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StrongBuyScore:   60,
		StrongBuyRelaxed: 65,
		StrongSellScore:  40,
		StrongSellDeep:   35,
		ValuePickScore:   60,
		TopN:             10,
	}
}

// Categories groups scan results into ranked lists. Every list is
// sorted best-first and capped at TopN entries.
type Categories struct {
	BestOverall  []*Result `json:"best_overall"`
	BestLongTerm []*Result `json:"best_longterm"`
	BestIntraday []*Result `json:"best_intraday"`
	BestSwing    []*Result `json:"best_swing"`
	StrongBuy    []*Result `json:"strong_buy"`
	StrongSell   []*Result `json:"strong_sell"`
	ValuePicks   []*Result `json:"value_picks"`
}

// Categorize ranks scan results into the category lists.
func Categorize(results []*Result, th Thresholds) Categories {
	return Categories{
		BestOverall:  topBy(results, th.TopN, overallScore, true),
		BestLongTerm: topBy(results, th.TopN, fundamentalScore, true),
		BestIntraday: topBy(filter(results, func(r *Result) bool {
			return timeframeScore(r.Signal, models.TimeframeIntraday) > 50
		}), th.TopN, func(r *Result) float64 {
			return timeframeScore(r.Signal, models.TimeframeIntraday)
		}, true),
		BestSwing: topBy(results, th.TopN, swingBlend, true),
		StrongBuy: topBy(filter(results, func(r *Result) bool {
			return isStrongBuy(r.Signal, th)
		}), th.TopN, overallScore, true),
		StrongSell: topBy(filter(results, func(r *Result) bool {
			return isStrongSell(r.Signal, th)
		}), th.TopN, overallScore, false),
		ValuePicks: topBy(filter(results, func(r *Result) bool {
			return r.Signal.FundamentalScore > th.ValuePickScore
		}), th.TopN, fundamentalScore, true),
	}
}

// isStrongBuy applies the screening filter: a confident, low-conflict,
// volume-backed buy. A very high score with a bullish long-term view
// qualifies even when the overall action reads neutral.
func isStrongBuy(cs *models.CompositeSignal, th Thresholds) bool {
	if cs.OverallScore < th.StrongBuyScore {
		return false
	}
	if !cs.Confidence.AtLeast(models.ConfidenceMedium) {
		return false
	}
	if cs.ConflictCount() > 1 {
		return false
	}
	if cs.VolumeRatio < 0.7 {
		return false
	}
	if cs.Action.IsBuy() {
		return true
	}
	return cs.OverallScore >= th.StrongBuyRelaxed &&
		timeframeAction(cs, models.TimeframeLongTerm).IsBuy()
}

// isStrongSell mirrors the buy filter on the bearish side; confidence
// and volume gates do not apply to exits.
func isStrongSell(cs *models.CompositeSignal, th Thresholds) bool {
	if cs.OverallScore > th.StrongSellScore {
		return false
	}
	if cs.Action.IsSell() {
		return true
	}
	return cs.OverallScore <= th.StrongSellDeep &&
		timeframeAction(cs, models.TimeframeLongTerm).IsSell()
}

func overallScore(r *Result) float64     { return r.Signal.OverallScore }
func fundamentalScore(r *Result) float64 { return r.Signal.FundamentalScore }

// swingBlend weighs technicals over the swing-horizon score.
func swingBlend(r *Result) float64 {
	return r.Signal.TechnicalScore*0.6 + timeframeScore(r.Signal, models.TimeframeSwing)*0.4
}

func timeframeScore(cs *models.CompositeSignal, tf models.Timeframe) float64 {
	for _, ts := range cs.Timeframes {
		if ts.Timeframe == tf {
			return ts.Score
		}
	}
	return 50
}

func timeframeAction(cs *models.CompositeSignal, tf models.Timeframe) models.Action {
	for _, ts := range cs.Timeframes {
		if ts.Timeframe == tf {
			return ts.Action
		}
	}
	return models.ActionNeutral
}

func filter(results []*Result, keep func(*Result) bool) []*Result {
	var out []*Result
	for _, r := range results {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// topBy returns up to n results ordered by key. Ties keep symbol order
// stable so repeated scans rank identically.
func topBy(results []*Result, n int, key func(*Result) float64, desc bool) []*Result {
	sorted := make([]*Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return key(sorted[i]) > key(sorted[j])
		}
		return key(sorted[i]) < key(sorted[j])
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
