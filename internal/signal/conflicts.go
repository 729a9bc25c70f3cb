package signal

import (
	"fmt"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// Conflict type labels.
const (
	ConflictTimeframe  = "TIMEFRAME_DISAGREEMENT"
	ConflictConviction = "VOLUME_CONVICTION"
	ConflictPullback   = "PULLBACK_VS_TREND"
	ConflictSwingTrend = "SWING_VS_LONG_TERM"
	ConflictMajority   = "OVERALL_VS_MAJORITY"
)

func timeframeByName(cs *models.CompositeSignal, tf models.Timeframe) *models.TimeframeSignal {
	for i := range cs.Timeframes {
		if cs.Timeframes[i].Timeframe == tf {
			return &cs.Timeframes[i]
		}
	}
	return nil
}

func opposed(a, b models.Action) bool {
	return (a.IsBuy() && b.IsSell()) || (a.IsSell() && b.IsBuy())
}

// DetectConflicts runs the fixed battery of pairwise checks against the
// timeframe set and composite. Each check contributes at most one
// conflict; order is fixed so output is deterministic.
func DetectConflicts(cs *models.CompositeSignal) []models.Conflict {
	var out []models.Conflict

	intraday := timeframeByName(cs, models.TimeframeIntraday)
	swing := timeframeByName(cs, models.TimeframeSwing)
	longTerm := timeframeByName(cs, models.TimeframeLongTerm)

	// 1. Intraday disagreeing with either longer horizon.
	if intraday != nil {
		for _, other := range []*models.TimeframeSignal{swing, longTerm} {
			if other != nil && opposed(intraday.Action, other.Action) {
				out = append(out, models.Conflict{
					Type: ConflictTimeframe,
					Description: fmt.Sprintf("intraday reads %s while %s reads %s",
						intraday.Action, other.Timeframe, other.Action),
				})
				break
			}
		}
	}

	// 2. A strong technical read without the volume to back it.
	if StrengthOf(cs.TechnicalScore) != models.StrengthWeak && cs.VolumeRatio > 0 && cs.VolumeRatio < 0.7 {
		out = append(out, models.Conflict{
			Type: ConflictConviction,
			Description: fmt.Sprintf("technical score %.0f lacks volume backing (ratio %.2f)",
				cs.TechnicalScore, cs.VolumeRatio),
		})
	}

	// 3. Short-term weakness inside a long-term uptrend (or the
	// mirror): pullback or trend change, the chart cannot say.
	if intraday != nil && longTerm != nil {
		if (intraday.Action.IsSell() && longTerm.Action.IsBuy()) ||
			(intraday.Action.IsBuy() && longTerm.Action.IsSell()) {
			out = append(out, models.Conflict{
				Type:        ConflictPullback,
				Description: "short-term move runs against the long-term trend",
			})
		}
	}

	// 4. Swing bullish against a bearish long-term structure.
	if swing != nil && longTerm != nil && opposed(swing.Action, longTerm.Action) {
		out = append(out, models.Conflict{
			Type: ConflictSwingTrend,
			Description: fmt.Sprintf("swing reads %s while the long-term trend reads %s",
				swing.Action, longTerm.Action),
		})
	}

	// 5. Overall verdict against the majority of timeframe votes.
	if len(cs.Timeframes) >= 2 {
		agree := 0
		for _, tf := range cs.Timeframes {
			if !opposed(cs.Action, tf.Action) {
				agree++
			}
		}
		if agree*2 < len(cs.Timeframes) {
			out = append(out, models.Conflict{
				Type:        ConflictMajority,
				Description: "overall signal disagrees with the majority of timeframe signals",
			})
		}
	}

	return out
}

// priorityRecommendation states which single timeframe signal to act on
// per trading style when the set is not unanimous.
func priorityRecommendation(cs *models.CompositeSignal) string {
	if cs.ConflictCount() == 0 {
		return "All timeframes aligned; trade in the direction of the overall signal."
	}

	for _, c := range cs.Conflicts {
		switch c.Type {
		case ConflictTimeframe, ConflictPullback:
			return "Timeframes disagree: intraday traders should follow the VWAP signal (historically the stronger intraday edge); positional traders should defer to the long-term trend."
		case ConflictConviction:
			return "Signal lacks volume conviction; wait for volume confirmation before acting."
		case ConflictSwingTrend:
			return "Swing setup runs against the long-term trend; size down or wait for trend confirmation."
		}
	}
	return "Mixed signals; follow the timeframe matching your holding period and reduce size."
}
