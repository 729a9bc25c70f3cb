// Package signal combines technical indicators, fundamentals and
// sentiment into composite trade signals with conflict detection.
package signal

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/indicators"
	"github.com/Nikhil170404/Tradee/internal/models"
)

// Composite weights. Technical carries half the verdict, fundamentals
// nearly a third, sentiment the remainder.
const (
	weightTechnical   = 0.5
	weightFundamental = 0.3
	weightSentiment   = 0.2
)

// Technical sub-weights across timeframes. Renormalized when a
// timeframe has insufficient history.
const (
	subWeightIntraday = 0.25
	subWeightSwing    = 0.45
	subWeightLongTerm = 0.30
)

// MaxScore is the ceiling for every score this package produces. No
// real-world setup reads as mathematically perfect.
const MaxScore = 85.0

// Overall-action thresholds.
const (
	strongBuyAt  = 70.0
	buyAt        = 58.0
	sellAt       = 42.0
	strongSellAt = 30.0
)

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(MaxScore, score))
}

func overallAction(score float64) models.Action {
	switch {
	case score >= strongBuyAt:
		return models.ActionStrongBuy
	case score >= buyAt:
		return models.ActionBuy
	case score > sellAt:
		return models.ActionNeutral
	case score > strongSellAt:
		return models.ActionSell
	default:
		return models.ActionStrongSell
	}
}

// StrengthOf labels conviction by distance from the neutral score of 50,
// symmetrically in both directions.
func StrengthOf(score float64) models.Strength {
	distance := math.Abs(score - 50)
	switch {
	case distance >= 30:
		return models.StrengthStrong
	case distance >= 15:
		return models.StrengthMedium
	default:
		return models.StrengthWeak
	}
}

// Scorer evaluates composite signals for one symbol at a time. Stateless
// apart from its logger; safe for concurrent use on independent series.
type Scorer struct {
	logger *logrus.Logger
}

// NewScorer creates a signal scorer
func NewScorer(logger *logrus.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// Evaluate produces the composite signal for the series as of its last
// bar. Timeframes without enough history are omitted and their weight
// redistributed; they are never scored as zero.
func (s *Scorer) Evaluate(ps *models.PriceSeries, fund *models.FundamentalSnapshot, sent *models.SentimentSnapshot) (*models.CompositeSignal, error) {
	last, ok := ps.Last()
	if !ok {
		return nil, fmt.Errorf("evaluate %s: %w", ps.Symbol, models.ErrInsufficientHistory)
	}

	set := indicators.Compute(ps)

	intraday := intradaySignal(set, last.Close)
	swing, confirmations := swingSignal(set, last.Close)
	longTerm := longTermSignal(set, last.Close, set.OBVTrend)

	var timeframes []models.TimeframeSignal
	var techWeighted, techWeight float64
	if intraday != nil {
		timeframes = append(timeframes, *intraday)
		techWeighted += intraday.Score * subWeightIntraday
		techWeight += subWeightIntraday
	}
	if swing != nil {
		timeframes = append(timeframes, *swing)
		techWeighted += swing.Score * subWeightSwing
		techWeight += subWeightSwing
	}
	if longTerm != nil {
		timeframes = append(timeframes, *longTerm)
		techWeighted += longTerm.Score * subWeightLongTerm
		techWeight += subWeightLongTerm
	}

	technical := 50.0
	if techWeight > 0 {
		technical = techWeighted / techWeight
	}
	technical = clampScore(technical)

	fundamental := clampScore(FundamentalScore(fund))
	sentiment := clampScore(SentimentScore(sent))

	overall := clampScore(weightTechnical*technical + weightFundamental*fundamental + weightSentiment*sentiment)

	volumeRatio := 0.0
	if set.VolumeRatio != nil {
		volumeRatio = *set.VolumeRatio
	}

	cs := &models.CompositeSignal{
		Symbol:           ps.Symbol,
		AsOf:             last.Time,
		OverallScore:     overall,
		TechnicalScore:   technical,
		FundamentalScore: fundamental,
		SentimentScore:   sentiment,
		Action:           overallAction(overall),
		Strength:         StrengthOf(overall),
		Timeframes:       timeframes,
		VolumeRatio:      volumeRatio,
	}

	cs.Conflicts = DetectConflicts(cs)
	cs.Confidence = deriveConfidence(cs, fundamental, confirmations)
	cs.Priority = priorityRecommendation(cs)

	s.logger.WithFields(logrus.Fields{
		"symbol":      ps.Symbol,
		"as_of":       last.Time.Format("2006-01-02"),
		"overall":     overall,
		"technical":   technical,
		"fundamental": fundamental,
		"sentiment":   sentiment,
		"action":      cs.Action,
		"confidence":  cs.Confidence,
		"conflicts":   len(cs.Conflicts),
	}).Debug("Composite signal evaluated")

	return cs, nil
}

// deriveConfidence grades the signal: HIGH needs two independent
// confirmations, real volume backing and a clean conflict slate.
func deriveConfidence(cs *models.CompositeSignal, fundamental float64, confirmations int) models.Confidence {
	// The fundamental picture agreeing with the direction counts as a
	// confirmation too.
	if (cs.Action.IsBuy() && fundamental >= 60) || (cs.Action.IsSell() && fundamental <= 40) {
		confirmations++
	}

	conflicts := cs.ConflictCount()
	switch {
	case confirmations >= 2 && cs.VolumeRatio >= 1.0 && conflicts == 0:
		return models.ConfidenceHigh
	case conflicts <= 1 && cs.VolumeRatio >= 0.7:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
