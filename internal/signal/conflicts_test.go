package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikhil170404/Tradee/internal/models"
)

func compositeWith(action models.Action, volumeRatio float64, tfs ...models.TimeframeSignal) *models.CompositeSignal {
	return &models.CompositeSignal{
		Symbol:         "TEST",
		Action:         action,
		TechnicalScore: 50,
		VolumeRatio:    volumeRatio,
		Timeframes:     tfs,
	}
}

func tf(frame models.Timeframe, action models.Action) models.TimeframeSignal {
	return models.TimeframeSignal{Timeframe: frame, Action: action, Score: 50}
}

func TestDetectConflictsAlignedSetIsClean(t *testing.T) {
	cs := compositeWith(models.ActionBuy, 1.2,
		tf(models.TimeframeIntraday, models.ActionBuy),
		tf(models.TimeframeSwing, models.ActionBuy),
		tf(models.TimeframeLongTerm, models.ActionBuy),
	)
	assert.Empty(t, DetectConflicts(cs))
}

func TestDetectConflictsIntradayDisagreement(t *testing.T) {
	cs := compositeWith(models.ActionBuy, 1.2,
		tf(models.TimeframeIntraday, models.ActionSell),
		tf(models.TimeframeSwing, models.ActionBuy),
	)
	conflicts := DetectConflicts(cs)
	require.NotEmpty(t, conflicts)
	assert.Equal(t, ConflictTimeframe, conflicts[0].Type)
}

func TestDetectConflictsVolumeConviction(t *testing.T) {
	cs := compositeWith(models.ActionBuy, 0.5)
	cs.TechnicalScore = 70 // strong read, thin tape

	conflicts := DetectConflicts(cs)
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictConviction, conflicts[0].Type)
}

func TestDetectConflictsPullbackVsTrend(t *testing.T) {
	cs := compositeWith(models.ActionBuy, 1.0,
		tf(models.TimeframeIntraday, models.ActionSell),
		tf(models.TimeframeLongTerm, models.ActionBuy),
	)
	conflicts := DetectConflicts(cs)

	types := make(map[string]bool)
	for _, c := range conflicts {
		types[c.Type] = true
	}
	assert.True(t, types[ConflictPullback])
}

func TestDetectConflictsSwingVsLongTerm(t *testing.T) {
	cs := compositeWith(models.ActionBuy, 1.0,
		tf(models.TimeframeSwing, models.ActionBuy),
		tf(models.TimeframeLongTerm, models.ActionSell),
	)
	conflicts := DetectConflicts(cs)

	types := make(map[string]bool)
	for _, c := range conflicts {
		types[c.Type] = true
	}
	assert.True(t, types[ConflictSwingTrend])
}

func TestDetectConflictsOverallVsMajority(t *testing.T) {
	cs := compositeWith(models.ActionBuy, 1.0,
		tf(models.TimeframeSwing, models.ActionSell),
		tf(models.TimeframeLongTerm, models.ActionSell),
	)
	conflicts := DetectConflicts(cs)

	types := make(map[string]bool)
	for _, c := range conflicts {
		types[c.Type] = true
	}
	assert.True(t, types[ConflictMajority])
}

func TestPriorityRecommendation(t *testing.T) {
	clean := compositeWith(models.ActionBuy, 1.2,
		tf(models.TimeframeIntraday, models.ActionBuy),
	)
	clean.Conflicts = DetectConflicts(clean)
	assert.Contains(t, priorityRecommendation(clean), "aligned")

	torn := compositeWith(models.ActionBuy, 1.2,
		tf(models.TimeframeIntraday, models.ActionSell),
		tf(models.TimeframeLongTerm, models.ActionBuy),
	)
	torn.Conflicts = DetectConflicts(torn)
	assert.Contains(t, priorityRecommendation(torn), "VWAP")
}

func TestDeriveConfidenceLevels(t *testing.T) {
	cs := compositeWith(models.ActionBuy, 1.2)
	cs.Conflicts = nil
	assert.Equal(t, models.ConfidenceHigh, deriveConfidence(cs, 65, 2))

	cs = compositeWith(models.ActionBuy, 0.8)
	cs.Conflicts = []models.Conflict{{Type: ConflictTimeframe}}
	assert.Equal(t, models.ConfidenceMedium, deriveConfidence(cs, 50, 1))

	cs = compositeWith(models.ActionBuy, 0.5)
	cs.Conflicts = []models.Conflict{{Type: ConflictTimeframe}, {Type: ConflictMajority}}
	assert.Equal(t, models.ConfidenceLow, deriveConfidence(cs, 50, 0))
}
