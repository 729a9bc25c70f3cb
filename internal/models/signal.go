package models

import "time"

// Action is a trade direction verdict.
type Action string

const (
	ActionStrongBuy  Action = "STRONG_BUY"
	ActionBuy        Action = "BUY"
	ActionNeutral    Action = "NEUTRAL"
	ActionSell       Action = "SELL"
	ActionStrongSell Action = "STRONG_SELL"
)

// IsBuy reports whether the action calls for opening a long position
func (a Action) IsBuy() bool {
	return a == ActionBuy || a == ActionStrongBuy
}

// IsSell reports whether the action calls for closing a long position
func (a Action) IsSell() bool {
	return a == ActionSell || a == ActionStrongSell
}

// Strength labels conviction as distance from the neutral score of 50.
type Strength string

const (
	StrengthStrong Strength = "Strong"
	StrengthMedium Strength = "Medium"
	StrengthWeak   Strength = "Weak"
)

// Confidence is derived from confirmation count, volume backing and
// conflict count.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// AtLeast reports whether c meets or exceeds the given floor
func (c Confidence) AtLeast(floor Confidence) bool {
	return c.rank() >= floor.rank()
}

func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Timeframe identifies the horizon a signal was computed for.
type Timeframe string

const (
	TimeframeIntraday Timeframe = "INTRADAY"
	TimeframeSwing    Timeframe = "SWING"
	TimeframeLongTerm Timeframe = "LONG_TERM"
)

// TimeframeSignal is a single-horizon verdict. Immutable once produced.
type TimeframeSignal struct {
	Timeframe   Timeframe `json:"timeframe"`
	Action      Action    `json:"signal"`
	Score       float64   `json:"score"`
	Description string    `json:"description"`
}

// Conflict describes one detected contradiction between signal sources.
type Conflict struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// CompositeSignal is the full evaluation for one symbol on one date.
// A new evaluation date produces a new value; existing ones are never
// mutated.
type CompositeSignal struct {
	Symbol           string            `json:"symbol"`
	AsOf             time.Time         `json:"as_of"`
	OverallScore     float64           `json:"overall_score"`
	TechnicalScore   float64           `json:"technical_score"`
	FundamentalScore float64           `json:"fundamental_score"`
	SentimentScore   float64           `json:"sentiment_score"`
	Action           Action            `json:"overall_signal"`
	Strength         Strength          `json:"strength"`
	Confidence       Confidence        `json:"confidence"`
	Timeframes       []TimeframeSignal `json:"timeframes"`
	Conflicts        []Conflict        `json:"conflicts"`
	Priority         string            `json:"priority_recommendation"`
	VolumeRatio      float64           `json:"volume_ratio"`
}

// ConflictCount returns the number of detected conflicts
func (cs *CompositeSignal) ConflictCount() int {
	return len(cs.Conflicts)
}

// Tradeable reports whether the screening filter would accept this
// signal for a new long entry: a buy action, at least medium confidence,
// at most one conflict and real volume behind the move.
func (cs *CompositeSignal) Tradeable() bool {
	return cs.Action.IsBuy() &&
		cs.Confidence.AtLeast(ConfidenceMedium) &&
		cs.ConflictCount() <= 1 &&
		cs.VolumeRatio >= 0.7
}
