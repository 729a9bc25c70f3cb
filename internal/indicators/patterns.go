package indicators

import (
	"math"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// Pattern is a detected candlestick formation on the most recent bars.
type Pattern struct {
	Name    string `json:"name"`
	Bullish bool   `json:"bullish"`
}

// DetectPatterns scans the last three bars of the series for common
// candlestick formations. Multi-bar patterns take precedence over
// single-bar ones; all matches are returned.
func DetectPatterns(bars []models.Bar) []Pattern {
	var out []Pattern
	n := len(bars)
	if n == 0 {
		return out
	}

	last := bars[n-1]
	if n >= 2 {
		prev := bars[n-2]
		if isBullishEngulfing(prev, last) {
			out = append(out, Pattern{Name: "bullish_engulfing", Bullish: true})
		}
		if isBearishEngulfing(prev, last) {
			out = append(out, Pattern{Name: "bearish_engulfing", Bullish: false})
		}
		if isHarami(prev, last) {
			out = append(out, Pattern{Name: "harami", Bullish: isBull(last)})
		}
	}
	if n >= 3 {
		a, b := bars[n-3], bars[n-2]
		if isMorningStar(a, b, last) {
			out = append(out, Pattern{Name: "morning_star", Bullish: true})
		}
		if isEveningStar(a, b, last) {
			out = append(out, Pattern{Name: "evening_star", Bullish: false})
		}
		if isThreeWhiteSoldiers(a, b, last) {
			out = append(out, Pattern{Name: "three_white_soldiers", Bullish: true})
		}
		if isThreeBlackCrows(a, b, last) {
			out = append(out, Pattern{Name: "three_black_crows", Bullish: false})
		}
	}

	if isHammer(last) {
		out = append(out, Pattern{Name: "hammer", Bullish: true})
	}
	if isShootingStar(last) {
		out = append(out, Pattern{Name: "shooting_star", Bullish: false})
	}
	if isDoji(last) {
		out = append(out, Pattern{Name: "doji", Bullish: false})
	}
	return out
}

// PatternBias sums detected patterns into a directional adjustment in
// [-10, 10]: +5 per bullish formation, -5 per bearish, doji neutral.
func PatternBias(patterns []Pattern) float64 {
	bias := 0.0
	for _, p := range patterns {
		if p.Name == "doji" {
			continue
		}
		if p.Bullish {
			bias += 5
		} else {
			bias -= 5
		}
	}
	return math.Max(-10, math.Min(10, bias))
}

func body(b models.Bar) float64   { return math.Abs(b.Close - b.Open) }
func spread(b models.Bar) float64 { return b.High - b.Low }
func isBull(b models.Bar) bool    { return b.Close > b.Open }
func isBear(b models.Bar) bool    { return b.Close < b.Open }
func upperWick(b models.Bar) float64 {
	return b.High - math.Max(b.Open, b.Close)
}
func lowerWick(b models.Bar) float64 {
	return math.Min(b.Open, b.Close) - b.Low
}

func isDoji(b models.Bar) bool {
	return spread(b) > 0 && body(b) <= 0.1*spread(b)
}

func isHammer(b models.Bar) bool {
	return spread(b) > 0 && lowerWick(b) >= 2*body(b) && upperWick(b) <= body(b)
}

func isShootingStar(b models.Bar) bool {
	return spread(b) > 0 && upperWick(b) >= 2*body(b) && lowerWick(b) <= body(b)
}

func isBullishEngulfing(prev, cur models.Bar) bool {
	return isBear(prev) && isBull(cur) && cur.Open <= prev.Close && cur.Close >= prev.Open
}

func isBearishEngulfing(prev, cur models.Bar) bool {
	return isBull(prev) && isBear(cur) && cur.Open >= prev.Close && cur.Close <= prev.Open
}

func isHarami(prev, cur models.Bar) bool {
	return body(prev) > 0 && body(cur) < body(prev) &&
		math.Max(cur.Open, cur.Close) <= math.Max(prev.Open, prev.Close) &&
		math.Min(cur.Open, cur.Close) >= math.Min(prev.Open, prev.Close)
}

func isMorningStar(a, b, c models.Bar) bool {
	return isBear(a) && body(b) < body(a)*0.5 && isBull(c) &&
		c.Close > (a.Open+a.Close)/2
}

func isEveningStar(a, b, c models.Bar) bool {
	return isBull(a) && body(b) < body(a)*0.5 && isBear(c) &&
		c.Close < (a.Open+a.Close)/2
}

func isThreeWhiteSoldiers(a, b, c models.Bar) bool {
	return isBull(a) && isBull(b) && isBull(c) &&
		b.Close > a.Close && c.Close > b.Close &&
		b.Open > a.Open && c.Open > b.Open
}

func isThreeBlackCrows(a, b, c models.Bar) bool {
	return isBear(a) && isBear(b) && isBear(c) &&
		b.Close < a.Close && c.Close < b.Close &&
		b.Open < a.Open && c.Open < b.Open
}
