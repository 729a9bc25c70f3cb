package signal

import "github.com/Nikhil170404/Tradee/internal/models"

// SentimentScore averages the available sentiment components on a 0-100
// scale. A missing snapshot or one with no components reads neutral.
func SentimentScore(s *models.SentimentSnapshot) float64 {
	if s == nil {
		return 50
	}
	var sum float64
	var n int
	for _, v := range []*float64{s.NewsScore, s.SocialScore, s.AnalystScore} {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 50
	}
	return sum / float64(n)
}
