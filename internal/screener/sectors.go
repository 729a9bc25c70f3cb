package screener

import (
	"sort"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// SectorTrend labels how a sector's average score reads.
type SectorTrend string

const (
	TrendBullish SectorTrend = "BULLISH"
	TrendNeutral SectorTrend = "NEUTRAL"
	TrendBearish SectorTrend = "BEARISH"
)

// VolumeStrength labels a sector's average volume ratio.
type VolumeStrength string

const (
	VolumeHigh   VolumeStrength = "HIGH"
	VolumeMedium VolumeStrength = "MEDIUM"
	VolumeLow    VolumeStrength = "LOW"
)

// SectorSummary is one sector's rollup across a scan.
type SectorSummary struct {
	Sector         models.Sector  `json:"sector"`
	Trend          SectorTrend    `json:"trend"`
	AvgScore       float64        `json:"avg_score"`
	AvgVolumeRatio float64        `json:"avg_volume_ratio"`
	VolumeStrength VolumeStrength `json:"volume_strength"`
	StockCount     int            `json:"stock_count"`
	Symbols        []string       `json:"symbols"`
}

// SectorRollup aggregates scan results per sector, best sectors first.
func SectorRollup(results []*Result) []SectorSummary {
	type bucket struct {
		symbols  []string
		scoreSum float64
		volSum   float64
	}
	buckets := make(map[models.Sector]*bucket)
	for _, r := range results {
		b, ok := buckets[r.Sector]
		if !ok {
			b = &bucket{}
			buckets[r.Sector] = b
		}
		b.symbols = append(b.symbols, r.Symbol)
		b.scoreSum += r.Signal.OverallScore
		b.volSum += r.Signal.VolumeRatio
	}

	summaries := make([]SectorSummary, 0, len(buckets))
	for sector, b := range buckets {
		n := float64(len(b.symbols))
		avgScore := b.scoreSum / n
		avgVol := b.volSum / n
		summaries = append(summaries, SectorSummary{
			Sector:         sector,
			Trend:          trendOf(avgScore),
			AvgScore:       avgScore,
			AvgVolumeRatio: avgVol,
			VolumeStrength: volumeStrengthOf(avgVol),
			StockCount:     len(b.symbols),
			Symbols:        b.symbols,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].AvgScore != summaries[j].AvgScore {
			return summaries[i].AvgScore > summaries[j].AvgScore
		}
		return summaries[i].Sector < summaries[j].Sector
	})
	return summaries
}

func trendOf(avgScore float64) SectorTrend {
	switch {
	case avgScore >= 60:
		return TrendBullish
	case avgScore >= 50:
		return TrendNeutral
	default:
		return TrendBearish
	}
}

func volumeStrengthOf(avgVolume float64) VolumeStrength {
	switch {
	case avgVolume >= 1.2:
		return VolumeHigh
	case avgVolume >= 0.8:
		return VolumeMedium
	default:
		return VolumeLow
	}
}
