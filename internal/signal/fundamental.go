package signal

import "github.com/Nikhil170404/Tradee/internal/models"

// Metric weights for the fundamental composite.
const (
	weightPE     = 25
	weightPB     = 15
	weightROE    = 20
	weightDebt   = 20
	weightMargin = 20
)

// band maps a threshold to the score awarded when the metric clears it.
type band struct {
	Limit float64
	Score float64
}

// scoreBelow awards the first band whose limit the value stays under.
// Used for valuation ratios where lower is better.
func scoreBelow(v float64, bands []band) float64 {
	return scoreBelowDefault(v, bands, 0)
}

func scoreBelowDefault(v float64, bands []band, fallback float64) float64 {
	for _, b := range bands {
		if v < b.Limit {
			return b.Score
		}
	}
	return fallback
}

// scoreAbove awards the first band whose limit the value exceeds.
// Used for profitability metrics where higher is better.
func scoreAbove(v float64, bands []band) float64 {
	for _, b := range bands {
		if v > b.Limit {
			return b.Score
		}
	}
	return 0
}

// Sector P/E bands. Multiples that read cheap in one sector read
// stretched in another, so each sector carries its own ladder.
var peBands = map[models.Sector][]band{
	models.SectorBanking:    {{8, 100}, {12, 75}, {18, 50}, {25, 25}},
	models.SectorIT:         {{20, 100}, {28, 75}, {35, 50}, {45, 25}},
	models.SectorAutomobile: {{15, 100}, {22, 75}, {30, 50}, {40, 25}},
	models.SectorPharma:     {{20, 100}, {30, 75}, {40, 50}, {55, 25}},
	models.SectorFMCG:       {{35, 100}, {50, 75}, {65, 50}, {80, 25}},
}

var peGeneralBands = []band{{12, 100}, {20, 75}, {30, 50}, {40, 25}}

// P/B splits by capital intensity rather than individual sector.
var (
	pbAssetHeavyBands = []band{{0.8, 100}, {1.2, 75}, {2.0, 50}, {3.0, 25}}
	pbAssetLightBands = []band{{3, 100}, {6, 75}, {10, 50}, {15, 25}}
)

// ROE ladder is universal: high return on equity is good everywhere.
var roeBands = []band{{18, 100}, {15, 75}, {12, 50}, {8, 25}}

// Debt/equity tolerance by sector group. Values are percentages.
// Deposits make bank balance sheets leveraged by construction, so the
// Banking ladder never scores below 25.
var (
	deBankingBands    = []band{{50, 100}, {100, 75}, {150, 50}}
	deCapitalBands    = []band{{30, 100}, {60, 75}, {100, 50}, {150, 25}}
	deAssetLightBands = []band{{10, 100}, {30, 75}, {60, 50}, {100, 25}}
)

// Profit margin bands in percent, per sector.
var marginBands = map[models.Sector][]band{
	models.SectorBanking:    {{40, 100}, {30, 75}, {20, 50}, {10, 25}},
	models.SectorIT:         {{20, 100}, {15, 75}, {10, 50}, {5, 25}},
	models.SectorAutomobile: {{12, 100}, {9, 75}, {6, 50}, {3, 25}},
	models.SectorPharma:     {{20, 100}, {15, 75}, {10, 50}, {5, 25}},
	models.SectorFMCG:       {{15, 100}, {12, 75}, {8, 50}, {4, 25}},
	models.SectorMetals:     {{10, 100}, {7, 75}, {4, 50}, {2, 25}},
}

var marginGeneralBands = []band{{15, 100}, {10, 75}, {5, 50}, {2, 25}}

func assetHeavy(sector models.Sector) bool {
	switch sector {
	case models.SectorBanking, models.SectorMetals, models.SectorEnergy, models.SectorConstruction:
		return true
	}
	return false
}

func scorePE(pe float64, sector models.Sector) float64 {
	bands, ok := peBands[sector]
	if !ok {
		bands = peGeneralBands
	}
	return scoreBelow(pe, bands)
}

func scorePB(pb float64, sector models.Sector) float64 {
	if assetHeavy(sector) {
		return scoreBelow(pb, pbAssetHeavyBands)
	}
	return scoreBelow(pb, pbAssetLightBands)
}

func scoreDebtToEquity(de float64, sector models.Sector) float64 {
	switch {
	case sector == models.SectorBanking:
		return scoreBelowDefault(de, deBankingBands, 25)
	case sector == models.SectorEnergy, sector == models.SectorConstruction, sector == models.SectorMetals:
		return scoreBelow(de, deCapitalBands)
	default:
		return scoreBelow(de, deAssetLightBands)
	}
}

func scoreProfitMargin(margin float64, sector models.Sector) float64 {
	bands, ok := marginBands[sector]
	if !ok {
		bands = marginGeneralBands
	}
	return scoreAbove(margin, bands)
}

// FundamentalScore computes the weighted sector-aware fundamental
// composite on a 0-100 scale. Missing metrics drop out of the weighted
// average rather than dragging the score down; a snapshot with no
// usable metrics scores a neutral 50.
func FundamentalScore(f *models.FundamentalSnapshot) float64 {
	if f == nil {
		return 50
	}
	sector := f.Sector
	if sector == "" {
		sector = models.SectorGeneral
	}

	var weighted, totalWeight float64
	if f.PE != nil {
		weighted += scorePE(*f.PE, sector) * weightPE
		totalWeight += weightPE
	}
	if f.PB != nil {
		weighted += scorePB(*f.PB, sector) * weightPB
		totalWeight += weightPB
	}
	if f.ROE != nil {
		weighted += scoreAbove(*f.ROE, roeBands) * weightROE
		totalWeight += weightROE
	}
	if f.DebtToEquity != nil {
		weighted += scoreDebtToEquity(*f.DebtToEquity, sector) * weightDebt
		totalWeight += weightDebt
	}
	if f.ProfitMargin != nil {
		weighted += scoreProfitMargin(*f.ProfitMargin, sector) * weightMargin
		totalWeight += weightMargin
	}

	if totalWeight == 0 {
		return 50
	}
	return weighted / totalWeight
}
