package models

// Sector identifies the threshold band set used for fundamental scoring.
type Sector string

// Known sectors. Unmapped tickers fall back to SectorGeneral.
const (
	SectorBanking      Sector = "Banking"
	SectorIT           Sector = "IT"
	SectorAutomobile   Sector = "Automobile"
	SectorPharma       Sector = "Pharma"
	SectorFMCG         Sector = "FMCG"
	SectorMetals       Sector = "Metals"
	SectorEnergy       Sector = "Energy"
	SectorConstruction Sector = "Construction"
	SectorGeneral      Sector = "General"
)

// FundamentalSnapshot is a point-in-time view of a ticker's fundamentals.
// Nil fields mean the metric was not reported; scoring treats them as
// neutral rather than zero.
type FundamentalSnapshot struct {
	Symbol       string   `json:"symbol"`
	Sector       Sector   `json:"sector"`
	PE           *float64 `json:"pe,omitempty"`
	PB           *float64 `json:"pb,omitempty"`
	ROE          *float64 `json:"roe,omitempty"`
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
	ProfitMargin *float64 `json:"profit_margin,omitempty"`
}

// SentimentSnapshot aggregates external sentiment inputs on a 0-100 scale.
type SentimentSnapshot struct {
	Symbol       string   `json:"symbol"`
	NewsScore    *float64 `json:"news_score,omitempty"`
	SocialScore  *float64 `json:"social_score,omitempty"`
	AnalystScore *float64 `json:"analyst_score,omitempty"`
}

// Float is a convenience for building optional metric fields.
func Float(v float64) *float64 { return &v }
