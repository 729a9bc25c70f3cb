package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/models"
)

const nseDateLayout = "02-01-2006"

// NSEClient implements Provider against the NSE equity API
type NSEClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

// nseCandle is one daily record from the historical endpoint. Prices
// arrive as JSON strings, so they go through decimal before float.
type nseCandle struct {
	Timestamp string `json:"CH_TIMESTAMP"`
	Open      string `json:"CH_OPENING_PRICE"`
	High      string `json:"CH_TRADE_HIGH_PRICE"`
	Low       string `json:"CH_TRADE_LOW_PRICE"`
	Close     string `json:"CH_CLOSING_PRICE"`
	Volume    int64  `json:"CH_TOT_TRADED_QTY"`
}

type nseHistoryResponse struct {
	Data []nseCandle `json:"data"`
}

type nseQuoteResponse struct {
	Info struct {
		Symbol   string `json:"symbol"`
		Industry string `json:"industry"`
	} `json:"info"`
	Metadata struct {
		PE           *string `json:"pdSymbolPe"`
		PB           *string `json:"pdPb"`
		ROE          *string `json:"pdRoe"`
		DebtToEquity *string `json:"pdDebtEquity"`
		ProfitMargin *string `json:"pdNetMargin"`
	} `json:"metadata"`
}

// NewNSEClient creates a new NSE API client
func NewNSEClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *NSEClient {
	if baseURL == "" {
		baseURL = "https://www.nseindia.com/api"
	}
	return &NSEClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// GetPriceHistory retrieves daily bars for a symbol within the date range
func (c *NSEClient) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "data source disabled", ErrSourceDisabled)
	}
	if symbol == "" {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "symbol is required", models.ErrSymbolRequired)
	}

	endpoint := fmt.Sprintf("%s/historical/cm/equity?symbol=%s&from=%s&to=%s",
		c.baseURL, url.QueryEscape(symbol), start.Format(nseDateLayout), end.Format(nseDateLayout))

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var history nseHistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse history response", err)
	}

	bars := make([]models.Bar, 0, len(history.Data))
	for _, candle := range history.Data {
		bar, err := c.convertCandle(candle)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"symbol": symbol,
				"date":   candle.Timestamp,
				"error":  err,
			}).Warn("Skipping malformed candle")
			continue
		}
		bars = append(bars, bar)
	}

	// The API returns newest-first; bar order is oldest-first.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	ps, err := models.NewPriceSeries(symbol, bars)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "inconsistent price history", err)
	}
	return ps, nil
}

// GetFundamentals retrieves the latest fundamental snapshot for a symbol
func (c *NSEClient) GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalSnapshot, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "data source disabled", ErrSourceDisabled)
	}
	if symbol == "" {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "symbol is required", models.ErrSymbolRequired)
	}

	endpoint := fmt.Sprintf("%s/quote-equity?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var quote nseQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse quote response", err)
	}

	return &models.FundamentalSnapshot{
		Symbol:       symbol,
		Sector:       SectorFromIndustry(quote.Info.Industry),
		PE:           parseMetric(quote.Metadata.PE),
		PB:           parseMetric(quote.Metadata.PB),
		ROE:          parseMetric(quote.Metadata.ROE),
		DebtToEquity: parseMetric(quote.Metadata.DebtToEquity),
		ProfitMargin: parseMetric(quote.Metadata.ProfitMargin),
	}, nil
}

// Name returns the data source name
func (c *NSEClient) Name() string {
	return "nse"
}

// IsEnabled returns whether this data source is enabled
func (c *NSEClient) IsEnabled() bool {
	return c.enabled
}

func (c *NSEClient) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}
	return resp, nil
}

func (c *NSEClient) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(c.Name(), ErrCodeNotFound, "symbol not found", models.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewDataSourceError(c.Name(), ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}
	return nil
}

func (c *NSEClient) convertCandle(candle nseCandle) (models.Bar, error) {
	ts, err := time.Parse("2006-01-02", candle.Timestamp)
	if err != nil {
		return models.Bar{}, fmt.Errorf("bad timestamp %q: %w", candle.Timestamp, err)
	}

	open, err := parsePrice(candle.Open)
	if err != nil {
		return models.Bar{}, err
	}
	high, err := parsePrice(candle.High)
	if err != nil {
		return models.Bar{}, err
	}
	low, err := parsePrice(candle.Low)
	if err != nil {
		return models.Bar{}, err
	}
	closePx, err := parsePrice(candle.Close)
	if err != nil {
		return models.Bar{}, err
	}

	bar := models.Bar{
		Time:   ts,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: float64(candle.Volume),
	}
	if err := bar.Validate(); err != nil {
		return models.Bar{}, err
	}
	return bar, nil
}

// parsePrice goes through decimal so "1,234.55" style exchange formatting
// is rejected explicitly rather than silently truncated
func parsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad price %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}

func parseMetric(s *string) *float64 {
	if s == nil || strings.TrimSpace(*s) == "" || *s == "-" {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

// SectorFromIndustry maps an exchange industry label to a scoring sector
func SectorFromIndustry(industry string) models.Sector {
	switch {
	case containsAny(industry, "bank", "financial"):
		return models.SectorBanking
	case containsAny(industry, "software", "information technology", "it services"):
		return models.SectorIT
	case containsAny(industry, "auto", "vehicle"):
		return models.SectorAutomobile
	case containsAny(industry, "pharma", "healthcare", "drug"):
		return models.SectorPharma
	case containsAny(industry, "fmcg", "consumer", "food", "beverage"):
		return models.SectorFMCG
	case containsAny(industry, "metal", "steel", "mining"):
		return models.SectorMetals
	case containsAny(industry, "oil", "gas", "power", "energy"):
		return models.SectorEnergy
	case containsAny(industry, "construction", "infrastructure", "cement", "realty"):
		return models.SectorConstruction
	default:
		return models.SectorGeneral
	}
}

func containsAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
