package datasource

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/models"
)

// CSVClient implements Provider from local history files, one
// <SYMBOL>.csv per ticker plus an optional fundamentals.json. Used for
// offline backtests and deterministic test fixtures.
type CSVClient struct {
	dir     string
	enabled bool
	logger  *logrus.Logger
}

// NewCSVClient creates a file-backed data source rooted at dir
func NewCSVClient(dir string, enabled bool, logger *logrus.Logger) *CSVClient {
	return &CSVClient{dir: dir, enabled: enabled, logger: logger}
}

// GetPriceHistory reads <dir>/<SYMBOL>.csv and returns bars within the range.
// Expected header: Date,Open,High,Low,Close,Volume with ISO dates.
func (c *CSVClient) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "data source disabled", ErrSourceDisabled)
	}
	if symbol == "" {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "symbol is required", models.ErrSymbolRequired)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(c.dir, sanitizeSymbol(symbol)+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, "no history file for "+symbol, models.ErrNotFound)
		}
		return nil, NewDataSourceError(c.Name(), ErrCodeUnknown, "failed to open history file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 6

	records, err := reader.ReadAll()
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to read history file", err)
	}
	if len(records) < 2 {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "history file has no rows", models.ErrInsufficientHistory)
	}

	bars := make([]models.Bar, 0, len(records)-1)
	for i, record := range records[1:] {
		bar, err := parseCSVBar(record)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"symbol": symbol,
				"row":    i + 2,
				"error":  err,
			}).Warn("Skipping malformed history row")
			continue
		}
		if bar.Time.Before(start) || bar.Time.After(end) {
			continue
		}
		bars = append(bars, bar)
	}

	ps, err := models.NewPriceSeries(symbol, bars)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "inconsistent price history", err)
	}
	return ps, nil
}

// GetFundamentals reads the symbol's entry from <dir>/fundamentals.json
func (c *CSVClient) GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalSnapshot, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "data source disabled", ErrSourceDisabled)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(c.dir, "fundamentals.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, "no fundamentals file", models.ErrNotFound)
		}
		return nil, NewDataSourceError(c.Name(), ErrCodeUnknown, "failed to read fundamentals file", err)
	}

	var snapshots map[string]models.FundamentalSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse fundamentals file", err)
	}

	snapshot, ok := snapshots[symbol]
	if !ok {
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, "no fundamentals for "+symbol, models.ErrNotFound)
	}
	snapshot.Symbol = symbol
	if snapshot.Sector == "" {
		snapshot.Sector = models.SectorGeneral
	}
	return &snapshot, nil
}

// Name returns the data source name
func (c *CSVClient) Name() string {
	return "csv"
}

// IsEnabled returns whether this data source is enabled
func (c *CSVClient) IsEnabled() bool {
	return c.enabled
}

func parseCSVBar(record []string) (models.Bar, error) {
	ts, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
	if err != nil {
		return models.Bar{}, fmt.Errorf("bad date %q: %w", record[0], err)
	}

	prices := make([]float64, 4)
	for i, field := range record[1:5] {
		prices[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return models.Bar{}, fmt.Errorf("bad price %q: %w", field, err)
		}
	}
	volume, err := strconv.ParseInt(strings.TrimSpace(record[5]), 10, 64)
	if err != nil {
		return models.Bar{}, fmt.Errorf("bad volume %q: %w", record[5], err)
	}

	bar := models.Bar{
		Time: ts, Open: prices[0], High: prices[1], Low: prices[2], Close: prices[3], Volume: float64(volume),
	}
	if err := bar.Validate(); err != nil {
		return models.Bar{}, err
	}
	return bar, nil
}

// sanitizeSymbol strips path separators so a symbol can never escape dir
func sanitizeSymbol(symbol string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ':':
			return '_'
		}
		return r
	}, symbol)
}
