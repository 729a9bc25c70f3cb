// Package screener scans a stock universe and ranks the composite
// signals it produces into tradeable categories.
package screener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/config"
	"github.com/Nikhil170404/Tradee/internal/datasource"
	"github.com/Nikhil170404/Tradee/internal/logger"
	"github.com/Nikhil170404/Tradee/internal/metrics"
	"github.com/Nikhil170404/Tradee/internal/models"
	"github.com/Nikhil170404/Tradee/internal/repository"
	"github.com/Nikhil170404/Tradee/internal/sentiment"
	"github.com/Nikhil170404/Tradee/internal/signal"
)

// Result is one evaluated symbol within a scan.
type Result struct {
	Symbol       string                  `json:"symbol"`
	Sector       models.Sector           `json:"sector"`
	CurrentPrice float64                 `json:"current_price"`
	Signal       *models.CompositeSignal `json:"signal"`
}

// ScanReport is the full output of one universe scan.
type ScanReport struct {
	ScanID     uuid.UUID       `json:"scan_id"`
	StartedAt  time.Time       `json:"started_at"`
	DurationMs float64         `json:"duration_ms"`
	Scanned    int             `json:"scanned"`
	Failed     []string        `json:"failed,omitempty"`
	Categories Categories      `json:"categories"`
	Sectors    []SectorSummary `json:"sector_analysis"`
}

// Screener runs the evaluation pipeline across a configured universe.
// The sentiment client and signal repository are optional.
type Screener struct {
	cfg       config.ScreenerConfig
	provider  datasource.Provider
	scorer    *signal.Scorer
	sentiment sentiment.Client
	signals   repository.ScreenerSignalRepository
	log       *logger.ScreenerLogger

	mu         sync.RWMutex
	lastQuotes map[string]datasource.Quote
}

// New creates a screener. The provider and scorer are required.
func New(cfg config.ScreenerConfig, provider datasource.Provider, scorer *signal.Scorer, sentimentClient sentiment.Client, signals repository.ScreenerSignalRepository, baseLogger *logrus.Logger) (*Screener, error) {
	if provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}
	if scorer == nil {
		return nil, fmt.Errorf("signal scorer is required")
	}
	if len(cfg.Universe) == 0 {
		return nil, fmt.Errorf("universe must not be empty")
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &Screener{
		cfg:        cfg,
		provider:   provider,
		scorer:     scorer,
		sentiment:  sentimentClient,
		signals:    signals,
		log:        logger.NewScreenerLogger(baseLogger),
		lastQuotes: make(map[string]datasource.Quote),
	}, nil
}

// Scan evaluates every symbol in the universe, categorizes the results
// and persists the actionable signals when a repository is configured.
func (s *Screener) Scan(ctx context.Context) (*ScanReport, error) {
	scanID := uuid.New()
	started := time.Now().UTC()
	end := started
	start := end.AddDate(0, 0, -s.cfg.LookbackDays)

	s.log.LogScanStart(scanID.String(), len(s.cfg.Universe), started)
	metrics.UpdateUniverseSize(float64(len(s.cfg.Universe)))

	var results []*Result
	var failed []string
	for _, symbol := range s.cfg.Universe {
		if err := ctx.Err(); err != nil {
			metrics.RecordScreenerScan("cancelled", time.Since(started).Seconds())
			return nil, err
		}
		res, err := s.evaluateSymbol(ctx, symbol, start, end)
		if err != nil {
			s.log.LogSymbolSkipped(scanID.String(), symbol, err.Error())
			failed = append(failed, symbol)
			continue
		}
		results = append(results, res)
	}

	if len(results) == 0 {
		metrics.RecordScreenerScan("error", time.Since(started).Seconds())
		return nil, fmt.Errorf("scan evaluated no symbols (%d failed)", len(failed))
	}

	cats := Categorize(results, s.thresholds())
	report := &ScanReport{
		ScanID:     scanID,
		StartedAt:  started,
		DurationMs: float64(time.Since(started).Milliseconds()),
		Scanned:    len(results),
		Failed:     failed,
		Categories: cats,
		Sectors:    SectorRollup(results),
	}

	for _, res := range cats.StrongBuy {
		s.log.LogSignal(scanID.String(), res.Symbol, CategoryStrongBuy, res.Signal.OverallScore, string(res.Signal.Action))
		metrics.RecordScreenerSignal(CategoryStrongBuy)
	}
	for range cats.StrongSell {
		metrics.RecordScreenerSignal(CategoryStrongSell)
	}

	if s.signals != nil {
		if err := s.persist(ctx, scanID, started, cats); err != nil {
			s.log.WithError(err).Error("Failed to persist screener signals")
		}
	}

	metrics.RecordScreenerScan("success", time.Since(started).Seconds())
	s.log.LogScanComplete(scanID.String(), report.Scanned, len(cats.StrongBuy)+len(cats.StrongSell), report.DurationMs)
	return report, nil
}

// Prune removes persisted signals older than the retention window.
func (s *Screener) Prune(ctx context.Context) (int64, error) {
	if s.signals == nil {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.RetentionDays)
	deleted, err := s.signals.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune signals: %w", err)
	}
	s.log.LogRetentionPrune(cutoff, deleted)
	return deleted, nil
}

// AttachStream subscribes the screener to live quotes for its universe.
// Quotes only refresh cached prices; they never trigger a rescan.
func (s *Screener) AttachStream(ctx context.Context, stream *datasource.QuoteStream) error {
	if err := stream.Connect(ctx); err != nil {
		return fmt.Errorf("connect quote stream: %w", err)
	}
	if err := stream.Subscribe(ctx, s.cfg.Universe); err != nil {
		return fmt.Errorf("subscribe quote stream: %w", err)
	}
	stream.AddHandler(func(quote datasource.Quote) error {
		s.mu.Lock()
		s.lastQuotes[quote.Symbol] = quote
		s.mu.Unlock()
		return nil
	})
	return nil
}

// LastQuote returns the most recent streamed quote for a symbol, if any.
func (s *Screener) LastQuote(symbol string) (datasource.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quote, ok := s.lastQuotes[symbol]
	return quote, ok
}

func (s *Screener) thresholds() Thresholds {
	th := DefaultThresholds()
	if s.cfg.MinScore > 0 {
		th.StrongBuyScore = s.cfg.MinScore
	}
	if s.cfg.TopN > 0 {
		th.TopN = s.cfg.TopN
	}
	return th
}

func (s *Screener) evaluateSymbol(ctx context.Context, symbol string, start, end time.Time) (*Result, error) {
	ps, err := s.provider.GetPriceHistory(ctx, symbol, start, end)
	if err != nil {
		metrics.RecordDataFetch(s.provider.Name(), "error")
		return nil, fmt.Errorf("price history: %w", err)
	}
	metrics.RecordDataFetch(s.provider.Name(), "success")

	fund, err := s.provider.GetFundamentals(ctx, symbol)
	if err != nil {
		s.log.WithError(err).WithField("symbol", symbol).Warn("Fundamentals unavailable, scoring neutral")
		fund = nil
	}

	var sent *models.SentimentSnapshot
	if s.sentiment != nil {
		sent, err = s.sentiment.Score(ctx, symbol)
		if err != nil {
			s.log.WithError(err).WithField("symbol", symbol).Debug("Sentiment unavailable, scoring neutral")
			sent = nil
		}
	}

	cs, err := s.scorer.Evaluate(ps, fund, sent)
	if err != nil {
		return nil, fmt.Errorf("evaluate signal: %w", err)
	}

	last, ok := ps.Last()
	if !ok {
		return nil, fmt.Errorf("empty price series for %s", symbol)
	}
	price := last.Close
	if quote, ok := s.LastQuote(symbol); ok {
		price = quote.LastPrice
	}

	sector := models.SectorGeneral
	if fund != nil {
		sector = fund.Sector
	}
	return &Result{
		Symbol:       symbol,
		Sector:       sector,
		CurrentPrice: price,
		Signal:       cs,
	}, nil
}

func (s *Screener) persist(ctx context.Context, scanID uuid.UUID, scannedAt time.Time, cats Categories) error {
	var rows []*models.ScreenerSignal
	appendRows := func(results []*Result, category string) {
		for _, res := range results {
			rows = append(rows, &models.ScreenerSignal{
				ID:           uuid.New(),
				ScanID:       scanID,
				Symbol:       res.Symbol,
				Sector:       res.Sector,
				Score:        res.Signal.OverallScore,
				Action:       res.Signal.Action,
				Confidence:   res.Signal.Confidence,
				Conflicts:    res.Signal.ConflictCount(),
				VolumeRatio:  res.Signal.VolumeRatio,
				Category:     category,
				CurrentPrice: res.CurrentPrice,
				ScannedAt:    scannedAt,
			})
		}
	}
	appendRows(cats.StrongBuy, CategoryStrongBuy)
	appendRows(cats.StrongSell, CategoryStrongSell)

	if len(rows) == 0 {
		return nil
	}
	return s.signals.SaveBatch(ctx, rows)
}
