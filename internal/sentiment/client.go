// Package sentiment provides an HTTP client for the sentiment service.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/config"
	"github.com/Nikhil170404/Tradee/internal/models"
)

// Client retrieves sentiment snapshots for symbols
type Client interface {
	// Score returns the latest aggregated sentiment for a symbol
	Score(ctx context.Context, symbol string) (*models.SentimentSnapshot, error)

	// HealthCheck checks sentiment service health
	HealthCheck(ctx context.Context) error

	// Close releases client resources
	Close() error
}

// HTTPClient is the direct HTTP implementation of Client
type HTTPClient struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// scoreResponse is the service's wire format. Component scores are
// 0-100; absent components are nil and scoring treats them as neutral.
type scoreResponse struct {
	Symbol       string   `json:"symbol"`
	NewsScore    *float64 `json:"news_score"`
	SocialScore  *float64 `json:"social_score"`
	AnalystScore *float64 `json:"analyst_score"`
	AsOf         string   `json:"as_of"`
}

// NewHTTPClient creates a new HTTP client for the sentiment service
func NewHTTPClient(cfg *config.SentimentConfig, logger *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		baseURL: cfg.HTTPAddress,
		logger:  logger,
	}
}

// Score returns the latest aggregated sentiment for a symbol
func (c *HTTPClient) Score(ctx context.Context, symbol string) (*models.SentimentSnapshot, error) {
	if symbol == "" {
		return nil, models.ErrSymbolRequired
	}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/v1/sentiment/%s", c.baseURL, symbol), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		RequestsTotal.WithLabelValues("http", "network_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		RequestsTotal.WithLabelValues("http", "not_found").Inc()
		return nil, fmt.Errorf("sentiment for %s: %w", symbol, models.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		RequestsTotal.WithLabelValues("http", "http_error").Inc()
		return nil, fmt.Errorf("sentiment request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var score scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		RequestsTotal.WithLabelValues("http", "decode_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	c.logger.WithFields(logrus.Fields{
		"symbol":   symbol,
		"duration": time.Since(start),
	}).Debug("Fetched sentiment snapshot")

	RequestsTotal.WithLabelValues("http", "ok").Inc()
	RequestLatency.Observe(time.Since(start).Seconds())

	return &models.SentimentSnapshot{
		Symbol:       symbol,
		NewsScore:    score.NewsScore,
		SocialScore:  score.SocialScore,
		AnalystScore: score.AnalystScore,
	}, nil
}

// HealthCheck checks sentiment service health
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases client resources
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
