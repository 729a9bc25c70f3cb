// Package config provides configuration management for the Tradee application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Sentiment SentimentConfig `mapstructure:"sentiment" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Screener  ScreenerConfig  `mapstructure:"screener" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Health    HealthConfig    `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// DataConfig represents market data provider configuration
type DataConfig struct {
	Sources []DataSourceConfig `mapstructure:"sources" validate:"required,min=1,dive"`
}

// DataSourceConfig represents a single market data source
type DataSourceConfig struct {
	Name    string `mapstructure:"name" validate:"required,oneof=nse csv"`
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	DataDir string `mapstructure:"data_dir"`
}

// SentimentConfig represents the sentiment scoring service configuration
type SentimentConfig struct {
	Enabled               bool   `mapstructure:"enabled"`
	HTTPAddress           string `mapstructure:"http_address" validate:"required"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize          int    `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// BacktestConfig represents trade simulation configuration
type BacktestConfig struct {
	StartDate            string  `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string  `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	InitialCapital       float64 `mapstructure:"initial_capital" validate:"required,gt=0"`
	RiskPerTradePct      float64 `mapstructure:"risk_per_trade_pct" validate:"required,gt=0,lte=10"`
	ATRStopMultiple      float64 `mapstructure:"atr_stop_multiple" validate:"required,gt=0"`
	RiskRewardRatio      float64 `mapstructure:"risk_reward_ratio" validate:"required,gt=0"`
	TrailingStopPct      float64 `mapstructure:"trailing_stop_pct" validate:"required,gt=0,lt=100"`
	TrailingActivatePct  float64 `mapstructure:"trailing_activate_pct" validate:"required,gt=0,lt=100"`
	TransactionCostBps   float64 `mapstructure:"transaction_cost_bps" validate:"gte=0"`
	MaxHoldDays          int     `mapstructure:"max_hold_days" validate:"required,gt=0"`
	RiskFreeRate         float64 `mapstructure:"risk_free_rate" validate:"gte=0,lte=1"`
	MonteCarloIterations int     `mapstructure:"monte_carlo_iterations" validate:"required,gt=0"`
	WalkForwardWindows   int     `mapstructure:"walk_forward_windows" validate:"required,gt=0"`
	OutputPath           string  `mapstructure:"output_path"`
}

// ScreenerConfig represents the daily screener configuration
type ScreenerConfig struct {
	Universe      []string     `mapstructure:"universe" validate:"required,min=1,symbols"`
	Schedule      string       `mapstructure:"schedule" validate:"required"`
	MinScore      float64      `mapstructure:"min_score" validate:"gte=0,lte=100"`
	TopN          int          `mapstructure:"top_n" validate:"required,gt=0"`
	RetentionDays int          `mapstructure:"retention_days" validate:"required,gt=0"`
	LookbackDays  int          `mapstructure:"lookback_days" validate:"required,gt=0"`
	Stream        StreamConfig `mapstructure:"stream"`
}

// StreamConfig represents the live quote stream configuration
type StreamConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents health endpoint configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetSentimentHTTPURL returns the base URL of the sentiment service
func (c *Config) GetSentimentHTTPURL() string {
	return c.Sentiment.HTTPAddress
}

// BacktestRange returns the parsed start and end dates of the simulation window
func (c *BacktestConfig) BacktestRange() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
	}
	return start, end, nil
}
