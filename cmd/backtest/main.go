// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/backtest"
	"github.com/Nikhil170404/Tradee/internal/config"
	"github.com/Nikhil170404/Tradee/internal/database"
	"github.com/Nikhil170404/Tradee/internal/datasource"
	"github.com/Nikhil170404/Tradee/internal/repository"
	"github.com/Nikhil170404/Tradee/internal/sentiment"
	"github.com/Nikhil170404/Tradee/internal/signal"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		symbols    = flag.String("symbols", "", "Comma-separated ticker symbols to backtest (required)")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		output     = flag.String("output", "", "Output directory for JSON reports (overrides config)")
		noDB       = flag.Bool("no-db", false, "Skip database persistence")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	if *symbols == "" {
		logger.Fatal("At least one symbol is required (-symbols RELIANCE,TCS)")
	}

	cfg := loadConfigWithSecrets(*configPath, logger)
	simConfig := buildSimulationConfig(cfg, *startDate, *endDate, logger)
	outputPath := cfg.Backtest.OutputPath
	if *output != "" {
		outputPath = *output
	}

	provider := buildProvider(cfg, logger)
	sentimentClient := buildSentiment(cfg, logger)

	var results repository.BacktestResultRepository
	if !*noDB {
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			logger.WithError(err).Warn("Database unavailable, results will not be persisted")
		} else {
			defer db.Close()
			repos, err := repository.NewRepositories(db)
			if err != nil {
				logger.Fatalf("Failed to build repositories: %v", err)
			}
			results = repos.BacktestResult
		}
	}

	engine, err := backtest.NewEngine(simConfig, provider, signal.NewScorer(logger), sentimentClient, results, logger)
	if err != nil {
		logger.Fatalf("Failed to create engine: %v", err)
	}

	failed := 0
	for _, symbol := range splitSymbols(*symbols) {
		if err := runSymbol(ctx, engine, symbol, outputPath, logger); err != nil {
			logger.WithError(err).WithField("symbol", symbol).Error("Backtest failed")
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func runSymbol(ctx context.Context, engine *backtest.Engine, symbol, outputPath string, logger *logrus.Logger) error {
	logger.WithField("symbol", symbol).Info("Starting backtest")

	report, err := engine.RunBacktest(ctx, symbol)
	if err != nil {
		return err
	}

	fmt.Println(backtest.GenerateConsoleReport(report))

	if outputPath != "" {
		path := filepath.Join(outputPath, fmt.Sprintf("%s_backtest.json", strings.ToLower(symbol)))
		if err := backtest.WriteJSONReport(report, path); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.WithField("path", path).Info("Report written")
	}
	return nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatal("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func buildSimulationConfig(cfg *config.Config, startOverride, endOverride string, logger *logrus.Logger) backtest.SimulationConfig {
	simConfig, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		logger.Fatalf("Invalid backtest config: %v", err)
	}
	if startOverride != "" {
		parsed, err := time.Parse("2006-01-02", startOverride)
		if err != nil {
			logger.Fatalf("Invalid start date: %v", err)
		}
		simConfig.StartDate = parsed
	}
	if endOverride != "" {
		parsed, err := time.Parse("2006-01-02", endOverride)
		if err != nil {
			logger.Fatalf("Invalid end date: %v", err)
		}
		simConfig.EndDate = parsed
	}
	return simConfig
}

func buildProvider(cfg *config.Config, logger *logrus.Logger) datasource.Provider {
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), logger)
	providers, err := datasource.NewFactory(logger).NewProviders(cfg.Data, httpClient)
	if err != nil {
		logger.Fatalf("Failed to create data sources: %v", err)
	}
	// First enabled source wins; later sources are standby.
	return providers[0]
}

func buildSentiment(cfg *config.Config, logger *logrus.Logger) sentiment.Client {
	if !cfg.Sentiment.Enabled {
		return nil
	}
	return sentiment.NewCachedClient(&cfg.Sentiment, logger)
}

func splitSymbols(raw string) []string {
	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		if symbol := strings.TrimSpace(strings.ToUpper(part)); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}
