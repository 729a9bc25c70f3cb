// Package main provides the entry point for one-shot signal analysis.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Nikhil170404/Tradee/internal/backtest"
	"github.com/Nikhil170404/Tradee/internal/config"
	"github.com/Nikhil170404/Tradee/internal/datasource"
	applogger "github.com/Nikhil170404/Tradee/internal/logger"
	"github.com/Nikhil170404/Tradee/internal/sentiment"
	"github.com/Nikhil170404/Tradee/internal/signal"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	engine     *backtest.Engine
	sentClient sentiment.Client
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score symbols and print signals or recommendations",
	Long:  `Fetches price history, fundamentals and sentiment for the given symbols and prints either the raw composite signal or the backtest-validated trade recommendation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := setup(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var signalCmd = &cobra.Command{
	Use:   "signal SYMBOL [SYMBOL...]",
	Short: "Print the composite signal for each symbol",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer teardown()
		for _, symbol := range normalize(args) {
			cs, err := engine.EvaluateSignal(cmd.Context(), symbol)
			if err != nil {
				return fmt.Errorf("evaluate %s: %w", symbol, err)
			}
			if err := printJSON(cs); err != nil {
				return err
			}
		}
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend SYMBOL [SYMBOL...]",
	Short: "Backtest each symbol and print the trade recommendation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer teardown()
		for _, symbol := range normalize(args) {
			rec, err := engine.Recommend(cmd.Context(), symbol)
			if err != nil {
				return fmt.Errorf("recommend %s: %w", symbol, err)
			}
			printRecommendation(rec)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("analyze %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	rootCmd.AddCommand(signalCmd, recommendCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		if err := config.LoadSecretsFromAWS(cfg, os.Getenv("AWS_REGION"), os.Getenv("AWS_SECRET_NAME")); err != nil {
			return fmt.Errorf("load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger = applogger.NewLogger(cfg.App.LogLevel)

	simConfig, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		return err
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), logger)
	providers, err := datasource.NewFactory(logger).NewProviders(cfg.Data, httpClient)
	if err != nil {
		return err
	}

	if cfg.Sentiment.Enabled {
		sentClient = sentiment.NewCachedClient(&cfg.Sentiment, logger)
	}

	engine, err = backtest.NewEngine(simConfig, providers[0], signal.NewScorer(logger), sentClient, nil, logger)
	return err
}

func teardown() {
	if sentClient != nil {
		sentClient.Close()
	}
}

func normalize(args []string) []string {
	symbols := make([]string, 0, len(args))
	for _, arg := range args {
		if s := strings.ToUpper(strings.TrimSpace(arg)); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func printRecommendation(rec backtest.Recommendation) {
	fmt.Printf("%s: %s (size %.1f%% of capital)\n", rec.Symbol, rec.Verdict, rec.PositionSizePct)
	if rec.Entry > 0 {
		fmt.Printf("  entry %.2f  stop %.2f  target %.2f\n", rec.Entry, rec.StopLoss, rec.Target)
	}
	fmt.Printf("  %s\n", rec.Rationale)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
