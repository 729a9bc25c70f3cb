// Package main provides the entry point for the stock screener service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Nikhil170404/Tradee/internal/config"
	"github.com/Nikhil170404/Tradee/internal/database"
	"github.com/Nikhil170404/Tradee/internal/datasource"
	"github.com/Nikhil170404/Tradee/internal/health"
	applogger "github.com/Nikhil170404/Tradee/internal/logger"
	"github.com/Nikhil170404/Tradee/internal/metrics"
	"github.com/Nikhil170404/Tradee/internal/repository"
	"github.com/Nikhil170404/Tradee/internal/scheduler"
	"github.com/Nikhil170404/Tradee/internal/screener"
	"github.com/Nikhil170404/Tradee/internal/sentiment"
	appsignal "github.com/Nikhil170404/Tradee/internal/signal"
	"github.com/Nikhil170404/Tradee/internal/tracing"
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
	cfg        *config.Config
	db         *database.DB
	scr        *screener.Screener
	sentClient sentiment.Client
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Scan a stock universe for tradeable signals",
	Long:  `Evaluates every symbol in the configured universe, ranks the composite signals into categories and persists the actionable ones.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := setup(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer teardown()
		var report *screener.ScanReport
		err := tracing.Capture(cmd.Context(), "screener.scan", func(ctx context.Context) error {
			var scanErr error
			report, scanErr = scr.Scan(ctx)
			return scanErr
		})
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scans on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer teardown()
		return serve(cmd.Context())
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete persisted signals older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer teardown()
		deleted, err := scr.Prune(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d expired signals\n", deleted)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("screener %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	rootCmd.AddCommand(scanCmd, serveCmd, pruneCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configFile)
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
	metrics.InitRegistry()
	if err := tracing.Initialize(tracing.FromEnv("tradee-screener"), logger); err != nil {
		logger.WithError(err).Warn("Tracing unavailable, continuing without it")
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), logger)
	providers, err := datasource.NewFactory(logger).NewProviders(cfg.Data, httpClient)
	if err != nil {
		return err
	}

	if cfg.Sentiment.Enabled {
		sentClient = sentiment.NewCachedClient(&cfg.Sentiment, logger)
	}

	var signals repository.ScreenerSignalRepository
	var missing []string
	db, missing, err = database.Initialize(ctx, cfg)
	if err != nil {
		logger.WithError(err).Warn("Database unavailable, signals will not be persisted")
		db = nil
	} else {
		if len(missing) > 0 {
			logger.WithField("tables", missing).Warn("Database schema incomplete, run the schema script before persisting signals")
		}
		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}
		signals = repos.ScreenerSignal
	}

	scr, err = screener.New(cfg.Screener, providers[0], appsignal.NewScorer(logger), sentClient, signals, logger)
	return err
}

func teardown() {
	if sentClient != nil {
		sentClient.Close()
	}
	if db != nil {
		db.Close()
	}
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthCfg := health.Config{
		ServiceName: "tradee-screener",
		Version:     Version,
		Commit:      GitCommit,
		Port:        healthPort(),
		Logger:      logger,
		Sentiment:   sentClient,
	}
	if db != nil {
		healthCfg.DB = db
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx)
	}

	if cfg.Screener.Stream.Enabled {
		stream := datasource.NewQuoteStream(cfg.Screener.Stream.URL, cfg.Screener.Stream.APIKey, logger)
		if err := scr.AttachStream(ctx, stream); err != nil {
			logger.WithError(err).Warn("Quote stream unavailable, using daily closes only")
		} else {
			defer stream.Close()
		}
	}

	sched := scheduler.NewScheduler(scr, logger)
	if err := sched.ScheduleScan(cfg.Screener.Schedule); err != nil {
		return err
	}
	if err := sched.ScheduleRetentionPrune("@daily"); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)

	logger.WithFields(logrus.Fields{
		"schedule": cfg.Screener.Schedule,
		"next_run": sched.GetNextRun().Format(time.RFC3339),
		"universe": len(cfg.Screener.Universe),
	}).Info("Screener service started")

	<-ctx.Done()
	healthServer.SetReady(false)
	return sched.Stop()
}

func startMetricsServer(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		logger.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
}

func healthPort() string {
	if cfg.Health.Port > 0 {
		return fmt.Sprintf("%d", cfg.Health.Port)
	}
	return ""
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
