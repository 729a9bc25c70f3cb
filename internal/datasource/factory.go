package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Nikhil170404/Tradee/internal/config"
)

// Factory creates Provider implementations based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new data source factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewProvider creates a Provider from one source configuration
func (f *Factory) NewProvider(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (Provider, error) {
	switch cfg.Name {
	case "nse":
		if httpClient == nil {
			return nil, fmt.Errorf("HTTP client is required for nse source")
		}
		return NewNSEClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Enabled, f.logger), nil

	case "csv":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("csv source requires a data directory")
		}
		return NewCSVClient(cfg.DataDir, cfg.Enabled, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// NewProviders creates all enabled providers from configuration
func (f *Factory) NewProviders(dataCfg config.DataConfig, httpClient *RateLimitedHTTPClient) ([]Provider, error) {
	var providers []Provider

	for _, srcCfg := range dataCfg.Sources {
		if !srcCfg.Enabled {
			f.logger.WithField("source", srcCfg.Name).Info("Skipping disabled data source")
			continue
		}

		provider, err := f.NewProvider(srcCfg, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
		}

		providers = append(providers, provider)
		f.logger.WithField("source", srcCfg.Name).Info("Created data source")
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}
	return providers, nil
}
