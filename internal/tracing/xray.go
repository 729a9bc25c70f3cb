// Package tracing provides AWS X-Ray distributed tracing integration.
package tracing

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
)

// Config contains X-Ray configuration.
type Config struct {
	ServiceName  string
	Enabled      bool
	SamplingRate float64
	DaemonAddr   string
}

// FromEnv builds the tracing configuration from AWS_XRAY_* environment
// variables. Tracing stays off unless AWS_XRAY_ENABLED=true.
func FromEnv(serviceName string) Config {
	cfg := Config{
		ServiceName:  serviceName,
		Enabled:      os.Getenv("AWS_XRAY_ENABLED") == "true",
		SamplingRate: 0.05,
		DaemonAddr:   os.Getenv("AWS_XRAY_DAEMON_ADDR"),
	}
	if rate, err := strconv.ParseFloat(os.Getenv("AWS_XRAY_SAMPLING_RATE"), 64); err == nil && rate > 0 && rate <= 1 {
		cfg.SamplingRate = rate
	}
	return cfg
}

var enabled bool

// Logger adapter for X-Ray SDK.
type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.logger.Debug(msg)
	case xraylog.LogLevelInfo:
		l.logger.Info(msg)
	case xraylog.LogLevelWarn:
		l.logger.Warn(msg)
	case xraylog.LogLevelError:
		l.logger.Error(msg)
	}
}

// Initialize initializes AWS X-Ray with the given configuration. When
// tracing is disabled every helper in this package is a no-op.
func Initialize(cfg Config, logger *logrus.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})

	if err := xray.Configure(xray.Config{
		DaemonAddr: cfg.DaemonAddr,
	}); err != nil {
		return err
	}
	enabled = true

	logger.WithFields(logrus.Fields{
		"daemon_addr":   cfg.DaemonAddr,
		"sampling_rate": cfg.SamplingRate,
		"service_name":  cfg.ServiceName,
	}).Info("AWS X-Ray initialized")

	return nil
}

// Capture runs fn inside a segment named after the pipeline stage, for
// example "screener.scan" or "backtest.run". When tracing is disabled fn
// runs untraced.
func Capture(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if !enabled {
		return fn(ctx)
	}
	ctx, seg := xray.BeginSegment(ctx, name)
	err := fn(ctx)
	seg.Close(err)
	return err
}

// AddAnnotation adds an indexed annotation, such as the symbol or scan
// identifier, to the current segment.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if !enabled {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}

// AddMetadata adds metadata to the current segment.
func AddMetadata(ctx context.Context, key string, value interface{}) {
	if !enabled {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddMetadata(key, value)
	}
}
