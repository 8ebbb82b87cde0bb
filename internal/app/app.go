// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/law-makers/pricefeed/internal/batch"
	"github.com/law-makers/pricefeed/internal/config"
	"github.com/law-makers/pricefeed/internal/extract"
	"github.com/law-makers/pricefeed/internal/fetch"
	"github.com/law-makers/pricefeed/internal/proxy"
	"github.com/law-makers/pricefeed/internal/ratelimit"
	"github.com/law-makers/pricefeed/internal/utils/headers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command invocation. Use Close() to release the
// proxied HTTP clients on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Pool        *proxy.Pool
	RateLimiter ratelimit.RateLimiter
	Fetcher     *fetch.Controller
	Extractor   *extract.Extractor
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Builds the proxy pool from the configured endpoints
//   - Creates the per-proxy rate limiter
//   - Creates the fetch controller and the page extractor
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogger(cfg.LogLevel, cfg.JSONLog, os.Stderr)

	pool := proxy.NewPool(cfg.Proxies)
	if pool.Len() == 0 {
		return nil, fmt.Errorf("no proxy endpoints configured")
	}
	logger.Debug().
		Int("endpoints", pool.Len()).
		Msg("Proxy pool initialized")

	limiter := ratelimit.NewKeyedLimiter(cfg.PerProxyRPS, cfg.PerProxyBurst)
	logger.Debug().
		Float64("rps", cfg.PerProxyRPS).
		Int("burst", cfg.PerProxyBurst).
		Msg("Rate limiter initialized")

	fetcher := fetch.New(pool, cfg.Retry(),
		fetch.WithLimiter(limiter),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithHeaders(headers.ParseHeaders(cfg.Headers)),
	)
	logger.Debug().
		Int("max_attempts", cfg.MaxAttempts).
		Dur("timeout", cfg.Timeout).
		Dur("max_wall_time", cfg.Retry().MaxWallTime()).
		Msg("Fetch controller initialized")

	extractor := extract.New()

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		Pool:        pool,
		RateLimiter: limiter,
		Fetcher:     fetcher,
		Extractor:   extractor,
		startTime:   time.Now(),
	}

	logger.Info().Msg("Application initialized successfully")
	return app, nil
}

// SetupLogger configures the global zerolog logger and returns it
func SetupLogger(level string, jsonLog bool, out io.Writer) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if jsonLog {
		logWriter = out
	} else {
		logWriter = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
	return log.Logger
}

// Runner returns a batch runner over the application's fetcher and extractor.
// A configured concurrency of 0 sizes the worker pool from the proxy count.
func (a *Application) Runner(opts ...batch.Option) *batch.Runner {
	concurrency := a.Config.Concurrency
	if concurrency == 0 {
		concurrency = batch.OptimalConcurrency(a.Pool.Len())
	}
	return batch.New(a.Fetcher, a.Extractor, concurrency, opts...)
}

// Close releases idle proxy connections.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Info().Msg("Shutting down application")

	if a.Fetcher != nil {
		a.Fetcher.Close()
	}

	a.Logger.Info().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
