// Package fetch retrieves product pages through rotating proxies.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pricefeed/internal/proxy"
	"github.com/law-makers/pricefeed/internal/ratelimit"
	"github.com/law-makers/pricefeed/internal/reqctx"
	"github.com/law-makers/pricefeed/internal/retry"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 10 * 1024 * 1024

// ClientFactory builds the HTTP client used for one proxy endpoint
type ClientFactory func(endpoint string, timeout time.Duration) (*http.Client, error)

// Outcome is the result of fetching one target. Doc is set only when State
// is retry.Succeeded.
type Outcome struct {
	Doc      *goquery.Document
	State    retry.State
	Attempts int
	Endpoint string
	Errors   []*FetchError
}

// OK reports whether a page was retrieved
func (o Outcome) OK() bool {
	return o.State == retry.Succeeded
}

// Err summarises why the fetch did not succeed
func (o Outcome) Err() error {
	var terminal error
	switch o.State {
	case retry.Succeeded:
		return nil
	case retry.ExhaustedProxies:
		terminal = ErrPoolExhausted
	case retry.ExhaustedAttempts:
		terminal = ErrAttemptsExhausted
	case retry.Cancelled:
		terminal = ErrCancelled
	default:
		terminal = fmt.Errorf("fetch ended in state %s", o.State)
	}

	errs := []error{terminal}
	for _, e := range o.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// Controller fetches a URL through the proxy pool, retrying with a fresh
// endpoint and a jittered backoff after each failure.
type Controller struct {
	pool      *proxy.Pool
	cfg       retry.Config
	limiter   ratelimit.RateLimiter
	newClient ClientFactory
	userAgent string
	headers   map[string]string

	mu      sync.Mutex
	clients map[string]*http.Client
}

// Option configures a Controller
type Option func(*Controller)

// WithLimiter throttles requests per proxy endpoint
func WithLimiter(l ratelimit.RateLimiter) Option {
	return func(c *Controller) { c.limiter = l }
}

// WithClientFactory replaces the proxied client construction
func WithClientFactory(f ClientFactory) Option {
	return func(c *Controller) { c.newClient = f }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Controller) { c.userAgent = ua }
}

// WithHeaders adds extra request headers
func WithHeaders(h map[string]string) Option {
	return func(c *Controller) { c.headers = h }
}

// New creates a Controller
func New(pool *proxy.Pool, cfg retry.Config, opts ...Option) *Controller {
	c := &Controller{
		pool:      pool,
		cfg:       cfg,
		limiter:   ratelimit.Noop{},
		newClient: proxy.NewClient,
		clients:   make(map[string]*http.Client),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves targetURL. Each endpoint is tried at most once, and at most
// MaxAttempts attempts are made. The loop ends on success, when attempts or
// endpoints run out, or when ctx is cancelled.
func (c *Controller) Fetch(ctx context.Context, targetURL string) Outcome {
	rc := reqctx.GetRequestContext(ctx)
	logger := log.With().
		Str("run_id", reqctx.RunID(ctx)).
		Str("request_id", rc.RequestID).
		Str("sku", rc.SKU).
		Str("url", targetURL).
		Logger()

	out := Outcome{State: retry.Attempting}
	excluded := proxy.Excluded{}

	for !out.State.Terminal() {
		switch out.State {
		case retry.Attempting:
			if ctx.Err() != nil {
				out.State = retry.Cancelled
				continue
			}
			if out.Attempts >= c.cfg.MaxAttempts {
				out.State = retry.ExhaustedAttempts
				continue
			}
			endpoint, ok := c.pool.Pick(excluded)
			if !ok {
				out.State = retry.ExhaustedProxies
				continue
			}
			excluded.Add(endpoint)
			out.Attempts++

			doc, err := c.attempt(ctx, endpoint, targetURL)
			if err == nil {
				out.Doc = doc
				out.Endpoint = proxy.Mask(endpoint)
				out.State = retry.Succeeded
				continue
			}
			if ctx.Err() != nil {
				out.State = retry.Cancelled
				continue
			}

			fe := &FetchError{
				Class:      Classify(err),
				Endpoint:   proxy.Mask(endpoint),
				Attempt:    out.Attempts,
				Underlying: err,
			}
			out.Errors = append(out.Errors, fe)
			logger.Warn().
				Str("proxy", fe.Endpoint).
				Int("attempt", fe.Attempt).
				Str("class", string(fe.Class)).
				Err(err).
				Msg("Fetch attempt failed")
			out.State = retry.Backoff

		case retry.Backoff:
			// No wait when nothing is left to try
			if out.Attempts >= c.cfg.MaxAttempts || len(excluded) >= c.pool.Len() {
				out.State = retry.Attempting
				continue
			}
			backoff := c.cfg.Jitter()
			logger.Debug().Dur("backoff", backoff).Msg("Retrying after backoff")
			if err := retry.Wait(ctx, backoff); err != nil {
				out.State = retry.Cancelled
				continue
			}
			out.State = retry.Attempting
		}
	}

	switch out.State {
	case retry.Succeeded:
		logger.Debug().
			Int("attempts", out.Attempts).
			Str("proxy", out.Endpoint).
			Msg("Fetch succeeded")
	case retry.Cancelled:
		logger.Info().Int("attempts", out.Attempts).Msg("Fetch cancelled")
	default:
		logger.Error().
			Int("attempts", out.Attempts).
			Str("state", out.State.String()).
			Msg("Fetch gave up")
	}

	return out
}

// attempt performs one GET through endpoint and parses the body
func (c *Controller) attempt(ctx context.Context, endpoint, targetURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx, proxy.Host(endpoint)); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	client, err := c.client(endpoint)
	if err != nil {
		return nil, err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := retry.CheckStatus(resp); err != nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// client returns the cached client for endpoint, building it on first use
func (c *Controller) client(endpoint string) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[endpoint]; ok {
		return client, nil
	}
	client, err := c.newClient(endpoint, c.cfg.Timeout)
	if err != nil {
		return nil, err
	}
	c.clients[endpoint] = client
	return client, nil
}

// Close releases idle connections held by the per-endpoint clients
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, client := range c.clients {
		client.CloseIdleConnections()
	}
}
