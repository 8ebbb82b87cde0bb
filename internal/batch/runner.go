// Package batch runs the fetch and extraction pipeline over a target list.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pricefeed/internal/extract"
	"github.com/law-makers/pricefeed/internal/fetch"
	"github.com/law-makers/pricefeed/internal/price"
	"github.com/law-makers/pricefeed/internal/reqctx"
	"github.com/law-makers/pricefeed/internal/retry"
	urlutil "github.com/law-makers/pricefeed/internal/utils/url"
	"github.com/law-makers/pricefeed/pkg/models"
	"github.com/rs/zerolog/log"
)

// Fetcher retrieves a product page
type Fetcher interface {
	Fetch(ctx context.Context, url string) fetch.Outcome
}

// Extractor reads stock and price from a retrieved page
type Extractor interface {
	Extract(doc *goquery.Document, url string) extract.Fields
}

// Observer is called once per finished target. Calls may come from several
// goroutines but never concurrently.
type Observer func(index int, result models.ExtractionResult)

// Runner processes targets with a bounded pool of workers
type Runner struct {
	fetcher     Fetcher
	extractor   Extractor
	concurrency int
	observer    Observer
	mu          sync.Mutex
}

// Option configures a Runner
type Option func(*Runner)

// WithObserver registers a per-target completion callback
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// New creates a Runner. A concurrency of 1 processes targets sequentially;
// values <= 0 fall back to 1.
func New(fetcher Fetcher, extractor Extractor, concurrency int, opts ...Option) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	r := &Runner{
		fetcher:     fetcher,
		extractor:   extractor,
		concurrency: concurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run returns exactly one result per target, in input order. Failures are
// folded into the result; once ctx is cancelled every unfinished target with
// a valid link is reported as cancelled.
func (r *Runner) Run(ctx context.Context, targets []models.Target) []models.ExtractionResult {
	ctx, runID := reqctx.WithRun(ctx)
	logger := log.With().Str("run_id", runID).Logger()

	start := time.Now()
	logger.Info().
		Int("targets", len(targets)).
		Int("concurrency", r.concurrency).
		Msg("Batch started")

	results := make([]models.ExtractionResult, len(targets))
	jobs := make(chan int)

	workers := r.concurrency
	if workers > len(targets) {
		workers = len(targets)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.process(ctx, targets[i])
				r.notify(i, results[i])
			}
		}()
	}

	for i := range targets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	logger.Info().
		Int("targets", len(targets)).
		Dur("elapsed", time.Since(start)).
		Msg("Batch finished")

	return results
}

// Process handles a single target outside a batch
func (r *Runner) Process(ctx context.Context, target models.Target) models.ExtractionResult {
	return r.process(ctx, target)
}

func (r *Runner) process(ctx context.Context, target models.Target) models.ExtractionResult {
	result := models.ExtractionResult{SKU: target.SKU, URL: target.URL}

	link, err := urlutil.ValidateURL(target.URL)
	if err != nil {
		log.Warn().Str("sku", target.SKU).Str("url", target.URL).Err(err).Msg("Skipping target with invalid link")
		result.StockStatus = models.StockInvalid
		result.FetchStatus = models.FetchInvalid
		return result
	}

	if ctx.Err() != nil {
		return cancelled(result, 0)
	}

	ctx = reqctx.WithTarget(ctx, target.SKU)
	out := r.fetcher.Fetch(ctx, link)
	result.Attempts = out.Attempts

	switch out.State {
	case retry.Succeeded:
		fields := r.extractor.Extract(out.Doc, link)
		p := fields.Price
		result.StockStatus = fields.Stock
		result.Price = &p
		result.RemovalFlag = fields.Removal
		result.FetchStatus = models.FetchOK
		return result
	case retry.Cancelled:
		return cancelled(result, out.Attempts)
	}

	// Exhausted: best-effort default
	p := price.Zero
	result.StockStatus = models.StockOut
	result.Price = &p
	result.FetchStatus = models.FetchExhaustedProxies
	if out.State == retry.ExhaustedAttempts {
		result.FetchStatus = models.FetchExhaustedAttempts
	}

	log.Error().
		Str("sku", target.SKU).
		Str("url", link).
		Str("status", string(result.FetchStatus)).
		Err(out.Err()).
		Msg("Target needs review")

	return result
}

func (r *Runner) notify(i int, result models.ExtractionResult) {
	if r.observer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer(i, result)
}

func cancelled(result models.ExtractionResult, attempts int) models.ExtractionResult {
	result.StockStatus = models.StockOut
	result.Price = nil
	result.RemovalFlag = false
	result.FetchStatus = models.FetchCancelled
	result.Attempts = attempts
	return result
}
