// internal/retry/retry.go
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

// Config defines the per-target retry budget
type Config struct {
	MaxAttempts int           // Maximum fetch attempts per target
	Timeout     time.Duration // Timeout of a single HTTP attempt
	MinBackoff  time.Duration // Lower bound of the jittered wait between attempts
	MaxBackoff  time.Duration // Upper bound of the jittered wait between attempts
}

// DefaultConfig returns the storefront retry policy
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		Timeout:     15 * time.Second,
		MinBackoff:  1500 * time.Millisecond,
		MaxBackoff:  3500 * time.Millisecond,
	}
}

// State is a step of the per-target retry state machine
type State int

const (
	Attempting State = iota
	Backoff
	Succeeded
	ExhaustedAttempts
	ExhaustedProxies
	Cancelled
)

func (s State) String() string {
	switch s {
	case Attempting:
		return "attempting"
	case Backoff:
		return "backoff"
	case Succeeded:
		return "succeeded"
	case ExhaustedAttempts:
		return "exhausted_attempts"
	case ExhaustedProxies:
		return "exhausted_proxies"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows s
func (s State) Terminal() bool {
	return s >= Succeeded
}

// Jitter returns a uniformly random wait in [MinBackoff, MaxBackoff]
func (c Config) Jitter() time.Duration {
	if c.MaxBackoff <= c.MinBackoff {
		return c.MinBackoff
	}
	span := int64(c.MaxBackoff - c.MinBackoff)
	return c.MinBackoff + time.Duration(rand.Int64N(span+1))
}

// MaxWallTime bounds the total time one target may spend in the retry loop
func (c Config) MaxWallTime() time.Duration {
	return time.Duration(c.MaxAttempts) * (c.Timeout + c.MaxBackoff)
}

// Wait blocks for d or until ctx is cancelled, whichever comes first
func Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HTTPError represents a non-2xx response
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

// StatusCoder is an interface for errors that provide an HTTP status code
type StatusCoder interface {
	GetStatusCode() int
}

func (e HTTPError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Status, e.URL)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

func (e HTTPError) GetStatusCode() int {
	return e.StatusCode
}

// CheckStatus returns an HTTPError unless resp carries a 2xx status
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var u string
	if resp.Request != nil && resp.Request.URL != nil {
		u = resp.Request.URL.String()
	}
	return HTTPError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		URL:        u,
	}
}
