package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestJitterWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	for i := 0; i < 1000; i++ {
		d := cfg.Jitter()
		if d < cfg.MinBackoff || d > cfg.MaxBackoff {
			t.Fatalf("Jitter %v outside [%v, %v]", d, cfg.MinBackoff, cfg.MaxBackoff)
		}
	}

	fixed := Config{MinBackoff: time.Second, MaxBackoff: time.Second}
	if d := fixed.Jitter(); d != time.Second {
		t.Errorf("Expected fixed jitter of 1s, got %v", d)
	}
}

func TestMaxWallTime(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.MaxWallTime(); got != 5*(15*time.Second+3500*time.Millisecond) {
		t.Errorf("Unexpected wall time bound: %v", got)
	}
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Wait(ctx, 10*time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait did not return promptly after cancellation")
	}
}

func TestWaitElapses(t *testing.T) {
	if err := Wait(context.Background(), 5*time.Millisecond); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{Attempting, Backoff} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []State{Succeeded, ExhaustedAttempts, ExhaustedProxies, Cancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestCheckStatus(t *testing.T) {
	if err := CheckStatus(&http.Response{StatusCode: 204}); err != nil {
		t.Errorf("Expected 204 to pass, got %v", err)
	}

	err := CheckStatus(&http.Response{StatusCode: 503})
	var sc StatusCoder
	if !errors.As(err, &sc) || sc.GetStatusCode() != 503 {
		t.Errorf("Expected StatusCoder with 503, got %v", err)
	}
}
