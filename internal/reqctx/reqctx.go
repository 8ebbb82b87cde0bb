// Package reqctx carries batch run and per-target identifiers on a context
// so log lines from the fetch loop can be correlated.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

type key int

const (
	requestKey key = iota
	runKey
)

type RequestContext struct {
	RequestID string
	SKU       string
	StartTime time.Time
}

// WithRun tags ctx with a fresh batch run id and returns it
func WithRun(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, runKey, id), id
}

// RunID returns the batch run id, or "" outside a run
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runKey).(string); ok {
		return id
	}
	return ""
}

// WithTarget tags ctx with a new request id for one target
func WithTarget(ctx context.Context, sku string) context.Context {
	return context.WithValue(ctx, requestKey, &RequestContext{
		RequestID: generateID(),
		SKU:       sku,
		StartTime: time.Now(),
	})
}

func GetRequestContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestKey).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{
		RequestID: "unknown",
		StartTime: time.Now(),
	}
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
