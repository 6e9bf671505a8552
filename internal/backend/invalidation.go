package backend

import (
	"context"
	"net/http"
	"time"

	"carrental/internal/session"
)

// Invalidation is emitted when the backend denies an authenticated call
type Invalidation struct {
	SessionID string
	Method    string
	Path      string
	At        time.Time
}

// InvalidationSink observes session invalidations. The gateway only reports
// them; clearing the session and navigating is the observer's job.
type InvalidationSink interface {
	SessionInvalidated(ctx context.Context, inv Invalidation)
}

// InvalidationFunc adapts a function to InvalidationSink
type InvalidationFunc func(ctx context.Context, inv Invalidation)

func (f InvalidationFunc) SessionInvalidated(ctx context.Context, inv Invalidation) {
	f(ctx, inv)
}

type sinkKey struct{}

// WithSink returns a copy of ctx whose calls report invalidations to sink,
// taking precedence over the client's default sink.
func WithSink(ctx context.Context, sink InvalidationSink) context.Context {
	return context.WithValue(ctx, sinkKey{}, sink)
}

func sinkFromContext(ctx context.Context) InvalidationSink {
	sink, _ := ctx.Value(sinkKey{}).(InvalidationSink)
	return sink
}

func (c *Client) invalidate(req *http.Request) {
	ctx := req.Context()

	sink := sinkFromContext(ctx)
	if sink == nil {
		sink = c.sink
	}

	invalidationsTotal.Inc()
	if sink == nil {
		return
	}

	sink.SessionInvalidated(ctx, Invalidation{
		SessionID: session.IDFromContext(ctx),
		Method:    req.Method,
		Path:      req.URL.Path,
		At:        time.Now(),
	})
}
