package context

import (
	"context"
	"testing"
	"time"
)

// WithTest derives a context for t.
//
// It ends 1 second before the deadline of t, to leave time for cleanups.
// It is canceled when t finishes.
func WithTest(ctx context.Context, t *testing.T) context.Context {
	t.Helper()

	var cancel func()
	if deadline, ok := t.Deadline(); ok {
		ctx, cancel = context.WithDeadline(ctx, deadline.Add(-time.Second))
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	t.Cleanup(cancel)
	return ctx
}
