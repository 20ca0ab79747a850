// Package loop repeats a task until it says to stop.
package loop

import (
	"context"
	"fmt"
	"time"
)

// Next tells Start what to do after a task.
type Next struct {
	err      error
	quit     bool
	interval time.Duration
}

func (n Next) String() string {
	if n.err != nil {
		return fmt.Sprintf("[break] with error: %v", n.err)
	}
	if n.quit {
		return "[break] without error"
	}

	return fmt.Sprintf("[continue] interval: %s", n.interval)
}

// Continue runs the task again after interval.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break stops the loop. err is returned from Start.
func Break(err error) Next {
	return Next{quit: true, err: err}
}

// Task takes the last value and returns the next one.
//
// The zero Next is Continue(0).
type Task[T any] func(context.Context, T) (T, Next)

// Start runs task repeatedly, beginning with init, until task returns Break
// or ctx is done.
//
// It returns the last value task returned, with the error given to Break or
// ctx.Err().
func Start[T any](ctx context.Context, init T, task Task[T], options ...Option) (T, error) {
	if err := ctx.Err(); err != nil {
		return init, err
	}

	value := init
	for {
		v, n := once(ctx, value, task, options)
		if n.err != nil {
			return v, n.err
		}
		if n.quit {
			return v, nil
		}
		value = v

		timer := time.NewTimer(n.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}

func once[T any](ctx context.Context, value T, task Task[T], options []Option) (T, Next) {
	for _, opt := range options {
		var cancel func()
		ctx, cancel = opt(ctx)
		defer cancel()
	}
	return task(ctx, value)
}

// Option derives the context passed to each run of a task.
type Option func(context.Context) (context.Context, func())

// WithTimeout limits each run of a task to d.
func WithTimeout(d time.Duration) Option {
	return func(ctx context.Context) (context.Context, func()) {
		return context.WithTimeout(ctx, d)
	}
}
