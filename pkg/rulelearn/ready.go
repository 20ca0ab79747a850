package rulelearn

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/rulestudio/rulestudio/pkg/loop"
)

// WaitReady pings the engine every interval until it answers, or until wait
// passes.
//
// The error of the last ping is returned when the engine does not get ready.
func WaitReady(ctx context.Context, engine Engine, interval time.Duration, wait time.Duration, logger *log.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	lastErr, err := loop.Start(ctx, error(nil), func(ctx context.Context, _ error) (error, loop.Next) {
		if err := engine.Ping(ctx); err != nil {
			logger.Infof("rule-learning engine is not ready: %s", err)
			return err, loop.Continue(interval)
		}
		return nil, loop.Break(nil)
	}, loop.WithTimeout(interval))
	if err != nil && lastErr != nil {
		return lastErr
	}
	return err
}
