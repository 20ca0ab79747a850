package rulelearn_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
	"github.com/rulestudio/rulestudio/pkg/rulelearn/mock"
)

func TestWaitReady(t *testing.T) {
	logger := log.New("test")
	logger.SetOutput(io.Discard)

	t.Run("it waits until the engine answers", func(t *testing.T) {
		engine := mock.New()
		pings := 0
		engine.Impl.Ping = func(ctx context.Context) error {
			pings += 1
			if pings < 3 {
				return kerr.ErrEngineUnavailable
			}
			return nil
		}

		err := rulelearn.WaitReady(context.Background(), engine, time.Millisecond, time.Second, logger)
		if err != nil {
			t.Fatal(err)
		}
		if engine.Calls.Ping != 3 {
			t.Errorf("pinged %d times", engine.Calls.Ping)
		}
	})

	t.Run("it gives up with the last error", func(t *testing.T) {
		engine := mock.New()
		engine.Impl.Ping = func(ctx context.Context) error {
			return kerr.ErrEngineUnavailable
		}

		err := rulelearn.WaitReady(context.Background(), engine, 5*time.Millisecond, 30*time.Millisecond, logger)
		if !errors.Is(err, kerr.ErrEngineUnavailable) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
