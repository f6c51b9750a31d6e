package utils

import (
	"context"
	"time"

	"github.com/omni/bridge-orchestrator/logging"
)

// Sleep waits for d and reports whether it elapsed before ctx was done.
func Sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Retry calls fn until it succeeds, logging each failure with msg and waiting
// interval between attempts. It gives up with ctx.Err() once ctx is done.
func Retry(ctx context.Context, logger logging.Logger, interval time.Duration, msg string, fn func(ctx context.Context) error) error {
	for {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.WithError(err).Error(msg)
		if !Sleep(ctx, interval) {
			return ctx.Err()
		}
	}
}
