package utils_test

import (
	"context"
	"errors"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/utils"
)

func TestSleep(t *testing.T) {
	t.Parallel()

	dur := 10 * time.Millisecond

	st := time.Now()
	require.True(t, utils.Sleep(context.Background(), dur))
	require.GreaterOrEqual(t, time.Since(st), dur)
}

func TestSleepCancel(t *testing.T) {
	t.Parallel()

	dur := 10 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), dur)
	defer cancel()

	st := time.Now()
	require.False(t, utils.Sleep(ctx, time.Minute))
	require.Less(t, time.Since(st), time.Second)
}

func TestRetry(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	calls := 0
	err := utils.Retry(context.Background(), logger, time.Millisecond, "attempt failed", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("unavailable")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Len(t, hook.AllEntries(), 2)
	require.Equal(t, "attempt failed", hook.LastEntry().Message)
}

func TestRetryCancel(t *testing.T) {
	t.Parallel()

	logger, _ := logtest.NewNullLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := utils.Retry(ctx, logger, 5*time.Millisecond, "attempt failed", func(ctx context.Context) error {
		return errors.New("unavailable")
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
