package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/shop/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestDo(t *testing.T) {
	cfg := retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(time.Millisecond),
	}

	t.Run("SucceedsAfterFailures", func(t *testing.T) {
		var calls int
		err := retry.Do(context.Background(), cfg, func() error {
			calls++
			if calls < 3 {
				return errFlaky
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("ReturnsLastError", func(t *testing.T) {
		var calls int
		err := retry.Do(context.Background(), cfg, func() error {
			calls++
			return errFlaky
		})
		assert.ErrorIs(t, err, errFlaky)
		assert.Equal(t, 3, calls)
	})

	t.Run("StopsOnPermanentError", func(t *testing.T) {
		permanent := errors.New("permanent")
		c := cfg
		c.ShouldRetry = func(err error) bool { return !errors.Is(err, permanent) }

		var calls int
		err := retry.Do(context.Background(), c, func() error {
			calls++
			return permanent
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls int
		err := retry.Do(ctx, cfg, func() error {
			calls++
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("CanceledWhileWaiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		c := cfg
		c.Backoff = retry.LinearBackoff(time.Hour)

		err := retry.Do(ctx, c, func() error {
			cancel()
			return errFlaky
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errFlaky)
	})
}

func TestDoWithResult(t *testing.T) {
	var calls int
	v, err := retry.DoWithResult(
		context.Background(),
		retry.RetryConfig{MaxAttempts: 2, Backoff: retry.LinearBackoff(0)},
		func() (int, error) {
			calls++
			if calls == 1 {
				return 0, errFlaky
			}
			return 42, nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestExponentialBackoff(t *testing.T) {
	b := retry.ExponentialBackoff(10 * time.Millisecond)
	for attempt := 1; attempt <= 4; attempt++ {
		base := time.Duration(1<<attempt) * 10 * time.Millisecond
		d := b(attempt)
		assert.Greater(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}
