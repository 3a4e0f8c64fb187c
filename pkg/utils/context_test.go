package utils_test

import (
	"context"
	"testing"
	"time"

	"github.com/revlyx/revector/pkg/utils"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestContextSleep(t *testing.T) {
	t.Parallel()

	t.Run("completes normally", func(t *testing.T) {
		t.Parallel()

		result := utils.ContextSleep(t.Context(), 10*time.Millisecond)
		assert.Equal(t, utils.SleepCompleted, result)
	})

	t.Run("returns early on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		start := time.Now()
		result := utils.ContextSleep(ctx, 5*time.Second)

		assert.Equal(t, utils.SleepCancelled, result)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestContextSleepUntil(t *testing.T) {
	t.Parallel()

	t.Run("past target completes immediately", func(t *testing.T) {
		t.Parallel()

		result := utils.ContextSleepUntil(t.Context(), time.Now().Add(-time.Minute))
		assert.Equal(t, utils.SleepCompleted, result)
	})

	t.Run("cancellation wins over future target", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		result := utils.ContextSleepUntil(ctx, time.Now().Add(time.Hour))
		assert.Equal(t, utils.SleepCancelled, result)
	})
}

func TestContextGuard(t *testing.T) {
	t.Parallel()

	t.Run("active context", func(t *testing.T) {
		t.Parallel()

		assert.False(t, utils.ContextGuard(t.Context()))
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		assert.True(t, utils.ContextGuard(ctx))
	})
}

func TestWorkerSleepHelpers(t *testing.T) {
	t.Parallel()

	logger := zap.NewNop()

	t.Run("continue after completed sleep", func(t *testing.T) {
		t.Parallel()

		assert.True(t, utils.ErrorSleep(t.Context(), time.Millisecond, logger, "test worker"))
		assert.True(t, utils.ThresholdSleep(t.Context(), time.Millisecond, logger, "test worker"))
		assert.True(t, utils.IntervalSleep(t.Context(), time.Millisecond, logger, "test worker"))
	})

	t.Run("stop after cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		assert.False(t, utils.ErrorSleep(ctx, time.Hour, logger, "test worker"))
		assert.False(t, utils.ThresholdSleep(ctx, time.Hour, logger, "test worker"))
		assert.False(t, utils.IntervalSleep(ctx, time.Hour, logger, "test worker"))
	})
}
