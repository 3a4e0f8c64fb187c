package throttle_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/revlyx/revector/pkg/throttle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTaskFailed = errors.New("task failed")

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{name: "valid limit", limit: 1, wantErr: false},
		{name: "larger limit", limit: 16, wantErr: false},
		{name: "zero limit", limit: 0, wantErr: true},
		{name: "negative limit", limit: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := throttle.New(tt.limit)
			if tt.wantErr {
				require.ErrorIs(t, err, throttle.ErrInvalidLimit)
				assert.Nil(t, r)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.limit, r.Limit())
		})
	}
}

func TestBoundedConcurrency(t *testing.T) {
	t.Parallel()

	const (
		limit = 3
		total = 50
	)

	r, err := throttle.New(limit)
	require.NoError(t, err)

	var (
		inFlight atomic.Int64
		peak     atomic.Int64
	)

	tasks := make([]*throttle.Task[struct{}], 0, total)

	for range total {
		tasks = append(tasks, throttle.Go(r, func() (struct{}, error) {
			current := inFlight.Add(1)

			// Record the highest concurrency observed
			for {
				old := peak.Load()
				if current <= old || peak.CompareAndSwap(old, current) {
					break
				}
			}

			time.Sleep(time.Millisecond)
			inFlight.Add(-1)

			return struct{}{}, nil
		}))
	}

	for _, task := range tasks {
		_, err := task.Wait(t.Context())
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, peak.Load(), int64(limit))
	assert.Equal(t, 0, r.InFlight())
	assert.Equal(t, 0, r.Queued())
}

func TestFIFOAdmission(t *testing.T) {
	t.Parallel()

	r, err := throttle.New(1)
	require.NoError(t, err)

	const total = 20

	var (
		mu    sync.Mutex
		order []int
	)

	tasks := make([]*throttle.Task[int], 0, total)

	for i := range total {
		tasks = append(tasks, throttle.Go(r, func() (int, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()

			return i, nil
		}))
	}

	for i, task := range tasks {
		result, err := task.Wait(t.Context())
		require.NoError(t, err)
		assert.Equal(t, i, result)
	}

	// With a single slot, tasks must have started in submission order
	expected := make([]int, total)
	for i := range expected {
		expected[i] = i
	}

	assert.Equal(t, expected, order)
}

func TestFailureIsolation(t *testing.T) {
	t.Parallel()

	r, err := throttle.New(1)
	require.NoError(t, err)

	failing := throttle.Go(r, func() (string, error) {
		return "", errTaskFailed
	})
	panicking := throttle.Go(r, func() (string, error) {
		panic("boom")
	})
	healthy := throttle.Go(r, func() (string, error) {
		return "ok", nil
	})

	_, err = failing.Wait(t.Context())
	require.ErrorIs(t, err, errTaskFailed)

	_, err = panicking.Wait(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task panicked")

	// A failed predecessor must not block subsequently queued tasks
	result, err := healthy.Wait(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestWaitRespectsContext(t *testing.T) {
	t.Parallel()

	r, err := throttle.New(1)
	require.NoError(t, err)

	release := make(chan struct{})
	blocked := throttle.Go(r, func() (struct{}, error) {
		<-release
		return struct{}{}, nil
	})

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, err = blocked.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The task itself still runs to completion once released
	close(release)

	_, err = blocked.Wait(t.Context())
	require.NoError(t, err)
}
