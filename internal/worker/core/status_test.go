package core_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/revlyx/revector/internal/worker/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) *core.Monitor {
	t.Helper()

	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return core.NewMonitor(client, zap.NewNop())
}

func TestReportStatus(t *testing.T) {
	t.Parallel()

	monitor := setupTest(t)
	ctx := t.Context()

	err := monitor.ReportStatus(ctx, core.Status{
		WorkerID:    "worker-1",
		WorkerType:  "scan",
		CurrentTask: "Fetching profiles",
		Progress:    40,
		IsHealthy:   true,
	})
	require.NoError(t, err)

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	status := statuses[0]
	assert.Equal(t, "worker-1", status.WorkerID)
	assert.Equal(t, "scan", status.WorkerType)
	assert.Equal(t, "Fetching profiles", status.CurrentTask)
	assert.Equal(t, 40, status.Progress)
	assert.True(t, status.IsHealthy)
	assert.False(t, status.LastSeen.IsZero())
}

func TestReportStatusOverwrites(t *testing.T) {
	t.Parallel()

	monitor := setupTest(t)
	ctx := t.Context()

	first := core.Status{WorkerID: "worker-1", WorkerType: "scan", Progress: 10, IsHealthy: true}
	require.NoError(t, monitor.ReportStatus(ctx, first))

	second := first
	second.Progress = 90
	second.IsHealthy = false
	require.NoError(t, monitor.ReportStatus(ctx, second))

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, 90, statuses[0].Progress)
	assert.False(t, statuses[0].IsHealthy)
}

func TestGetAllStatusesMultipleWorkers(t *testing.T) {
	t.Parallel()

	monitor := setupTest(t)
	ctx := t.Context()

	require.NoError(t, monitor.ReportStatus(ctx, core.Status{WorkerID: "a", WorkerType: "scan", IsHealthy: true}))
	require.NoError(t, monitor.ReportStatus(ctx, core.Status{WorkerID: "b", WorkerType: "refresh", IsHealthy: true}))
	require.NoError(t, monitor.ReportStatus(ctx, core.Status{WorkerID: "c", WorkerType: "stats", IsHealthy: false}))

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	assert.Len(t, statuses, 3)

	types := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		types[status.WorkerType] = true
	}

	assert.True(t, types["scan"])
	assert.True(t, types["refresh"])
	assert.True(t, types["stats"])
}

func TestGetAllStatusesEmpty(t *testing.T) {
	t.Parallel()

	monitor := setupTest(t)

	statuses, err := monitor.GetAllStatuses(t.Context())
	require.NoError(t, err)
	assert.Empty(t, statuses)
}
