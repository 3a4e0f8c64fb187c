// Package stats implements the worker that aggregates assessments into hourly
// snapshots and renders dashboard charts.
package stats

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/revlyx/revector/internal/database"
	"github.com/revlyx/revector/internal/database/types"
	"github.com/revlyx/revector/internal/progress"
	"github.com/revlyx/revector/internal/setup"
	"github.com/revlyx/revector/internal/worker/core"
	"github.com/revlyx/revector/pkg/utils"
	"go.uber.org/zap"
)

// scoreBucketWidth is the histogram bar width used for the distribution chart.
const scoreBucketWidth = 10

// Worker handles hourly statistics snapshots and chart rendering.
type Worker struct {
	db            database.Client
	bar           *progress.Bar
	reporter      *core.StatusReporter
	logger        *zap.Logger
	chartDir      string
	retentionDays int
}

// New creates a new stats worker. Charts are written under the session log
// directory.
func New(app *setup.App, bar *progress.Bar, logger *zap.Logger) *Worker {
	return &Worker{
		db:            app.DB,
		bar:           bar,
		reporter:      core.NewStatusReporter(app.StatusClient, "stats", logger),
		logger:        logger.Named("stats_worker"),
		chartDir:      filepath.Join(app.LogDir, "charts"),
		retentionDays: app.Config.Worker.ThresholdLimits.StatsRetentionDays,
	}
}

// Start begins the statistics worker's main loop.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Statistics Worker started", zap.String("workerID", w.reporter.GetWorkerID()))
	w.reporter.Start(ctx)
	defer w.reporter.Stop()

	w.bar.SetTotal(100)

	for {
		if utils.ContextGuardWithLog(ctx, w.logger, "Context cancelled, stopping stats worker") {
			w.bar.SetStepMessage("Shutting down", 100)
			w.reporter.UpdateStatus("Shutting down", 100)

			return
		}

		w.bar.Reset()
		w.reporter.SetHealthy(true)

		// Step 1: Wait until the start of the next hour (0%)
		w.bar.SetStepMessage("Waiting for next hour", 0)
		w.reporter.UpdateStatus("Waiting for next hour", 0)

		nextHour := time.Now().UTC().Truncate(time.Hour).Add(time.Hour)
		if utils.ContextSleepUntilWithLog(ctx, nextHour, w.logger,
			"Context cancelled, stopping stats worker") == utils.SleepCancelled {
			return
		}

		// Step 2: Aggregate the previous hour (30%)
		w.bar.SetStepMessage("Aggregating assessments", 30)
		w.reporter.UpdateStatus("Aggregating assessments", 30)

		previousHour := nextHour.Add(-time.Hour)
		if err := w.snapshotHour(ctx, previousHour); err != nil {
			w.logger.Error("Failed to aggregate hourly stats", zap.Error(err))
			w.reporter.SetHealthy(false)

			continue
		}

		// Step 3: Render charts (60%)
		w.bar.SetStepMessage("Rendering charts", 60)
		w.reporter.UpdateStatus("Rendering charts", 60)

		if err := w.renderCharts(ctx); err != nil {
			w.logger.Error("Failed to render charts", zap.Error(err))
			w.reporter.SetHealthy(false)

			continue
		}

		// Step 4: Clean up old stats (80%)
		w.bar.SetStepMessage("Cleaning up old stats", 80)
		w.reporter.UpdateStatus("Cleaning up old stats", 80)

		cutoffDate := time.Now().UTC().AddDate(0, 0, -w.retentionDays)
		if err := w.db.Model().Stats().PurgeOldStats(ctx, cutoffDate); err != nil {
			w.logger.Error("Failed to purge old stats", zap.Error(err))
			w.reporter.SetHealthy(false)

			continue
		}

		// Step 5: Completed (100%)
		w.bar.SetStepMessage("Statistics updated", 100)
		w.reporter.UpdateStatus("Statistics updated", 100)

		w.logger.Info("Hourly statistics saved successfully",
			zap.Time("hour", previousHour))
	}
}

// snapshotHour aggregates assessments made during the given hour into one
// stored row, skipping hours already recorded.
func (w *Worker) snapshotHour(ctx context.Context, hour time.Time) error {
	exists, err := w.db.Model().Stats().HasStatsForHour(ctx, hour)
	if err != nil {
		return err
	}

	if exists {
		w.logger.Debug("Stats already recorded for hour", zap.Time("hour", hour))
		return nil
	}

	counts, averageScore, err := w.db.Model().Assessment().GetTierCounts(ctx, hour)
	if err != nil {
		return err
	}

	return w.db.Model().Stats().SaveHourlyStats(ctx, &types.HourlyTierStats{
		Hour:          hour,
		LowCount:      counts[types.RiskTierLow],
		MediumCount:   counts[types.RiskTierMedium],
		HighCount:     counts[types.RiskTierHigh],
		CriticalCount: counts[types.RiskTierCritical],
		AverageScore:  averageScore,
	})
}

// renderCharts rebuilds the tier trend and score distribution charts on disk.
func (w *Worker) renderCharts(ctx context.Context) error {
	hourly, err := w.db.Model().Stats().GetHourlyStats(ctx)
	if err != nil {
		return err
	}

	buckets, err := w.db.Model().Assessment().GetScoreDistribution(ctx, scoreBucketWidth)
	if err != nil {
		return err
	}

	tierBuffer, distributionBuffer, err := NewChartBuilder(hourly, buckets).Build()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(w.chartDir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(w.chartDir, "tier_trend.png"), tierBuffer.Bytes(), 0o644); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(w.chartDir, "score_distribution.png"), distributionBuffer.Bytes(), 0o644)
}
