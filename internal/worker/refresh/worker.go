// Package refresh implements the worker that re-assesses profiles whose
// stored assessments have gone stale.
package refresh

import (
	"context"
	"time"

	"github.com/revlyx/revector/internal/database"
	"github.com/revlyx/revector/internal/database/types"
	"github.com/revlyx/revector/internal/farm/checker"
	"github.com/revlyx/revector/internal/farm/fetcher"
	"github.com/revlyx/revector/internal/progress"
	"github.com/revlyx/revector/internal/setup"
	"github.com/revlyx/revector/internal/worker/core"
	"github.com/revlyx/revector/pkg/utils"
	"go.uber.org/zap"
)

// Worker periodically re-fetches profiles that have not been scanned recently
// and replaces their assessments.
type Worker struct {
	db         database.Client
	bar        *progress.Bar
	fetcher    *fetcher.ProfileFetcher
	checker    *checker.Checker
	reporter   *core.StatusReporter
	logger     *zap.Logger
	batchSize  int
	staleAfter time.Duration
}

// New creates a new refresh worker.
func New(app *setup.App, bar *progress.Bar, logger *zap.Logger) (*Worker, error) {
	profileFetcher, err := fetcher.NewProfileFetcher(app.EthosAPI, app.Config.Common.Ethos.MaxConcurrent, logger)
	if err != nil {
		return nil, err
	}

	return &Worker{
		db:         app.DB,
		bar:        bar,
		fetcher:    profileFetcher,
		checker:    checker.New(logger),
		reporter:   core.NewStatusReporter(app.StatusClient, "refresh", logger),
		logger:     logger.Named("refresh_worker"),
		batchSize:  app.Config.Worker.BatchSizes.RefreshProfiles,
		staleAfter: time.Duration(app.Config.Worker.ThresholdLimits.StaleAssessmentHours) * time.Hour,
	}, nil
}

// Start begins the refresh worker's main loop.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Refresh Worker started", zap.String("workerID", w.reporter.GetWorkerID()))
	w.reporter.Start(ctx)
	defer w.reporter.Stop()

	w.bar.SetTotal(100)

	for {
		if utils.ContextGuardWithLog(ctx, w.logger, "Context cancelled, stopping refresh worker") {
			w.bar.SetStepMessage("Shutting down", 100)
			w.reporter.UpdateStatus("Shutting down", 100)

			return
		}

		w.bar.Reset()
		w.reporter.SetHealthy(true)

		// Step 1: Find stale profiles (20%)
		w.bar.SetStepMessage("Finding stale profiles", 20)
		w.reporter.UpdateStatus("Finding stale profiles", 20)

		stale, err := w.db.Model().Profile().GetStaleProfiles(ctx, time.Now().Add(-w.staleAfter), w.batchSize)
		if err != nil {
			w.logger.Error("Error getting stale profiles", zap.Error(err))
			w.reporter.SetHealthy(false)

			if !utils.ErrorSleep(ctx, time.Minute, w.logger, "refresh worker") {
				return
			}

			continue
		}

		// No stale work, wait for assessments to age
		if len(stale) == 0 {
			w.bar.SetStepMessage("Waiting for stale assessments", 100)
			w.reporter.UpdateStatus("Waiting for stale assessments", 100)

			if !utils.IntervalSleep(ctx, 5*time.Minute, w.logger, "refresh worker") {
				return
			}

			continue
		}

		// Step 2: Re-fetch from the API (60%)
		w.bar.SetStepMessage("Refreshing profiles", 60)
		w.reporter.UpdateStatus("Refreshing profiles", 60)

		profileIDs := make([]int64, 0, len(stale))
		for _, profile := range stale {
			profileIDs = append(profileIDs, profile.ID)
		}

		results := w.fetcher.FetchBatch(ctx, profileIDs)

		// Step 3: Re-assess and persist (100%)
		w.bar.SetStepMessage("Re-assessing profiles", 100)
		w.reporter.UpdateStatus("Re-assessing profiles", 100)

		if err := w.refreshBatch(ctx, profileIDs, results); err != nil {
			w.reporter.SetHealthy(false)

			if !utils.ErrorSleep(ctx, time.Minute, w.logger, "refresh worker") {
				return
			}

			continue
		}

		w.logger.Info("Finished refresh batch",
			zap.Int("stale", len(stale)),
			zap.Int("refreshed", len(results)))

		if !utils.IntervalSleep(ctx, time.Second, w.logger, "refresh worker") {
			return
		}
	}
}

// refreshBatch persists refreshed results. Profiles that disappeared from the
// API are still marked scanned so the worker does not retry them every loop.
func (w *Worker) refreshBatch(ctx context.Context, requestedIDs []int64, results []*fetcher.Result) error {
	now := time.Now()

	if len(results) > 0 {
		var (
			profiles    = make([]*types.Profile, 0, len(results))
			stats       = make([]*types.InteractionStats, 0, len(results))
			assessments = make([]*types.Assessment, 0, len(results))
		)

		for _, result := range results {
			profiles = append(profiles, result.Profile)

			if result.Stats != nil {
				stats = append(stats, result.Stats)
			}

			assessments = append(assessments, w.checker.Assess(result.Profile, result.Stats, result.Reviewer))
		}

		if err := w.db.Model().Profile().SaveProfiles(ctx, profiles); err != nil {
			w.logger.Error("Error saving refreshed profiles", zap.Error(err))
			return err
		}

		if err := w.db.Model().Profile().SaveStats(ctx, stats); err != nil {
			w.logger.Error("Error saving refreshed interaction stats", zap.Error(err))
			return err
		}

		if err := w.db.Model().Assessment().SaveAssessments(ctx, assessments); err != nil {
			w.logger.Error("Error saving refreshed assessments", zap.Error(err))
			return err
		}
	}

	if err := w.db.Model().Profile().MarkScanned(ctx, requestedIDs, now); err != nil {
		w.logger.Error("Error marking refreshed profiles scanned", zap.Error(err))
		return err
	}

	return nil
}
