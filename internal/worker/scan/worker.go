// Package scan implements the worker that walks the profile ID space,
// assessing each batch for review-farming risk.
package scan

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/rueidis"
	"github.com/revlyx/revector/internal/database"
	"github.com/revlyx/revector/internal/database/types"
	"github.com/revlyx/revector/internal/farm/checker"
	"github.com/revlyx/revector/internal/farm/fetcher"
	"github.com/revlyx/revector/internal/progress"
	"github.com/revlyx/revector/internal/redis"
	"github.com/revlyx/revector/internal/setup"
	"github.com/revlyx/revector/internal/worker/core"
	"github.com/revlyx/revector/pkg/utils"
	"go.uber.org/zap"
)

// cursorKey stores the next profile ID to scan so restarts resume where the
// previous run stopped.
const cursorKey = "scan:cursor"

// highRiskWindow is how far back the pause check looks for high risk
// assessments.
const highRiskWindow = 24 * time.Hour

// Worker walks profile IDs in ascending order, fetching and assessing each
// batch.
type Worker struct {
	db                database.Client
	bar               *progress.Bar
	fetcher           *fetcher.ProfileFetcher
	checker           *checker.Checker
	reporter          *core.StatusReporter
	cursorClient      rueidis.Client
	logger            *zap.Logger
	batchSize         int
	highRiskThreshold int
}

// New creates a new scan worker.
func New(app *setup.App, bar *progress.Bar, logger *zap.Logger) (*Worker, error) {
	profileFetcher, err := fetcher.NewProfileFetcher(app.EthosAPI, app.Config.Common.Ethos.MaxConcurrent, logger)
	if err != nil {
		return nil, err
	}

	cursorClient, err := app.RedisManager.GetClient(redis.CursorDBIndex)
	if err != nil {
		return nil, err
	}

	return &Worker{
		db:                app.DB,
		bar:               bar,
		fetcher:           profileFetcher,
		checker:           checker.New(logger),
		reporter:          core.NewStatusReporter(app.StatusClient, "scan", logger),
		cursorClient:      cursorClient,
		logger:            logger.Named("scan_worker"),
		batchSize:         app.Config.Worker.BatchSizes.ScanProfiles,
		highRiskThreshold: app.Config.Worker.ThresholdLimits.MaxPendingHighRisk,
	}, nil
}

// Start begins the scan worker's main loop.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Scan Worker started", zap.String("workerID", w.reporter.GetWorkerID()))
	w.reporter.Start(ctx)
	defer w.reporter.Stop()

	w.bar.SetTotal(100)

	for {
		if utils.ContextGuardWithLog(ctx, w.logger, "Context cancelled, stopping scan worker") {
			w.bar.SetStepMessage("Shutting down", 100)
			w.reporter.UpdateStatus("Shutting down", 100)

			return
		}

		w.bar.Reset()
		w.reporter.SetHealthy(true)

		// Check high risk backlog
		highRiskCount, err := w.db.Model().Assessment().GetHighRiskCount(ctx, time.Now().Add(-highRiskWindow))
		if err != nil {
			w.logger.Error("Error getting high risk count", zap.Error(err))
			w.reporter.SetHealthy(false)

			if !utils.ErrorSleep(ctx, 5*time.Minute, w.logger, "scan worker") {
				return
			}

			continue
		}

		// If above threshold, pause processing
		if w.highRiskThreshold > 0 && highRiskCount >= w.highRiskThreshold {
			w.bar.SetStepMessage("Paused - high risk backlog exceeds threshold", 0)
			w.reporter.UpdateStatus("Paused - high risk backlog exceeds threshold", 0)
			w.logger.Info("Pausing worker - high risk threshold exceeded",
				zap.Int("highRiskCount", highRiskCount),
				zap.Int("threshold", w.highRiskThreshold))

			if !utils.ThresholdSleep(ctx, 5*time.Minute, w.logger, "scan worker") {
				return
			}

			continue
		}

		// Step 1: Load the cursor (10%)
		w.bar.SetStepMessage("Loading cursor", 10)
		w.reporter.UpdateStatus("Loading cursor", 10)

		cursor, err := w.loadCursor(ctx)
		if err != nil {
			w.logger.Error("Error loading scan cursor", zap.Error(err))
			w.reporter.SetHealthy(false)

			if !utils.ErrorSleep(ctx, time.Minute, w.logger, "scan worker") {
				return
			}

			continue
		}

		// Step 2: Fetch the next batch (40%)
		w.bar.SetStepMessage("Fetching profiles", 40)
		w.reporter.UpdateStatus("Fetching profiles", 40)

		profileIDs := make([]int64, 0, w.batchSize)
		for i := range int64(w.batchSize) {
			profileIDs = append(profileIDs, cursor+i)
		}

		results := w.fetcher.FetchBatch(ctx, profileIDs)

		// Step 3: Assess and persist (80%)
		w.bar.SetStepMessage("Assessing profiles", 80)
		w.reporter.UpdateStatus("Assessing profiles", 80)

		if err := w.assessBatch(ctx, results); err != nil {
			w.reporter.SetHealthy(false)

			if !utils.ErrorSleep(ctx, time.Minute, w.logger, "scan worker") {
				return
			}

			continue
		}

		// Step 4: Advance the cursor (100%)
		w.bar.SetStepMessage("Saving cursor", 100)
		w.reporter.UpdateStatus("Saving cursor", 100)

		if err := w.saveCursor(ctx, cursor+int64(w.batchSize)); err != nil {
			w.logger.Error("Error saving scan cursor", zap.Error(err))
			w.reporter.SetHealthy(false)
		}

		w.logger.Info("Finished scan batch",
			zap.Int64("cursor", cursor),
			zap.Int("requested", len(profileIDs)),
			zap.Int("assessed", len(results)))

		if !utils.IntervalSleep(ctx, time.Second, w.logger, "scan worker") {
			return
		}
	}
}

// assessBatch runs the checker over fetched results and persists everything.
func (w *Worker) assessBatch(ctx context.Context, results []*fetcher.Result) error {
	if len(results) == 0 {
		return nil
	}

	var (
		profiles    = make([]*types.Profile, 0, len(results))
		stats       = make([]*types.InteractionStats, 0, len(results))
		assessments = make([]*types.Assessment, 0, len(results))
		profileIDs  = make([]int64, 0, len(results))
	)

	for _, result := range results {
		profiles = append(profiles, result.Profile)
		profileIDs = append(profileIDs, result.Profile.ID)

		if result.Stats != nil {
			stats = append(stats, result.Stats)
		}

		assessments = append(assessments, w.checker.Assess(result.Profile, result.Stats, result.Reviewer))
	}

	if err := w.db.Model().Profile().SaveProfiles(ctx, profiles); err != nil {
		w.logger.Error("Error saving profiles", zap.Error(err))
		return err
	}

	if err := w.db.Model().Profile().SaveStats(ctx, stats); err != nil {
		w.logger.Error("Error saving interaction stats", zap.Error(err))
		return err
	}

	if err := w.db.Model().Assessment().SaveAssessments(ctx, assessments); err != nil {
		w.logger.Error("Error saving assessments", zap.Error(err))
		return err
	}

	if err := w.db.Model().Profile().MarkScanned(ctx, profileIDs, time.Now()); err != nil {
		w.logger.Error("Error marking profiles scanned", zap.Error(err))
		return err
	}

	return nil
}

// loadCursor reads the next profile ID to scan, starting at 1 when no cursor
// exists yet.
func (w *Worker) loadCursor(ctx context.Context) (int64, error) {
	return utils.WithRetry(ctx, func() (int64, error) {
		value, err := w.cursorClient.Do(ctx, w.cursorClient.B().Get().Key(cursorKey).Build()).ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				return 1, nil
			}

			return 0, err
		}

		cursor, err := strconv.ParseInt(value, 10, 64)
		if err != nil || cursor < 1 {
			return 1, nil
		}

		return cursor, nil
	}, utils.GetRedisRetryOptions())
}

// saveCursor persists the next profile ID to scan.
func (w *Worker) saveCursor(ctx context.Context, cursor int64) error {
	_, err := utils.WithRetry(ctx, func() (struct{}, error) {
		err := w.cursorClient.Do(ctx,
			w.cursorClient.B().Set().Key(cursorKey).Value(strconv.FormatInt(cursor, 10)).Build()).Error()

		return struct{}{}, err
	}, utils.GetRedisRetryOptions())

	return err
}
