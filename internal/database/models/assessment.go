package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/revlyx/revector/internal/database/dbretry"
	"github.com/revlyx/revector/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AssessmentModel handles database operations for farming-risk assessments.
type AssessmentModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAssessment creates a new AssessmentModel.
func NewAssessment(db *bun.DB, logger *zap.Logger) *AssessmentModel {
	return &AssessmentModel{
		db:     db,
		logger: logger.Named("db_assessment"),
	}
}

// SaveAssessments upserts a batch of assessments, one row per profile.
func (r *AssessmentModel) SaveAssessments(ctx context.Context, assessments []*types.Assessment) error {
	if len(assessments) == 0 {
		return nil
	}

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(&assessments).
			On("CONFLICT (profile_id) DO UPDATE").
			Set("score = EXCLUDED.score").
			Set("risk_tier = EXCLUDED.risk_tier").
			Set("farming_indicators = EXCLUDED.farming_indicators").
			Set("positive_factors = EXCLUDED.positive_factors").
			Set("recommendations = EXCLUDED.recommendations").
			Set("eligible = EXCLUDED.eligible").
			Set("assessed_at = EXCLUDED.assessed_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save assessments: %w", err)
		}

		r.logger.Debug("Saved assessments", zap.Int("count", len(assessments)))

		return nil
	})
}

// GetByProfileID fetches the stored assessment for a profile.
func (r *AssessmentModel) GetByProfileID(ctx context.Context, profileID int64) (*types.Assessment, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Assessment, error) {
		var assessment types.Assessment

		err := r.db.NewSelect().
			Model(&assessment).
			Where("profile_id = ?", profileID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrAssessmentNotFound
			}

			return nil, fmt.Errorf("failed to get assessment for profile %d: %w", profileID, err)
		}

		return &assessment, nil
	})
}

// GetLeaderboard returns the highest-scoring eligible assessments.
func (r *AssessmentModel) GetLeaderboard(ctx context.Context, limit int) ([]*types.Assessment, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Assessment, error) {
		var assessments []*types.Assessment

		err := r.db.NewSelect().
			Model(&assessments).
			Where("eligible = TRUE").
			Order("score DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get leaderboard: %w", err)
		}

		return assessments, nil
	})
}

// GetHighRiskCount counts assessments at or above the high risk tier made
// since the given time.
func (r *AssessmentModel) GetHighRiskCount(ctx context.Context, since time.Time) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := r.db.NewSelect().
			Model((*types.Assessment)(nil)).
			Where("risk_tier >= ?", types.RiskTierHigh).
			Where("assessed_at >= ?", since).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count high risk assessments: %w", err)
		}

		return count, nil
	})
}

// GetTierCounts aggregates assessments made since the given time into per-tier
// counts plus the overall average score.
func (r *AssessmentModel) GetTierCounts(ctx context.Context, since time.Time) (map[types.RiskTier]int64, float64, error) {
	type tierRow struct {
		RiskTier types.RiskTier `bun:"risk_tier"`
		Count    int64          `bun:"count"`
		AvgScore float64        `bun:"avg_score"`
	}

	rows, err := dbretry.Operation(ctx, func(ctx context.Context) ([]tierRow, error) {
		var rows []tierRow

		err := r.db.NewSelect().
			Model((*types.Assessment)(nil)).
			ColumnExpr("risk_tier").
			ColumnExpr("COUNT(*) AS count").
			ColumnExpr("AVG(score) AS avg_score").
			Where("assessed_at >= ?", since).
			GroupExpr("risk_tier").
			Scan(ctx, &rows)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate tier counts: %w", err)
		}

		return rows, nil
	})
	if err != nil {
		return nil, 0, err
	}

	counts := make(map[types.RiskTier]int64, len(rows))

	var (
		total    int64
		scoreSum float64
	)

	for _, row := range rows {
		counts[row.RiskTier] = row.Count
		total += row.Count
		scoreSum += row.AvgScore * float64(row.Count)
	}

	var average float64
	if total > 0 {
		average = scoreSum / float64(total)
	}

	return counts, average, nil
}

// GetScoreDistribution buckets all stored assessment scores into fixed-width
// histogram bars covering 0-100.
func (r *AssessmentModel) GetScoreDistribution(ctx context.Context, bucketWidth int) ([]types.ScoreBucket, error) {
	if bucketWidth < 1 {
		bucketWidth = 10
	}

	type bucketRow struct {
		Bucket int   `bun:"bucket"`
		Count  int64 `bun:"count"`
	}

	rows, err := dbretry.Operation(ctx, func(ctx context.Context) ([]bucketRow, error) {
		var rows []bucketRow

		err := r.db.NewSelect().
			Model((*types.Assessment)(nil)).
			ColumnExpr("LEAST(FLOOR(score / ?), ?)::int AS bucket", bucketWidth, 100/bucketWidth-1).
			ColumnExpr("COUNT(*) AS count").
			GroupExpr("bucket").
			OrderExpr("bucket ASC").
			Scan(ctx, &rows)
		if err != nil {
			return nil, fmt.Errorf("failed to get score distribution: %w", err)
		}

		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	// Emit every bucket, including empty ones, so charts stay aligned.
	buckets := make([]types.ScoreBucket, 0, 100/bucketWidth)
	counts := make(map[int]int64, len(rows))

	for _, row := range rows {
		counts[row.Bucket] = row.Count
	}

	for i := range 100 / bucketWidth {
		buckets = append(buckets, types.ScoreBucket{
			Lower: i * bucketWidth,
			Upper: (i + 1) * bucketWidth,
			Count: counts[i],
		})
	}

	return buckets, nil
}
