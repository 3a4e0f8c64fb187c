package models

import (
	"context"
	"fmt"
	"time"

	"github.com/revlyx/revector/internal/database/dbretry"
	"github.com/revlyx/revector/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// StatsModel handles database operations for hourly tier statistics.
type StatsModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewStats creates a new StatsModel.
func NewStats(db *bun.DB, logger *zap.Logger) *StatsModel {
	return &StatsModel{
		db:     db,
		logger: logger.Named("db_stats"),
	}
}

// SaveHourlyStats upserts one hourly snapshot.
func (r *StatsModel) SaveHourlyStats(ctx context.Context, stats *types.HourlyTierStats) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(stats).
			On("CONFLICT (hour) DO UPDATE").
			Set("low_count = EXCLUDED.low_count").
			Set("medium_count = EXCLUDED.medium_count").
			Set("high_count = EXCLUDED.high_count").
			Set("critical_count = EXCLUDED.critical_count").
			Set("average_score = EXCLUDED.average_score").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save hourly stats: %w", err)
		}

		return nil
	})
}

// GetHourlyStats retrieves hourly statistics for the last 24 hours.
func (r *StatsModel) GetHourlyStats(ctx context.Context) ([]*types.HourlyTierStats, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.HourlyTierStats, error) {
		var stats []*types.HourlyTierStats

		now := time.Now().UTC()
		dayAgo := now.Add(-24 * time.Hour)

		err := r.db.NewSelect().
			Model(&stats).
			Where("hour >= ? AND hour <= ?", dayAgo, now).
			Order("hour ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get hourly stats: %w", err)
		}

		return stats, nil
	})
}

// HasStatsForHour checks if statistics exist for a specific hour.
func (r *StatsModel) HasStatsForHour(ctx context.Context, hour time.Time) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := r.db.NewSelect().
			Model((*types.HourlyTierStats)(nil)).
			Where("hour = ?", hour.UTC().Truncate(time.Hour)).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check stats existence for hour %v: %w", hour, err)
		}

		return exists, nil
	})
}

// PurgeOldStats removes statistics older than the cutoff date.
func (r *StatsModel) PurgeOldStats(ctx context.Context, cutoffDate time.Time) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		result, err := r.db.NewDelete().
			Model((*types.HourlyTierStats)(nil)).
			Where("hour < ?", cutoffDate).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to purge old stats: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		r.logger.Debug("Purged old stats",
			zap.Int64("rowsAffected", rowsAffected),
			zap.Time("cutoffDate", cutoffDate))

		return nil
	})
}
