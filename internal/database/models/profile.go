// Package models contains the database access layer, one model per table
// group.
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

// ProfileModel handles database operations for profiles and their
// interaction snapshots.
type ProfileModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewProfile creates a new ProfileModel.
func NewProfile(db *bun.DB, logger *zap.Logger) *ProfileModel {
	return &ProfileModel{
		db:     db,
		logger: logger.Named("db_profile"),
	}
}

// SaveProfiles upserts a batch of profiles.
func (r *ProfileModel) SaveProfiles(ctx context.Context, profiles []*types.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(&profiles).
			On("CONFLICT (id) DO UPDATE").
			Set("username = EXCLUDED.username").
			Set("display_name = EXCLUDED.display_name").
			Set("credibility_score = EXCLUDED.credibility_score").
			Set("xp_total = EXCLUDED.xp_total").
			Set("last_updated = EXCLUDED.last_updated").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save profiles: %w", err)
		}

		r.logger.Debug("Saved profiles", zap.Int("count", len(profiles)))

		return nil
	})
}

// SaveStats upserts a batch of interaction snapshots.
func (r *ProfileModel) SaveStats(ctx context.Context, stats []*types.InteractionStats) error {
	if len(stats) == 0 {
		return nil
	}

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(&stats).
			On("CONFLICT (profile_id) DO UPDATE").
			Set("reviews_given = EXCLUDED.reviews_given").
			Set("reviews_received = EXCLUDED.reviews_received").
			Set("vouches_given = EXCLUDED.vouches_given").
			Set("vouches_received = EXCLUDED.vouches_received").
			Set("fetched_at = EXCLUDED.fetched_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save interaction stats: %w", err)
		}

		return nil
	})
}

// GetByID fetches one profile.
func (r *ProfileModel) GetByID(ctx context.Context, profileID int64) (*types.Profile, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Profile, error) {
		var profile types.Profile

		err := r.db.NewSelect().
			Model(&profile).
			Where("id = ?", profileID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrProfileNotFound
			}

			return nil, fmt.Errorf("failed to get profile %d: %w", profileID, err)
		}

		return &profile, nil
	})
}

// GetStatsByProfileID fetches the stored interaction snapshot for a profile.
func (r *ProfileModel) GetStatsByProfileID(ctx context.Context, profileID int64) (*types.InteractionStats, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.InteractionStats, error) {
		var stats types.InteractionStats

		err := r.db.NewSelect().
			Model(&stats).
			Where("profile_id = ?", profileID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrStatsNotFound
			}

			return nil, fmt.Errorf("failed to get stats for profile %d: %w", profileID, err)
		}

		return &stats, nil
	})
}

// GetStaleProfiles returns up to limit profiles whose assessment data is
// older than cutoff, oldest first. Profiles never scanned sort first.
func (r *ProfileModel) GetStaleProfiles(ctx context.Context, cutoff time.Time, limit int) ([]*types.Profile, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Profile, error) {
		var profiles []*types.Profile

		err := r.db.NewSelect().
			Model(&profiles).
			Where("last_scanned IS NULL OR last_scanned < ?", cutoff).
			OrderExpr("last_scanned ASC NULLS FIRST").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get stale profiles: %w", err)
		}

		return profiles, nil
	})
}

// MarkScanned stamps last_scanned on a batch of profiles.
func (r *ProfileModel) MarkScanned(ctx context.Context, profileIDs []int64, scannedAt time.Time) error {
	if len(profileIDs) == 0 {
		return nil
	}

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model((*types.Profile)(nil)).
			Set("last_scanned = ?", scannedAt).
			Where("id IN (?)", bun.In(profileIDs)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to mark profiles scanned: %w", err)
		}

		return nil
	})
}
