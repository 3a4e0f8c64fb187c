package migrations

import (
	"context"
	"fmt"

	"github.com/revlyx/revector/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []struct {
			model any
			name  string
		}{
			{(*types.Profile)(nil), "profiles"},
			{(*types.InteractionStats)(nil), "interaction_stats"},
			{(*types.Assessment)(nil), "assessments"},
			{(*types.HourlyTierStats)(nil), "hourly_tier_stats"},
		}

		for _, m := range models {
			_, err := db.NewCreateTable().
				Model(m.model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %s: %w", m.name, err)
			}
		}

		indexes := []struct {
			name    string
			table   string
			columns string
		}{
			{"idx_profiles_last_scanned", "profiles", "last_scanned"},
			{"idx_assessments_score", "assessments", "score DESC"},
			{"idx_assessments_risk_tier", "assessments", "risk_tier"},
			{"idx_assessments_assessed_at", "assessments", "assessed_at"},
			{"idx_assessments_eligible_score", "assessments", "eligible, score DESC"},
		}

		for _, idx := range indexes {
			_, err := db.NewRaw(fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
				idx.name, idx.table, idx.columns)).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create index %s: %w", idx.name, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, table := range []string{"hourly_tier_stats", "assessments", "interaction_stats", "profiles"} {
			if _, err := db.NewRaw("DROP TABLE IF EXISTS " + table).Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
