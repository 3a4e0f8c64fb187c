package checker

import (
	"testing"

	"github.com/revlyx/revector/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ruleByName finds a farming rule in the battery.
func ruleByName(t *testing.T, name string) farmingRule {
	t.Helper()

	for _, rule := range farmingRules {
		if rule.name == name {
			return rule
		}
	}

	t.Fatalf("rule %q not found", name)

	return farmingRule{}
}

func TestFarmingRuleTriggers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rule    string
		metrics *metrics
		fires   bool
	}{
		{
			name:    "perfect reciprocity fires at matched volume",
			rule:    "perfect_reciprocity",
			metrics: &metrics{totalGiven: 20, totalReceived: 21, reciprocity: 21.0 / 20.0},
			fires:   true,
		},
		{
			name:    "perfect reciprocity needs more than five given",
			rule:    "perfect_reciprocity",
			metrics: &metrics{totalGiven: 5, totalReceived: 5, reciprocity: 1},
			fires:   false,
		},
		{
			name:    "mutual activity extreme above thirty",
			rule:    "mutual_activity_extreme",
			metrics: &metrics{mutual: 31},
			fires:   true,
		},
		{
			name:    "mutual activity heavy in band",
			rule:    "mutual_activity_heavy",
			metrics: &metrics{mutual: 25},
			fires:   true,
		},
		{
			name:    "mutual activity heavy excludes extreme band",
			rule:    "mutual_activity_heavy",
			metrics: &metrics{mutual: 31},
			fires:   false,
		},
		{
			name:    "mutual activity elevated in band",
			rule:    "mutual_activity_elevated",
			metrics: &metrics{mutual: 15},
			fires:   true,
		},
		{
			name:    "symmetric vouching within tolerance",
			rule:    "symmetric_vouching",
			metrics: &metrics{vouchesGiven: 25, vouchesReceived: 24},
			fires:   true,
		},
		{
			name:    "symmetric vouching outside tolerance",
			rule:    "symmetric_vouching",
			metrics: &metrics{vouchesGiven: 25, vouchesReceived: 15},
			fires:   false,
		},
		{
			name:    "low xp per review",
			rule:    "low_xp_per_review",
			metrics: &metrics{totalReceived: 20, xp: 5000},
			fires:   true,
		},
		{
			name:    "zero negative at volume",
			rule:    "zero_negative_at_volume",
			metrics: &metrics{totalReceived: 25, negativeReceived: 0},
			fires:   true,
		},
		{
			name:    "rapid accumulation",
			rule:    "rapid_accumulation",
			metrics: &metrics{credibility: 1200, totalReceived: 60, xp: 8000},
			fires:   true,
		},
		{
			name:    "extreme imbalance",
			rule:    "extreme_imbalance",
			metrics: &metrics{totalGiven: 130, totalReceived: 21},
			fires:   true,
		},
		{
			name:    "extreme imbalance needs both sides above twenty",
			rule:    "extreme_imbalance",
			metrics: &metrics{totalGiven: 130, totalReceived: 5},
			fires:   false,
		},
		{
			name:    "score inflation versus expected",
			rule:    "score_inflation",
			metrics: &metrics{credibility: 500, totalReceived: 10},
			fires:   true,
		},
		{
			name:    "review mill given",
			rule:    "review_mill_given",
			metrics: &metrics{totalGiven: 150},
			fires:   true,
		},
		{
			name:    "review mill received",
			rule:    "review_mill_received",
			metrics: &metrics{totalReceived: 101},
			fires:   true,
		},
		{
			name:    "sockpuppet signal",
			rule:    "sockpuppet_signal",
			metrics: &metrics{vouchesReceived: 15, totalReceived: 5},
			fires:   true,
		},
		{
			name:    "positive saturation",
			rule:    "positive_saturation",
			metrics: &metrics{totalReceived: 20, positiveReceivedPct: 100},
			fires:   true,
		},
		{
			name:    "reputation washing",
			rule:    "reputation_washing",
			metrics: &metrics{totalReceived: 41},
			fires:   true,
		},
		{
			name:    "behavioral symmetry",
			rule:    "behavioral_symmetry",
			metrics: &metrics{totalGiven: 18, totalReceived: 16},
			fires:   true,
		},
		{
			name:    "systematic exchange",
			rule:    "systematic_exchange",
			metrics: &metrics{totalGiven: 45, totalReceived: 50, reciprocity: 50.0 / 45.0},
			fires:   true,
		},
		{
			name:    "vouch volume ceiling either direction",
			rule:    "vouch_volume_ceiling",
			metrics: &metrics{vouchesReceived: 51},
			fires:   true,
		},
		{
			name:    "vouch review disproportion",
			rule:    "vouch_review_disproportion",
			metrics: &metrics{vouchesGiven: 15, vouchesReceived: 10, totalGiven: 8, totalReceived: 9},
			fires:   true,
		},
		{
			name: "low reputation reviewers requires enrichment",
			rule: "low_reputation_reviewers",
			metrics: &metrics{reviewer: &types.ReviewerReputation{
				ReviewerCount:    10,
				LowRepPercentage: 60,
			}},
			fires: true,
		},
		{
			name:    "low reputation reviewers skipped without enrichment",
			rule:    "low_reputation_reviewers",
			metrics: &metrics{},
			fires:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule := ruleByName(t, tt.rule)
			assert.Equal(t, tt.fires, rule.when(tt.metrics))
		})
	}
}

func TestFarmingRulePointsAndFloors(t *testing.T) {
	t.Parallel()

	for _, rule := range farmingRules {
		assert.Greater(t, rule.points, 0.0, "rule %s must deduct points", rule.name)
		assert.LessOrEqual(t, rule.points, 60.0, "rule %s deduction out of range", rule.name)
		assert.GreaterOrEqual(t, rule.floor, types.RiskTierMedium, "rule %s must raise the tier", rule.name)
		assert.NotEmpty(t, rule.message, "rule %s needs a message", rule.name)
	}
}

func TestDeriveMetrics(t *testing.T) {
	t.Parallel()

	t.Run("coerces malformed counts to zero", func(t *testing.T) {
		t.Parallel()

		stats := &types.InteractionStats{
			ReviewsGiven:    types.ReviewCounts{Positive: -3, Neutral: 2},
			ReviewsReceived: types.ReviewCounts{Negative: -1},
			VouchesGiven:    -10,
		}
		profile := &types.Profile{CredibilityScore: -50, XPTotal: 100}

		m := deriveMetrics(profile, stats, nil)

		assert.Equal(t, 2.0, m.totalGiven)
		assert.Equal(t, 0.0, m.totalReceived)
		assert.Equal(t, 0.0, m.vouchesGiven)
		assert.Equal(t, 0.0, m.credibility)
	})

	t.Run("guards every ratio against zero denominators", func(t *testing.T) {
		t.Parallel()

		m := deriveMetrics(&types.Profile{}, &types.InteractionStats{}, nil)

		assert.Equal(t, 0.0, m.reciprocity)
		assert.Equal(t, 0.0, m.positiveReceivedPct)
		assert.Equal(t, 0.0, m.negativeReceivedPct)
		assert.Equal(t, 0.0, m.positiveGivenPct)
	})

	t.Run("derives reciprocity and mutual count", func(t *testing.T) {
		t.Parallel()

		stats := &types.InteractionStats{
			ReviewsGiven:    types.ReviewCounts{Positive: 10, Neutral: 2},
			ReviewsReceived: types.ReviewCounts{Positive: 5, Negative: 1},
		}

		m := deriveMetrics(&types.Profile{}, stats, nil)

		require.Equal(t, 12.0, m.totalGiven)
		require.Equal(t, 6.0, m.totalReceived)
		assert.InDelta(t, 0.5, m.reciprocity, 1e-9)
		assert.Equal(t, 6.0, m.mutual)
	})
}
