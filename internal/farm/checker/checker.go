// Package checker implements the R4R farming-risk heuristic scorer.
// Given a profile and an interaction snapshot it produces a bounded score,
// a risk tier, the triggered suspicion rules and recommendations.
package checker

import (
	"math"
	"time"

	"github.com/revlyx/revector/internal/database/types"
	"go.uber.org/zap"
)

// Checker assesses profiles for coordinated review/vouch exchange. It holds
// no mutable state and is safe for concurrent use.
type Checker struct {
	logger *zap.Logger
}

// New creates a Checker.
func New(logger *zap.Logger) *Checker {
	return &Checker{
		logger: logger.Named("farm_checker"),
	}
}

// Assess scores a profile's farming risk from its interaction snapshot.
// A nil stats snapshot yields the degenerate "insufficient data" assessment:
// no rule is evaluated without a snapshot. The reviewer argument is optional
// enrichment and may be nil.
func (c *Checker) Assess(
	profile *types.Profile, stats *types.InteractionStats, reviewer *types.ReviewerReputation,
) *types.Assessment {
	var profileID int64
	if profile != nil {
		profileID = profile.ID
	}

	if stats == nil {
		return &types.Assessment{
			ProfileID:         profileID,
			Score:             0,
			RiskTier:          types.RiskTierHigh,
			FarmingIndicators: []string{},
			PositiveFactors:   []string{},
			Recommendations:   []string{"Insufficient data: no interaction statistics are available for this profile"},
			Eligible:          false,
			AssessedAt:        time.Now(),
		}
	}

	m := deriveMetrics(profile, stats, reviewer)

	var (
		score      float64
		tier       = types.RiskTierLow
		indicators = []string{}
		positives  = []string{}
	)

	// Suspicion battery: every matching rule fires, deductions accumulate
	// and the tier only ever rises.
	for _, rule := range farmingRules {
		if !rule.when(m) {
			continue
		}

		indicators = append(indicators, rule.message)
		score -= rule.points

		if rule.floor > tier {
			tier = rule.floor
		}
	}

	for _, rule := range positiveRules {
		if !rule.when(m, len(indicators), tier) {
			continue
		}

		positives = append(positives, rule.message)
		score += rule.points
	}

	score = math.Min(100, math.Max(0, score))
	eligible := score >= eligibilityMinScore && tier < types.RiskTierHigh

	assessment := &types.Assessment{
		ProfileID:         profileID,
		Score:             score,
		RiskTier:          tier,
		FarmingIndicators: indicators,
		PositiveFactors:   positives,
		Recommendations:   c.recommendations(m, score, tier),
		Eligible:          eligible,
		AssessedAt:        time.Now(),
	}

	c.logger.Debug("Assessed profile",
		zap.Int64("profileID", profileID),
		zap.Float64("score", score),
		zap.String("riskTier", tier.String()),
		zap.Int("indicators", len(indicators)),
		zap.Int("positiveFactors", len(positives)),
		zap.Bool("eligible", eligible))

	return assessment
}

// recommendations builds tier-specific guidance plus generic improvement tips.
func (c *Checker) recommendations(m *metrics, score float64, tier types.RiskTier) []string {
	recs := []string{}

	switch tier {
	case types.RiskTierCritical:
		recs = append(recs, "Critical farming risk: interaction patterns strongly indicate coordinated review exchange")
	case types.RiskTierHigh:
		recs = append(recs, "High farming risk: avoid reciprocal review arrangements and let reputation grow organically")
	case types.RiskTierMedium:
		recs = append(recs, "Moderate farming risk: keep review exchanges occasional and diversify interactions")
	case types.RiskTierLow:
		if score >= 70 {
			recs = append(recs, "Healthy interaction profile: current review habits look organic")
		}
	}

	if m.totalGiven == 0 {
		recs = append(recs, "Start giving thoughtful reviews to build a balanced interaction history")
	}

	if m.xp < 1000 {
		recs = append(recs, "Increase platform engagement beyond reviews to strengthen the profile")
	}

	if m.credibility < 30 {
		recs = append(recs, "Build credibility through sustained genuine activity before seeking reviews")
	}

	return recs
}
