package checker_test

import (
	"math"
	"testing"

	"github.com/revlyx/revector/internal/database/types"
	"github.com/revlyx/revector/internal/farm/checker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newChecker(t *testing.T) *checker.Checker {
	t.Helper()

	return checker.New(zap.NewNop())
}

// cleanProfile is an organic account: modest volumes, healthy balance.
func cleanProfile() (*types.Profile, *types.InteractionStats) {
	profile := &types.Profile{
		ID:               1001,
		Username:         "organic_reviewer",
		CredibilityScore: 80,
		XPTotal:          20000,
	}
	stats := &types.InteractionStats{
		ProfileID:       profile.ID,
		ReviewsGiven:    types.ReviewCounts{Positive: 4, Neutral: 1},
		ReviewsReceived: types.ReviewCounts{Positive: 5, Negative: 1},
		VouchesGiven:    2,
		VouchesReceived: 2,
	}

	return profile, stats
}

// farmProfile mirrors the textbook exchange pattern: matched review counts
// and symmetric vouching at volume.
func farmProfile() (*types.Profile, *types.InteractionStats) {
	profile := &types.Profile{
		ID:       2002,
		Username: "exchange_account",
	}
	stats := &types.InteractionStats{
		ProfileID:       profile.ID,
		ReviewsGiven:    types.ReviewCounts{Positive: 20},
		ReviewsReceived: types.ReviewCounts{Positive: 21},
		VouchesGiven:    25,
		VouchesReceived: 24,
	}

	return profile, stats
}

func TestAssessCleanProfile(t *testing.T) {
	t.Parallel()

	c := newChecker(t)
	profile, stats := cleanProfile()

	a := c.Assess(profile, stats, nil)

	assert.Equal(t, profile.ID, a.ProfileID)
	assert.Empty(t, a.FarmingIndicators)
	assert.Equal(t, types.RiskTierLow, a.RiskTier)
	assert.True(t, a.Eligible)
	assert.GreaterOrEqual(t, a.Score, 50.0)
	assert.Contains(t, a.PositiveFactors, "Strong platform credibility with no farming signals")
	assert.Contains(t, a.PositiveFactors, "Balanced ratio of reviews given to received")
}

func TestAssessFarmProfile(t *testing.T) {
	t.Parallel()

	c := newChecker(t)
	profile, stats := farmProfile()

	a := c.Assess(profile, stats, nil)

	assert.GreaterOrEqual(t, a.RiskTier, types.RiskTierHigh)
	assert.False(t, a.Eligible)
	assert.Less(t, a.Score, 30.0)
	assert.Contains(t, a.FarmingIndicators,
		"Review counts given and received are nearly identical, a classic exchange pattern")
	assert.Contains(t, a.FarmingIndicators,
		"Vouches given and received are nearly symmetric at high volume")
	assert.Contains(t, a.FarmingIndicators,
		"Given and received review counts track each other at high volume")
}

func TestAssessReviewMill(t *testing.T) {
	t.Parallel()

	c := newChecker(t)
	stats := &types.InteractionStats{
		ReviewsGiven: types.ReviewCounts{Positive: 150},
	}

	a := c.Assess(&types.Profile{ID: 3003}, stats, nil)

	assert.Equal(t, types.RiskTierCritical, a.RiskTier)
	assert.False(t, a.Eligible)
	assert.Zero(t, a.Score)
	assert.Contains(t, a.FarmingIndicators,
		"Industrial-scale review output characteristic of a review mill")
}

func TestAssessMissingStats(t *testing.T) {
	t.Parallel()

	c := newChecker(t)

	a := c.Assess(&types.Profile{ID: 4004}, nil, nil)

	assert.Equal(t, int64(4004), a.ProfileID)
	assert.Zero(t, a.Score)
	assert.Equal(t, types.RiskTierHigh, a.RiskTier)
	assert.False(t, a.Eligible)
	assert.Empty(t, a.FarmingIndicators)
	assert.Empty(t, a.PositiveFactors)
	require.Len(t, a.Recommendations, 1)
	assert.Contains(t, a.Recommendations[0], "Insufficient data")
}

func TestAssessZeroActivity(t *testing.T) {
	t.Parallel()

	c := newChecker(t)

	a := c.Assess(&types.Profile{ID: 5005}, &types.InteractionStats{}, nil)

	assert.False(t, math.IsNaN(a.Score))
	assert.False(t, math.IsInf(a.Score, 0))
	assert.Zero(t, a.Score)
	assert.Equal(t, types.RiskTierLow, a.RiskTier)
	assert.False(t, a.Eligible, "a blank profile has not earned eligibility")
	assert.Empty(t, a.FarmingIndicators)
}

func TestAssessScoreBounds(t *testing.T) {
	t.Parallel()

	c := newChecker(t)

	t.Run("positives clamp at one hundred", func(t *testing.T) {
		t.Parallel()

		profile, stats := cleanProfile()
		a := c.Assess(profile, stats, nil)
		assert.Equal(t, 100.0, a.Score)
	})

	t.Run("deductions clamp at zero", func(t *testing.T) {
		t.Parallel()

		profile, stats := farmProfile()
		a := c.Assess(profile, stats, nil)
		assert.GreaterOrEqual(t, a.Score, 0.0)
	})
}

func TestAssessDeterminism(t *testing.T) {
	t.Parallel()

	c := newChecker(t)
	profile, stats := farmProfile()

	first := c.Assess(profile, stats, nil)
	second := c.Assess(profile, stats, nil)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.RiskTier, second.RiskTier)
	assert.Equal(t, first.Eligible, second.Eligible)
	assert.Equal(t, first.FarmingIndicators, second.FarmingIndicators)
	assert.Equal(t, first.PositiveFactors, second.PositiveFactors)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}

func TestAssessReviewerEnrichment(t *testing.T) {
	t.Parallel()

	c := newChecker(t)
	profile, stats := cleanProfile()

	t.Run("reputable reviewers add a positive factor", func(t *testing.T) {
		t.Parallel()

		reviewer := &types.ReviewerReputation{
			ReviewerCount:              6,
			AverageReviewerCredibility: 1200,
			HighRepPercentage:          83,
		}

		a := c.Assess(profile, stats, reviewer)

		assert.Contains(t, a.PositiveFactors,
			"Reviews come predominantly from high-reputation accounts")
	})

	t.Run("low reputation reviewers raise the tier", func(t *testing.T) {
		t.Parallel()

		reviewer := &types.ReviewerReputation{
			ReviewerCount:              6,
			AverageReviewerCredibility: 40,
			LowRepPercentage:           67,
		}

		a := c.Assess(profile, stats, reviewer)

		assert.GreaterOrEqual(t, a.RiskTier, types.RiskTierHigh)
		assert.False(t, a.Eligible)
		assert.Contains(t, a.FarmingIndicators,
			"Majority of reviewers have low credibility, consistent with a farming ring")
	})
}

func TestAssessRecommendations(t *testing.T) {
	t.Parallel()

	c := newChecker(t)

	t.Run("healthy profile gets encouragement", func(t *testing.T) {
		t.Parallel()

		profile, stats := cleanProfile()
		a := c.Assess(profile, stats, nil)

		assert.Contains(t, a.Recommendations,
			"Healthy interaction profile: current review habits look organic")
	})

	t.Run("new account gets improvement tips", func(t *testing.T) {
		t.Parallel()

		a := c.Assess(&types.Profile{ID: 6006}, &types.InteractionStats{}, nil)

		assert.Contains(t, a.Recommendations,
			"Start giving thoughtful reviews to build a balanced interaction history")
		assert.Contains(t, a.Recommendations,
			"Increase platform engagement beyond reviews to strengthen the profile")
		assert.Contains(t, a.Recommendations,
			"Build credibility through sustained genuine activity before seeking reviews")
	})
}
