package checker

import (
	"math"

	"github.com/revlyx/revector/internal/database/types"
)

// metrics holds the counters derived from a profile and its interaction
// snapshot. Every rule predicate reads from this struct only, so deriving it
// once up front keeps the rule battery a single linear pass.
type metrics struct {
	totalGiven       float64
	totalReceived    float64
	positiveGiven    float64
	neutralGiven     float64
	negativeGiven    float64
	positiveReceived float64
	neutralReceived  float64
	negativeReceived float64

	// reciprocity is received/given, 0 when nothing was given.
	reciprocity float64
	// mutual approximates exchanged pairs as min(given, received).
	mutual float64

	vouchesGiven    float64
	vouchesReceived float64

	credibility float64
	xp          float64

	// Percentages are expressed 0-100.
	positiveReceivedPct float64
	negativeReceivedPct float64
	positiveGivenPct    float64

	reviewer *types.ReviewerReputation
}

// deriveMetrics normalizes raw inputs into the counters the rules consume.
// Negative or non-finite values are coerced to 0 so the checker never has to
// handle malformed input mid-rule.
func deriveMetrics(
	profile *types.Profile, stats *types.InteractionStats, reviewer *types.ReviewerReputation,
) *metrics {
	m := &metrics{
		positiveGiven:    clampCount(stats.ReviewsGiven.Positive),
		neutralGiven:     clampCount(stats.ReviewsGiven.Neutral),
		negativeGiven:    clampCount(stats.ReviewsGiven.Negative),
		positiveReceived: clampCount(stats.ReviewsReceived.Positive),
		neutralReceived:  clampCount(stats.ReviewsReceived.Neutral),
		negativeReceived: clampCount(stats.ReviewsReceived.Negative),
		vouchesGiven:     clampCount(stats.VouchesGiven),
		vouchesReceived:  clampCount(stats.VouchesReceived),
		reviewer:         reviewer,
	}

	if profile != nil {
		m.credibility = clampValue(profile.CredibilityScore)
		m.xp = clampValue(profile.XPTotal)
	}

	m.totalGiven = m.positiveGiven + m.neutralGiven + m.negativeGiven
	m.totalReceived = m.positiveReceived + m.neutralReceived + m.negativeReceived
	m.reciprocity = safeRatio(m.totalReceived, m.totalGiven)
	m.mutual = math.Min(m.totalGiven, m.totalReceived)
	m.positiveReceivedPct = safePercent(m.positiveReceived, m.totalReceived)
	m.negativeReceivedPct = safePercent(m.negativeReceived, m.totalReceived)
	m.positiveGivenPct = safePercent(m.positiveGiven, m.totalGiven)

	return m
}

// expectedCredibility estimates a conservative credibility score for a given
// review volume. Profiles scoring far above it are treated as inflated.
func expectedCredibility(totalReceived float64) float64 {
	return math.Min(50+20*totalReceived, 1500)
}

// clampCount coerces a raw count to a non-negative float.
func clampCount(n int) float64 {
	if n < 0 {
		return 0
	}

	return float64(n)
}

// clampValue coerces a raw score to a finite non-negative float.
func clampValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}

	return v
}

// safeRatio divides num by den, returning 0 for a zero denominator.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}

	return num / den
}

// safePercent returns part/whole as a 0-100 percentage, 0 for an empty whole.
func safePercent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}

	return part / whole * 100
}
