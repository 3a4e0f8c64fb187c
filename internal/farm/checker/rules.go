package checker

import (
	"math"

	"github.com/revlyx/revector/internal/database/types"
)

const (
	// eligibilityMinScore is the minimum score required for R4R eligibility.
	eligibilityMinScore = 30

	// acceptableMutualLimit is the mutual-review count still considered
	// normal social behavior rather than coordinated exchange.
	acceptableMutualLimit = 8

	// lowReviewerCredibility and highReviewerCredibility bound the buckets
	// used when reviewer-reputation enrichment is available.
	lowReviewerCredibility  = 100
	highReviewerCredibility = 1000
)

// farmingRule is one suspicion heuristic. Rules are independent and additive:
// every rule whose predicate holds appends its message, deducts its points and
// raises the risk tier to at least its floor. No rule short-circuits another.
type farmingRule struct {
	name    string
	when    func(m *metrics) bool
	points  float64
	floor   types.RiskTier
	message string
}

// positiveRule adds points for healthy behavior. Predicates may consult the
// indicators already triggered and the tier reached so far.
type positiveRule struct {
	name    string
	when    func(m *metrics, indicators int, tier types.RiskTier) bool
	points  float64
	message string
}

// farmingRules is the full suspicion battery, evaluated in order.
var farmingRules = []farmingRule{
	{
		name:    "perfect_reciprocity",
		when:    func(m *metrics) bool { return m.totalGiven > 5 && math.Abs(m.reciprocity-1) < 0.1 },
		points:  30,
		floor:   types.RiskTierHigh,
		message: "Review counts given and received are nearly identical, a classic exchange pattern",
	},
	{
		name: "high_volume_low_quality",
		when: func(m *metrics) bool {
			return m.totalGiven > 20 && m.totalReceived > 20 && safeRatio(m.credibility, m.totalReceived) < 20
		},
		points:  25,
		floor:   types.RiskTierHigh,
		message: "High review volume with disproportionately low credibility per review",
	},
	{
		name:    "mutual_activity_extreme",
		when:    func(m *metrics) bool { return m.mutual > 30 },
		points:  40,
		floor:   types.RiskTierCritical,
		message: "Extreme mutual review activity far beyond organic interaction levels",
	},
	{
		name:    "mutual_activity_heavy",
		when:    func(m *metrics) bool { return m.mutual > 20 && m.mutual <= 30 },
		points:  25,
		floor:   types.RiskTierHigh,
		message: "Heavy mutual review activity suggesting systematic exchange",
	},
	{
		name:    "mutual_activity_elevated",
		when:    func(m *metrics) bool { return m.mutual > 10 && m.mutual <= 20 },
		points:  15,
		floor:   types.RiskTierMedium,
		message: "Elevated mutual review activity above the acceptable exchange limit",
	},
	{
		name: "symmetric_vouching",
		when: func(m *metrics) bool {
			return m.vouchesGiven > 10 && m.vouchesReceived > 10 &&
				math.Abs(m.vouchesGiven-m.vouchesReceived) < 3
		},
		points:  20,
		floor:   types.RiskTierHigh,
		message: "Vouches given and received are nearly symmetric at high volume",
	},
	{
		name: "low_xp_per_review",
		when: func(m *metrics) bool {
			return m.totalReceived > 10 && safeRatio(m.xp, m.totalReceived) < 1000
		},
		points:  15,
		floor:   types.RiskTierMedium,
		message: "Reviews accumulate much faster than platform experience",
	},
	{
		name:    "zero_negative_at_volume",
		when:    func(m *metrics) bool { return m.totalReceived > 20 && m.negativeReceived == 0 },
		points:  10,
		floor:   types.RiskTierMedium,
		message: "No negative reviews despite substantial review volume",
	},
	{
		name: "rapid_accumulation",
		when: func(m *metrics) bool {
			return m.credibility > 1000 && m.totalReceived > 50 && m.xp < 10000
		},
		points:  20,
		floor:   types.RiskTierHigh,
		message: "Credibility accumulated rapidly relative to platform experience",
	},
	{
		name: "extreme_imbalance",
		when: func(m *metrics) bool {
			if m.totalGiven <= 20 || m.totalReceived <= 20 {
				return false
			}
			lo := math.Min(m.totalGiven, m.totalReceived)
			hi := math.Max(m.totalGiven, m.totalReceived)
			return safeRatio(hi, lo) > 5
		},
		points:  35,
		floor:   types.RiskTierCritical,
		message: "Extreme imbalance between reviews given and received at high volume",
	},
	{
		name: "score_inflation",
		when: func(m *metrics) bool {
			return m.credibility > 1.5*expectedCredibility(m.totalReceived)
		},
		points:  25,
		floor:   types.RiskTierHigh,
		message: "Credibility score far exceeds the expected value for this review volume",
	},
	{
		name:    "engagement_anomaly",
		when:    func(m *metrics) bool { return m.totalGiven > 30 && m.xp < 5000 },
		points:  20,
		floor:   types.RiskTierHigh,
		message: "High outbound review volume with minimal platform engagement",
	},
	{
		name: "vouch_centrality",
		when: func(m *metrics) bool {
			return math.Min(m.vouchesGiven, m.vouchesReceived) > 15
		},
		points:  25,
		floor:   types.RiskTierHigh,
		message: "Profile sits at the center of a dense vouch network in both directions",
	},
	{
		name:    "quality_dilution",
		when:    func(m *metrics) bool { return m.totalGiven > 50 && m.positiveGivenPct > 98 },
		points:  15,
		floor:   types.RiskTierMedium,
		message: "Indiscriminately positive reviewing at scale dilutes review quality",
	},
	{
		name: "sockpuppet_signal",
		when: func(m *metrics) bool {
			return m.vouchesReceived > 10 && safeRatio(m.vouchesReceived, m.totalReceived) > 2
		},
		points:  20,
		floor:   types.RiskTierHigh,
		message: "Vouches received far outnumber reviews received, a sockpuppet-network signal",
	},
	{
		name:    "positive_saturation",
		when:    func(m *metrics) bool { return m.totalReceived >= 20 && m.positiveReceivedPct > 95 },
		points:  15,
		floor:   types.RiskTierMedium,
		message: "Received reviews are over 95% positive, beyond organic satisfaction rates",
	},
	{
		name: "reputation_washing",
		when: func(m *metrics) bool {
			return m.totalReceived > 40 && m.negativeReceived == 0 && m.neutralReceived == 0
		},
		points:  20,
		floor:   types.RiskTierHigh,
		message: "Exclusively positive reviews at scale indicate reputation washing",
	},
	{
		name: "behavioral_symmetry",
		when: func(m *metrics) bool {
			return m.totalGiven > 15 && m.totalReceived > 15 &&
				math.Abs(m.totalGiven-m.totalReceived) <= 2
		},
		points:  20,
		floor:   types.RiskTierHigh,
		message: "Given and received review counts track each other at high volume",
	},
	{
		name: "exploitation_efficiency",
		when: func(m *metrics) bool {
			return m.totalGiven >= 10 && safeRatio(m.credibility, m.totalGiven) > 100
		},
		points:  15,
		floor:   types.RiskTierMedium,
		message: "Credibility extracted per review given is abnormally efficient",
	},
	{
		name:    "review_mill_given",
		when:    func(m *metrics) bool { return m.totalGiven > 100 },
		points:  50,
		floor:   types.RiskTierCritical,
		message: "Industrial-scale review output characteristic of a review mill",
	},
	{
		name:    "review_mill_received",
		when:    func(m *metrics) bool { return m.totalReceived > 100 },
		points:  50,
		floor:   types.RiskTierCritical,
		message: "Industrial-scale review intake characteristic of a review mill",
	},
	{
		name:    "neutral_suppression",
		when:    func(m *metrics) bool { return m.totalReceived > 30 && m.neutralReceived == 0 },
		points:  10,
		floor:   types.RiskTierMedium,
		message: "No neutral reviews at volume suggests curated sentiment",
	},
	{
		name:    "algorithm_gaming",
		when:    func(m *metrics) bool { return m.credibility > 800 && m.xp < 5000 },
		points:  20,
		floor:   types.RiskTierHigh,
		message: "Credibility score outpaces engagement in a way consistent with score gaming",
	},
	{
		name: "manufactured_consensus",
		when: func(m *metrics) bool {
			return m.totalReceived >= 30 && m.positiveReceivedPct > 90 && m.negativeReceivedPct < 2
		},
		points:  25,
		floor:   types.RiskTierHigh,
		message: "Simultaneously saturated positive and suppressed negative sentiment",
	},
	{
		name: "velocity_anomaly",
		when: func(m *metrics) bool {
			return m.totalReceived > 50 && safeRatio(m.xp, m.totalReceived) < 800
		},
		points:  20,
		floor:   types.RiskTierHigh,
		message: "Review intake velocity outstrips plausible organic engagement",
	},
	{
		name: "one_sided_farming",
		when: func(m *metrics) bool {
			return m.credibility > 1000 && m.totalGiven < 5 && m.totalReceived > 30
		},
		points:  30,
		floor:   types.RiskTierHigh,
		message: "High credibility built almost entirely from received reviews",
	},
	{
		name: "inflation_bubble",
		when: func(m *metrics) bool {
			return m.totalReceived > 10 && safeRatio(m.credibility, m.totalReceived) > 150
		},
		points:  20,
		floor:   types.RiskTierHigh,
		message: "Credibility per received review is inflated beyond platform norms",
	},
	{
		name: "systematic_exchange",
		when: func(m *metrics) bool {
			return m.totalGiven > 40 && m.totalReceived > 40 && math.Abs(m.reciprocity-1) < 0.25
		},
		points:  40,
		floor:   types.RiskTierCritical,
		message: "Near-balanced give and take at very high volume indicates systematic exchange",
	},
	{
		name:    "vouch_volume_ceiling",
		when:    func(m *metrics) bool { return m.vouchesGiven > 50 || m.vouchesReceived > 50 },
		points:  30,
		floor:   types.RiskTierCritical,
		message: "Raw vouch volume exceeds any plausible organic ceiling",
	},
	{
		name: "vouch_review_disproportion",
		when: func(m *metrics) bool {
			vouches := m.vouchesGiven + m.vouchesReceived
			return vouches > 20 && vouches > m.totalGiven+m.totalReceived
		},
		points:  20,
		floor:   types.RiskTierHigh,
		message: "Vouch activity outnumbers review activity, inverting normal platform usage",
	},
	{
		name: "low_reputation_reviewers",
		when: func(m *metrics) bool {
			return m.reviewer != nil && m.reviewer.ReviewerCount > 0 && m.reviewer.LowRepPercentage > 50
		},
		points:  25,
		floor:   types.RiskTierHigh,
		message: "Majority of reviewers have low credibility, consistent with a farming ring",
	},
	{
		name: "weak_reviewer_average",
		when: func(m *metrics) bool {
			return m.reviewer != nil && m.reviewer.ReviewerCount > 0 &&
				m.reviewer.AverageReviewerCredibility < lowReviewerCredibility
		},
		points:  15,
		floor:   types.RiskTierMedium,
		message: "Average reviewer credibility is abnormally low",
	},
}

// positiveRules reward healthy behavior. They run after the suspicion battery
// and are not mutually exclusive with it.
var positiveRules = []positiveRule{
	{
		name: "strong_credibility",
		when: func(m *metrics, indicators int, _ types.RiskTier) bool {
			return m.credibility >= 75 && indicators == 0
		},
		points:  30,
		message: "Strong platform credibility with no farming signals",
	},
	{
		name: "moderate_credibility",
		when: func(m *metrics, indicators int, _ types.RiskTier) bool {
			return m.credibility >= 30 && (m.credibility < 75 || indicators > 0)
		},
		points:  20,
		message: "Established platform credibility",
	},
	{
		name: "healthy_reciprocity",
		when: func(m *metrics, _ int, tier types.RiskTier) bool {
			return m.totalGiven > 0 && m.reciprocity >= 0.3 && m.reciprocity <= 2.0 &&
				tier < types.RiskTierHigh
		},
		points:  20,
		message: "Balanced ratio of reviews given to received",
	},
	{
		name: "quality_over_quantity",
		when: func(m *metrics, _ int, _ types.RiskTier) bool {
			return m.totalReceived > 0 && m.totalReceived <= 10 &&
				safeRatio(m.credibility, m.totalReceived) >= 10
		},
		points:  25,
		message: "Few reviews with high credibility each, favoring quality over quantity",
	},
	{
		name: "high_engagement",
		when: func(m *metrics, _ int, _ types.RiskTier) bool {
			return m.totalReceived > 0 && safeRatio(m.xp, m.totalReceived) >= 2000
		},
		points:  20,
		message: "Platform engagement well above what review counts alone would produce",
	},
	{
		name: "balanced_diversity",
		when: func(m *metrics, _ int, _ types.RiskTier) bool {
			return m.vouchesGiven > 0 && m.vouchesReceived > 0 &&
				m.totalGiven > 0 && m.totalReceived > 0
		},
		points:  15,
		message: "Activity spread across both reviews and vouches in both directions",
	},
	{
		name: "minimal_mutual_activity",
		when: func(m *metrics, _ int, _ types.RiskTier) bool {
			return m.mutual > 0 && m.mutual <= acceptableMutualLimit
		},
		points:  10,
		message: "Mutual review activity stays within the acceptable exchange limit",
	},
	{
		name: "reputable_reviewers",
		when: func(m *metrics, _ int, _ types.RiskTier) bool {
			return m.reviewer != nil && m.reviewer.ReviewerCount > 0 &&
				m.reviewer.HighRepPercentage > 70
		},
		points:  15,
		message: "Reviews come predominantly from high-reputation accounts",
	},
}
