// Package convert maps database types to their REST API representations.
package convert

import (
	dbTypes "github.com/revlyx/revector/internal/database/types"
	restTypes "github.com/revlyx/revector/internal/rest/types"
)

// RiskTier converts a database risk tier to its REST API representation.
func RiskTier(tier dbTypes.RiskTier) restTypes.RiskTier {
	switch tier {
	case dbTypes.RiskTierLow:
		return restTypes.RiskTierLow
	case dbTypes.RiskTierMedium:
		return restTypes.RiskTierMedium
	case dbTypes.RiskTierHigh:
		return restTypes.RiskTierHigh
	case dbTypes.RiskTierCritical:
		return restTypes.RiskTierCritical
	default:
		return restTypes.RiskTierHigh
	}
}

// Assessment converts a database assessment to its REST API representation.
func Assessment(assessment *dbTypes.Assessment) *restTypes.Assessment {
	if assessment == nil {
		return nil
	}

	return &restTypes.Assessment{
		ProfileID:         assessment.ProfileID,
		Score:             assessment.Score,
		RiskTier:          RiskTier(assessment.RiskTier),
		FarmingIndicators: emptyIfNil(assessment.FarmingIndicators),
		PositiveFactors:   emptyIfNil(assessment.PositiveFactors),
		Recommendations:   emptyIfNil(assessment.Recommendations),
		Eligible:          assessment.Eligible,
		AssessedAt:        assessment.AssessedAt,
	}
}

// Profile converts a database profile to its REST API representation.
func Profile(profile *dbTypes.Profile) *restTypes.Profile {
	if profile == nil {
		return nil
	}

	return &restTypes.Profile{
		ID:               profile.ID,
		Username:         profile.Username,
		DisplayName:      profile.DisplayName,
		CredibilityScore: profile.CredibilityScore,
		XPTotal:          profile.XPTotal,
		LastScanned:      profile.LastScanned,
		LastUpdated:      profile.LastUpdated,
	}
}

// HourlyTierStats converts a database hourly snapshot to its REST API
// representation.
func HourlyTierStats(stats *dbTypes.HourlyTierStats) restTypes.HourlyTierStats {
	return restTypes.HourlyTierStats{
		Hour:          stats.Hour,
		LowCount:      stats.LowCount,
		MediumCount:   stats.MediumCount,
		HighCount:     stats.HighCount,
		CriticalCount: stats.CriticalCount,
		AverageScore:  stats.AverageScore,
	}
}

// ScoreBucket converts a database histogram bucket to its REST API
// representation.
func ScoreBucket(bucket dbTypes.ScoreBucket) restTypes.ScoreBucket {
	return restTypes.ScoreBucket{
		Lower: bucket.Lower,
		Upper: bucket.Upper,
		Count: bucket.Count,
	}
}

// JSON arrays should never be null in responses.
func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
