// Package types defines the JSON shapes served by the REST API.
package types

import "time"

// RiskTier labels an assessment's farming-risk band.
type RiskTier string

const (
	RiskTierLow      RiskTier = "low"
	RiskTierMedium   RiskTier = "medium"
	RiskTierHigh     RiskTier = "high"
	RiskTierCritical RiskTier = "critical"
)

// Profile represents basic profile information attached to an assessment.
type Profile struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"displayName"`
	CredibilityScore float64   `json:"credibilityScore"`
	XPTotal          float64   `json:"xpTotal"`
	LastScanned      time.Time `json:"lastScanned"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// Assessment represents one farming-risk assessment.
type Assessment struct {
	ProfileID         int64     `json:"profileId"`
	Score             float64   `json:"score"`
	RiskTier          RiskTier  `json:"riskTier"`
	FarmingIndicators []string  `json:"farmingIndicators"`
	PositiveFactors   []string  `json:"positiveFactors"`
	Recommendations   []string  `json:"recommendations"`
	Eligible          bool      `json:"eligible"`
	AssessedAt        time.Time `json:"assessedAt"`
}

// GetAssessmentResponse represents the response for the get assessment
// endpoint.
type GetAssessmentResponse struct {
	Assessment *Assessment `json:"assessment"`
	Profile    *Profile    `json:"profile,omitempty"`
}

// LeaderboardEntry represents one row of the eligibility leaderboard.
type LeaderboardEntry struct {
	Rank       int         `json:"rank"`
	Assessment *Assessment `json:"assessment"`
}

// GetLeaderboardResponse represents the response for the leaderboard
// endpoint.
type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// HourlyTierStats represents one hour of aggregated tier counts.
type HourlyTierStats struct {
	Hour          time.Time `json:"hour"`
	LowCount      int64     `json:"lowCount"`
	MediumCount   int64     `json:"mediumCount"`
	HighCount     int64     `json:"highCount"`
	CriticalCount int64     `json:"criticalCount"`
	AverageScore  float64   `json:"averageScore"`
}

// ScoreBucket represents one bar of the score histogram.
type ScoreBucket struct {
	Lower int   `json:"lower"`
	Upper int   `json:"upper"`
	Count int64 `json:"count"`
}

// GetStatsResponse represents the response for the stats endpoint.
type GetStatsResponse struct {
	Hourly       []HourlyTierStats `json:"hourly"`
	Distribution []ScoreBucket     `json:"distribution"`
}
