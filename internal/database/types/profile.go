package types

import (
	"errors"
	"time"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrStatsNotFound   = errors.New("interaction stats not found")
)

// Profile represents one Ethos Network member. Profiles are read-only inputs
// to the farm checker; they are only written when refreshed from the API.
type Profile struct {
	ID               int64     `bun:",pk"      json:"profileId"`
	Username         string    `bun:",notnull" json:"username"`
	DisplayName      string    `bun:",notnull" json:"displayName"`
	CredibilityScore float64   `bun:",notnull" json:"credibilityScore"`
	XPTotal          float64   `bun:",notnull" json:"xpTotal"`
	LastScanned      time.Time `bun:",nullzero" json:"lastScanned"`
	LastUpdated      time.Time `bun:",notnull"  json:"lastUpdated"`
}

// ReviewCounts breaks a review total down by sentiment.
type ReviewCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Total sums all sentiment buckets.
func (c ReviewCounts) Total() int {
	return c.Positive + c.Neutral + c.Negative
}

// InteractionStats is a point-in-time snapshot of a profile's review and
// vouch activity. The checker treats it as immutable.
type InteractionStats struct {
	ProfileID       int64        `bun:",pk"                 json:"profileId"`
	ReviewsGiven    ReviewCounts `bun:",notnull,type:jsonb" json:"reviewsGiven"`
	ReviewsReceived ReviewCounts `bun:",notnull,type:jsonb" json:"reviewsReceived"`
	VouchesGiven    int          `bun:",notnull"            json:"vouchesGiven"`
	VouchesReceived int          `bun:",notnull"            json:"vouchesReceived"`
	FetchedAt       time.Time    `bun:",notnull"            json:"fetchedAt"`
}

// ReviewerReputation aggregates the credibility of the accounts that reviewed
// a profile. Optional enrichment; the checker works without it.
type ReviewerReputation struct {
	AverageReviewerCredibility float64 `json:"averageReviewerCredibility"`
	LowRepPercentage           float64 `json:"lowRepPercentage"`
	HighRepPercentage          float64 `json:"highRepPercentage"`
	ReviewerCount              int     `json:"reviewerCount"`
}
