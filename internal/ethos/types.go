package ethos

import "time"

// Profile is a user profile as returned by the Ethos API.
type Profile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Score       float64   `json:"score"`
	XPTotal     float64   `json:"xpTotal"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SentimentCounts breaks a review count down by sentiment.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// UserStats is the interaction summary for one profile: review counts in both
// directions broken down by sentiment, plus vouch counts.
type UserStats struct {
	ProfileID       int64           `json:"profileId"`
	ReviewsGiven    SentimentCounts `json:"reviewsGiven"`
	ReviewsReceived SentimentCounts `json:"reviewsReceived"`
	VouchesGiven    int             `json:"vouchesGiven"`
	VouchesReceived int             `json:"vouchesReceived"`
}

// Review is one review received by a profile, including the author's
// credibility at fetch time.
type Review struct {
	ID              int64     `json:"id"`
	AuthorProfileID int64     `json:"authorProfileId"`
	AuthorScore     float64   `json:"authorScore"`
	Sentiment       string    `json:"sentiment"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"createdAt"`
}

// reviewsResponse is the paginated envelope around the reviews endpoint.
type reviewsResponse struct {
	Values []*Review `json:"values"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}
