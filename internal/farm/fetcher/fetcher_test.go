package fetcher

import (
	"testing"

	"github.com/revlyx/revector/internal/ethos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeReviewers(t *testing.T) {
	t.Parallel()

	t.Run("empty sample yields no summary", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, summarizeReviewers(nil))
		assert.Nil(t, summarizeReviewers([]*ethos.Review{}))
	})

	t.Run("buckets distinct authors by credibility", func(t *testing.T) {
		t.Parallel()

		reviews := []*ethos.Review{
			{AuthorProfileID: 1, AuthorScore: 50},
			{AuthorProfileID: 2, AuthorScore: 500},
			{AuthorProfileID: 3, AuthorScore: 1200},
			{AuthorProfileID: 4, AuthorScore: 1450},
		}

		summary := summarizeReviewers(reviews)
		require.NotNil(t, summary)

		assert.Equal(t, 4, summary.ReviewerCount)
		assert.InDelta(t, 800, summary.AverageReviewerCredibility, 1e-9)
		assert.InDelta(t, 25, summary.LowRepPercentage, 1e-9)
		assert.InDelta(t, 50, summary.HighRepPercentage, 1e-9)
	})

	t.Run("repeat authors count once with their latest score", func(t *testing.T) {
		t.Parallel()

		reviews := []*ethos.Review{
			{AuthorProfileID: 7, AuthorScore: 1100},
			{AuthorProfileID: 7, AuthorScore: 90},
			{AuthorProfileID: 8, AuthorScore: 300},
		}

		summary := summarizeReviewers(reviews)
		require.NotNil(t, summary)

		assert.Equal(t, 2, summary.ReviewerCount)
		assert.InDelta(t, 700, summary.AverageReviewerCredibility, 1e-9)
		assert.InDelta(t, 0, summary.LowRepPercentage, 1e-9)
		assert.InDelta(t, 50, summary.HighRepPercentage, 1e-9)
	})
}
