// Package fetcher retrieves profile data from the Ethos API in bounded
// concurrent batches and shapes it for assessment.
package fetcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/revlyx/revector/internal/database/types"
	"github.com/revlyx/revector/internal/ethos"
	"github.com/revlyx/revector/pkg/throttle"
	"github.com/revlyx/revector/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// reviewSampleSize is how many recent received reviews are sampled for
// reviewer-reputation enrichment.
const reviewSampleSize = 50

// Reviewer credibility bucket bounds for the reputation summary.
const (
	lowReviewerScore  = 100
	highReviewerScore = 1000
)

// Result bundles everything the checker needs for one profile. Stats and
// Reviewer may be nil when the corresponding fetch failed.
type Result struct {
	Profile  *types.Profile
	Stats    *types.InteractionStats
	Reviewer *types.ReviewerReputation
}

// ProfileFetcher handles concurrent retrieval of profile information from the
// Ethos API. Batch admission goes through a shared runner so the total number
// of in-flight profiles stays bounded across callers.
type ProfileFetcher struct {
	ethos  *ethos.Client
	runner *throttle.Runner
	logger *zap.Logger
}

// NewProfileFetcher creates a ProfileFetcher that fetches at most
// maxConcurrent profiles at a time.
func NewProfileFetcher(ethosClient *ethos.Client, maxConcurrent int, logger *zap.Logger) (*ProfileFetcher, error) {
	runner, err := throttle.New(maxConcurrent)
	if err != nil {
		return nil, err
	}

	return &ProfileFetcher{
		ethos:  ethosClient,
		runner: runner,
		logger: logger.Named("profile_fetcher"),
	}, nil
}

// FetchBatch retrieves complete information for a batch of profile IDs.
// Profiles that do not exist or fail to fetch are dropped from the result.
func (f *ProfileFetcher) FetchBatch(ctx context.Context, profileIDs []int64) []*Result {
	tasks := make([]*throttle.Task[*Result], 0, len(profileIDs))
	for _, id := range profileIDs {
		tasks = append(tasks, throttle.Go(f.runner, func() (*Result, error) {
			return f.fetchOne(ctx, id)
		}))
	}

	results := make([]*Result, 0, len(profileIDs))

	for i, task := range tasks {
		result, err := task.Wait(ctx)
		if err != nil {
			if !errors.Is(err, ethos.ErrProfileNotFound) {
				f.logger.Error("Error fetching profile",
					zap.Int64("profileID", profileIDs[i]),
					zap.Error(err))
			}

			continue
		}

		results = append(results, result)
	}

	f.logger.Debug("Finished fetching profile information",
		zap.Int("totalRequested", len(profileIDs)),
		zap.Int("successfulFetches", len(results)))

	return results
}

// fetchOne retrieves the profile, its stats and its recent reviews
// concurrently, then assembles a Result.
func (f *ProfileFetcher) fetchOne(ctx context.Context, profileID int64) (*Result, error) {
	var (
		apiProfile *ethos.Profile
		apiStats   *ethos.UserStats
		reviews    []*ethos.Review
		mu         sync.Mutex
	)

	p := pool.New().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		profile, err := f.ethos.GetProfile(ctx, profileID)
		if err != nil {
			return err
		}

		mu.Lock()
		apiProfile = profile
		mu.Unlock()

		return nil
	})

	p.Go(func(ctx context.Context) error {
		stats, err := f.ethos.GetUserStats(ctx, profileID)
		if err != nil {
			// Stats may lag behind profile creation. The checker treats a
			// missing snapshot as insufficient data rather than an error.
			if !errors.Is(err, ethos.ErrProfileNotFound) {
				f.logger.Warn("Failed to fetch interaction stats",
					zap.Int64("profileID", profileID),
					zap.Error(err))
			}

			return nil
		}

		mu.Lock()
		apiStats = stats
		mu.Unlock()

		return nil
	})

	p.Go(func(ctx context.Context) error {
		recent, err := f.ethos.GetRecentReviews(ctx, profileID, reviewSampleSize)
		if err != nil {
			// Reviewer enrichment is optional.
			if !errors.Is(err, ethos.ErrProfileNotFound) {
				f.logger.Warn("Failed to fetch recent reviews",
					zap.Int64("profileID", profileID),
					zap.Error(err))
			}

			return nil
		}

		mu.Lock()
		reviews = recent
		mu.Unlock()

		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	normalizer := utils.NewTextNormalizer()
	now := time.Now()
	result := &Result{
		Profile: &types.Profile{
			ID:               apiProfile.ID,
			Username:         normalizer.Normalize(apiProfile.Username),
			DisplayName:      normalizer.Normalize(apiProfile.DisplayName),
			CredibilityScore: apiProfile.Score,
			XPTotal:          apiProfile.XPTotal,
			LastUpdated:      now,
		},
		Reviewer: summarizeReviewers(reviews),
	}

	if apiStats != nil {
		result.Stats = &types.InteractionStats{
			ProfileID: profileID,
			ReviewsGiven: types.ReviewCounts{
				Positive: apiStats.ReviewsGiven.Positive,
				Neutral:  apiStats.ReviewsGiven.Neutral,
				Negative: apiStats.ReviewsGiven.Negative,
			},
			ReviewsReceived: types.ReviewCounts{
				Positive: apiStats.ReviewsReceived.Positive,
				Neutral:  apiStats.ReviewsReceived.Neutral,
				Negative: apiStats.ReviewsReceived.Negative,
			},
			VouchesGiven:    apiStats.VouchesGiven,
			VouchesReceived: apiStats.VouchesReceived,
			FetchedAt:       now,
		}
	}

	return result, nil
}

// summarizeReviewers reduces a review sample to a reputation summary over the
// distinct authors. Returns nil when the sample is empty.
func summarizeReviewers(reviews []*ethos.Review) *types.ReviewerReputation {
	if len(reviews) == 0 {
		return nil
	}

	// One author may appear several times in the sample. Count each once,
	// using the score from their most recent review.
	seen := make(map[int64]float64, len(reviews))
	for _, review := range reviews {
		if _, ok := seen[review.AuthorProfileID]; !ok {
			seen[review.AuthorProfileID] = review.AuthorScore
		}
	}

	var (
		total   float64
		lowRep  int
		highRep int
	)

	for _, score := range seen {
		total += score

		switch {
		case score < lowReviewerScore:
			lowRep++
		case score >= highReviewerScore:
			highRep++
		}
	}

	count := len(seen)

	return &types.ReviewerReputation{
		AverageReviewerCredibility: total / float64(count),
		LowRepPercentage:           float64(lowRep) / float64(count) * 100,
		HighRepPercentage:          float64(highRep) / float64(count) * 100,
		ReviewerCount:              count,
	}
}
