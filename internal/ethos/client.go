// Package ethos wraps the Ethos Network REST API endpoints the assessment
// pipeline needs: profiles, interaction stats and recent received reviews.
package ethos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/pkg/client"
)

var (
	// ErrProfileNotFound is returned when the API reports no such profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrUnexpectedStatus is returned for any non-success response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// Client makes Ethos API calls through the shared middleware chain.
type Client struct {
	client  *client.Client
	baseURL string
}

// NewClient creates an Ethos API client rooted at baseURL.
func NewClient(c *client.Client, baseURL string) *Client {
	return &Client{
		client:  c,
		baseURL: baseURL,
	}
}

// GetProfile fetches a single profile by ID.
func (c *Client) GetProfile(ctx context.Context, profileID int64) (*Profile, error) {
	resp, err := c.client.NewRequest().
		Method(http.MethodGet).
		URL(fmt.Sprintf("%s/api/v1/profiles/%d", c.baseURL, profileID)).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var profile Profile
	if err := c.decode(resp, &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch profile %d: %w", profileID, err)
	}

	return &profile, nil
}

// GetUserStats fetches the interaction summary for a profile.
func (c *Client) GetUserStats(ctx context.Context, profileID int64) (*UserStats, error) {
	resp, err := c.client.NewRequest().
		Method(http.MethodGet).
		URL(fmt.Sprintf("%s/api/v1/profiles/%d/stats", c.baseURL, profileID)).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var stats UserStats
	if err := c.decode(resp, &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch stats for profile %d: %w", profileID, err)
	}

	return &stats, nil
}

// GetRecentReviews fetches up to limit of the most recent reviews received by
// a profile, newest first.
func (c *Client) GetRecentReviews(ctx context.Context, profileID int64, limit int) ([]*Review, error) {
	resp, err := c.client.NewRequest().
		Method(http.MethodGet).
		URL(c.baseURL+"/api/v1/reviews").
		Query("subjectProfileId", strconv.FormatInt(profileID, 10)).
		Query("limit", strconv.Itoa(limit)).
		Query("orderBy", "newest").
		Do(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reviews reviewsResponse
	if err := c.decode(resp, &reviews); err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for profile %d: %w", profileID, err)
	}

	return reviews.Values, nil
}

// decode checks the response status and unmarshals the body into out.
func (c *Client) decode(resp *http.Response, out any) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrProfileNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
