package handler

import (
	"net/http"

	"github.com/revlyx/revector/internal/database"
	"github.com/revlyx/revector/internal/rest/convert"
	restTypes "github.com/revlyx/revector/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// statsBucketWidth is the histogram bar width served by the stats endpoint.
const statsBucketWidth = 10

// StatsHandler handles the aggregated statistics endpoint.
type StatsHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewStats creates a new stats handler.
func NewStats(db database.Client, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		db:     db,
		logger: logger,
	}
}

// GetStats serves the last 24 hours of tier counts plus the score histogram.
func (h *StatsHandler) GetStats(w http.ResponseWriter, req bunrouter.Request) error {
	hourly, err := h.db.Model().Stats().GetHourlyStats(req.Context())
	if err != nil {
		h.logger.Error("Failed to get hourly stats", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	buckets, err := h.db.Model().Assessment().GetScoreDistribution(req.Context(), statsBucketWidth)
	if err != nil {
		h.logger.Error("Failed to get score distribution", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	response := restTypes.GetStatsResponse{
		Hourly:       make([]restTypes.HourlyTierStats, 0, len(hourly)),
		Distribution: make([]restTypes.ScoreBucket, 0, len(buckets)),
	}

	for _, stat := range hourly {
		response.Hourly = append(response.Hourly, convert.HourlyTierStats(stat))
	}

	for _, bucket := range buckets {
		response.Distribution = append(response.Distribution, convert.ScoreBucket(bucket))
	}

	return bunrouter.JSON(w, response)
}
