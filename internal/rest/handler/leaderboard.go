package handler

import (
	"net/http"
	"strconv"

	"github.com/revlyx/revector/internal/database"
	"github.com/revlyx/revector/internal/rest/convert"
	restTypes "github.com/revlyx/revector/internal/rest/types"
	"github.com/revlyx/revector/internal/setup/config"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// LeaderboardHandler handles the eligibility leaderboard endpoint.
type LeaderboardHandler struct {
	db              database.Client
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
}

// NewLeaderboard creates a new leaderboard handler.
func NewLeaderboard(db database.Client, serverConfig *config.Server, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		db:              db,
		logger:          logger,
		defaultPageSize: serverConfig.DefaultPageSize,
		maxPageSize:     serverConfig.MaxPageSize,
	}
}

// GetLeaderboard serves the highest-scoring eligible profiles.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, req bunrouter.Request) error {
	limit := h.defaultPageSize

	if raw := req.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return nil
		}

		limit = min(parsed, h.maxPageSize)
	}

	assessments, err := h.db.Model().Assessment().GetLeaderboard(req.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get leaderboard", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	entries := make([]restTypes.LeaderboardEntry, 0, len(assessments))
	for i, assessment := range assessments {
		entries = append(entries, restTypes.LeaderboardEntry{
			Rank:       i + 1,
			Assessment: convert.Assessment(assessment),
		})
	}

	return bunrouter.JSON(w, restTypes.GetLeaderboardResponse{Entries: entries})
}
