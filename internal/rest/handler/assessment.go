// Package handler contains the REST endpoint implementations.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/revlyx/revector/internal/database"
	"github.com/revlyx/revector/internal/database/types"
	"github.com/revlyx/revector/internal/farm/checker"
	"github.com/revlyx/revector/internal/farm/fetcher"
	"github.com/revlyx/revector/internal/rest/convert"
	restTypes "github.com/revlyx/revector/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// AssessmentHandler handles assessment-related REST endpoints.
type AssessmentHandler struct {
	db      database.Client
	fetcher *fetcher.ProfileFetcher
	checker *checker.Checker
	logger  *zap.Logger
}

// NewAssessment creates a new assessment handler.
func NewAssessment(db database.Client, profileFetcher *fetcher.ProfileFetcher, logger *zap.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		db:      db,
		fetcher: profileFetcher,
		checker: checker.New(logger),
		logger:  logger,
	}
}

// GetAssessment serves the stored assessment for a profile, assessing it live
// when no stored result exists yet.
func (h *AssessmentHandler) GetAssessment(w http.ResponseWriter, req bunrouter.Request) error {
	profileID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil || profileID < 1 {
		http.Error(w, "Invalid profile ID", http.StatusBadRequest)
		return nil
	}

	assessment, err := h.db.Model().Assessment().GetByProfileID(req.Context(), profileID)
	if err != nil {
		if errors.Is(err, types.ErrAssessmentNotFound) {
			return h.assessLive(w, req, profileID)
		}

		h.logger.Error("Failed to get assessment", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	profile, err := h.db.Model().Profile().GetByID(req.Context(), profileID)
	if err != nil && !errors.Is(err, types.ErrProfileNotFound) {
		h.logger.Error("Failed to get profile", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	return bunrouter.JSON(w, restTypes.GetAssessmentResponse{
		Assessment: convert.Assessment(assessment),
		Profile:    convert.Profile(profile),
	})
}

// assessLive fetches a profile from the Ethos API, assesses it, and stores the
// result before responding.
func (h *AssessmentHandler) assessLive(w http.ResponseWriter, req bunrouter.Request, profileID int64) error {
	results := h.fetcher.FetchBatch(req.Context(), []int64{profileID})
	if len(results) == 0 {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return nil
	}

	result := results[0]
	assessment := h.checker.Assess(result.Profile, result.Stats, result.Reviewer)

	if err := h.persistResult(req, result, assessment); err != nil {
		h.logger.Error("Failed to store live assessment", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return nil
	}

	return bunrouter.JSON(w, restTypes.GetAssessmentResponse{
		Assessment: convert.Assessment(assessment),
		Profile:    convert.Profile(result.Profile),
	})
}

func (h *AssessmentHandler) persistResult(req bunrouter.Request, result *fetcher.Result, assessment *types.Assessment) error {
	ctx := req.Context()

	if err := h.db.Model().Profile().SaveProfiles(ctx, []*types.Profile{result.Profile}); err != nil {
		return err
	}

	if result.Stats != nil {
		if err := h.db.Model().Profile().SaveStats(ctx, []*types.InteractionStats{result.Stats}); err != nil {
			return err
		}
	}

	if err := h.db.Model().Assessment().SaveAssessments(ctx, []*types.Assessment{assessment}); err != nil {
		return err
	}

	return h.db.Model().Profile().MarkScanned(ctx, []int64{result.Profile.ID}, time.Now())
}
