// Package rest wires the HTTP API together.
package rest

import (
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/revlyx/revector/internal/database"
	"github.com/revlyx/revector/internal/farm/fetcher"
	"github.com/revlyx/revector/internal/rest/handler"
	"github.com/revlyx/revector/internal/setup/config"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the REST API service.
type Server struct {
	assessmentHandler  *handler.AssessmentHandler
	leaderboardHandler *handler.LeaderboardHandler
	statsHandler       *handler.StatsHandler
}

// NewServer creates a new REST API server.
func NewServer(
	db database.Client, profileFetcher *fetcher.ProfileFetcher, apiConfig *config.APIConfig, logger *zap.Logger,
) (http.Handler, error) {
	// Create server instance with handlers
	server := &Server{
		assessmentHandler:  handler.NewAssessment(db, profileFetcher, logger),
		leaderboardHandler: handler.NewLeaderboard(db, &apiConfig.Server, logger),
		statsHandler:       handler.NewStats(db, logger),
	}

	// Create base router
	router := bunrouter.New()

	// Create API routes group
	router.Use(requestLogger(logger)).WithGroup("/v1", func(g *bunrouter.Group) {
		g.GET("/profiles/:id/assessment", server.assessmentHandler.GetAssessment)
		g.GET("/leaderboard", server.leaderboardHandler.GetLeaderboard)
		g.GET("/stats", server.statsHandler.GetStats)
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router), nil
}

// requestLogger logs one line per request with method, path, and duration.
func requestLogger(logger *zap.Logger) bunrouter.MiddlewareFunc {
	requestLog := logger.Named("http_request")

	return func(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
		return func(w http.ResponseWriter, req bunrouter.Request) error {
			start := time.Now()
			err := next(w, req)

			requestLog.Debug("Handled request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err))

			return err
		}
	}
}
