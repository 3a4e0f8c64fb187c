package database

import (
	"github.com/revlyx/revector/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	profile    *models.ProfileModel
	assessment *models.AssessmentModel
	stats      *models.StatsModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		profile:    models.NewProfile(db, logger),
		assessment: models.NewAssessment(db, logger),
		stats:      models.NewStats(db, logger),
	}
}

// Profile returns the profile model repository.
func (r *Repository) Profile() *models.ProfileModel {
	return r.profile
}

// Assessment returns the assessment model repository.
func (r *Repository) Assessment() *models.AssessmentModel {
	return r.assessment
}

// Stats returns the stats model repository.
func (r *Repository) Stats() *models.StatsModel {
	return r.stats
}
