package repository

import (
	"github.com/yourusername/football-elo/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Team       TeamRepository
	Match      MatchRepository
	Prediction PredictionRepository
	Parameter  ParameterRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Team:       NewPostgresTeamRepository(db),
		Match:      NewPostgresMatchRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
		Parameter:  NewPostgresParameterRepository(db),
	}
}
