package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/football-elo/internal/models"
)

// TeamRepository defines the interface for team rating data access.
// Methods taking a pgx.Tx participate in the scoring transaction; rating
// reads inside a transaction lock the rows so concurrent scoring events
// touching overlapping teams serialize instead of racing.
type TeamRepository interface {
	Upsert(ctx context.Context, team *models.Team) error
	GetByName(ctx context.Context, name string) (*models.Team, error)
	GetAll(ctx context.Context) ([]*models.Team, error)
	GetRatings(ctx context.Context) (map[string]float64, error)
	GetRatingForUpdate(ctx context.Context, tx pgx.Tx, name string) (float64, error)
	UpdateRating(ctx context.Context, tx pgx.Tx, name string, rating float64) error
	ResetRatings(ctx context.Context) error
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	GetPending(ctx context.Context) ([]*models.Match, error)
	GetCompleted(ctx context.Context, seasonYear int) ([]*models.Match, error)
	RecordCompletion(ctx context.Context, tx pgx.Tx, match *models.Match) error
	UpdateEloTrail(ctx context.Context, match *models.Match) error
	ResetCompletions(ctx context.Context) error
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	GetAll(ctx context.Context) ([]*models.Prediction, error)
	GetByMatchID(ctx context.Context, matchID uuid.UUID) (*models.Prediction, error)
	ReplaceAll(ctx context.Context, predictions []*models.Prediction) error
	DeleteByMatchID(ctx context.Context, tx pgx.Tx, matchID uuid.UUID) error
}

// ParameterRepository defines the interface for the tunable parameter set
type ParameterRepository interface {
	Get(ctx context.Context) (*models.ParameterSet, error)
	Save(ctx context.Context, params *models.ParameterSet) error
}
