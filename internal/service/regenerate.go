package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/football-elo/internal/metrics"
	"github.com/yourusername/football-elo/internal/models"
	"github.com/yourusername/football-elo/internal/prediction"
	"github.com/yourusername/football-elo/internal/rating"
	"github.com/yourusername/football-elo/internal/repository"
)

// PredictionService regenerates the full prediction set from the current
// rating table. Regeneration is always total: predictions are a pure
// function of current ratings, the pending fixture list and the parameter
// set, so replacing everything keeps the stored set trivially consistent.
type PredictionService struct {
	repos  *repository.Repositories
	logger *logrus.Logger
}

// NewPredictionService creates a new prediction service
func NewPredictionService(repos *repository.Repositories, logger *logrus.Logger) *PredictionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &PredictionService{repos: repos, logger: logger}
}

// RegenerateAll recomputes predictions for every pending match and swaps
// them in atomically. Returns the number of predictions written.
func (s *PredictionService) RegenerateAll(ctx context.Context) (int, error) {
	start := time.Now()

	params, err := s.repos.Parameter.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load parameters: %w", err)
	}

	ratings, err := s.repos.Team.GetRatings(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load ratings: %w", err)
	}

	pending, err := s.repos.Match.GetPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending matches: %w", err)
	}

	predictions := BuildPredictions(pending, ratings, params)

	if err := s.repos.Prediction.ReplaceAll(ctx, predictions); err != nil {
		return 0, fmt.Errorf("failed to replace predictions: %w", err)
	}

	metrics.PredictionsRegeneratedTotal.Add(float64(len(predictions)))
	metrics.TeamsTracked.Set(float64(len(ratings)))
	metrics.PendingMatches.Set(float64(len(pending)))
	s.logger.WithFields(logrus.Fields{
		"predictions": len(predictions),
		"duration":    time.Since(start).String(),
	}).Info("Predictions regenerated")

	return len(predictions), nil
}

// BuildPredictions computes prediction rows for the given pending matches
// without touching storage. Unrated teams fall back to the default initial
// rating through the central policy.
func BuildPredictions(pending []*models.Match, ratings map[string]float64, params *models.ParameterSet) []*models.Prediction {
	now := time.Now().UTC()
	predictions := make([]*models.Prediction, 0, len(pending))

	for _, match := range pending {
		homeElo := rating.RatingOrDefault(ratings, match.HomeTeamName)
		awayElo := rating.RatingOrDefault(ratings, match.AwayTeamName)

		outcome := prediction.Predict(homeElo, awayElo, params)

		predictions = append(predictions, &models.Prediction{
			ID:              uuid.New(),
			MatchID:         match.ID,
			EventID:         match.EventID,
			HomeElo:         homeElo,
			AwayElo:         awayElo,
			HomeWinProb:     outcome.HomeWinProb,
			DrawProb:        outcome.DrawProb,
			AwayWinProb:     outcome.AwayWinProb,
			HomeOrDrawProb:  outcome.HomeOrDrawProb,
			AwayOrDrawProb:  outcome.AwayOrDrawProb,
			RecommendedBet:  outcome.RecommendedBet,
			RecommendedProb: outcome.RecommendedProb,
			Confidence:      outcome.Confidence,
			PredictedAt:     now,
		})
	}

	return predictions
}
