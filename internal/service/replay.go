package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/football-elo/internal/metrics"
	"github.com/yourusername/football-elo/internal/models"
	"github.com/yourusername/football-elo/internal/rating"
	"github.com/yourusername/football-elo/internal/repository"
)

// ReplayReport summarises a full history replay.
type ReplayReport struct {
	MatchesReplayed int                `json:"matches_replayed"`
	FinalRatings    map[string]float64 `json:"final_ratings"`
	Duration        string             `json:"duration"`
}

// ReplayService rebuilds the entire rating trajectory from scratch. Replay
// is the consistency anchor of the model: applying results one at a time
// must land on exactly the same ratings as one full pass, so the replay can
// always repair state after a correction or parameter review.
type ReplayService struct {
	repos       *repository.Repositories
	predictions *PredictionService
	logger      *logrus.Logger
}

// NewReplayService creates a new replay service
func NewReplayService(repos *repository.Repositories, predictions *PredictionService, logger *logrus.Logger) *ReplayService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ReplayService{repos: repos, predictions: predictions, logger: logger}
}

// ReplayHistory resets every team to its starting rating and replays all
// completed matches in chronological order, rewriting each match's rating
// snapshots and every team's current rating, then regenerates predictions.
func (s *ReplayService) ReplayHistory(ctx context.Context) (*ReplayReport, error) {
	start := time.Now()

	params, err := s.repos.Parameter.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}

	teams, err := s.repos.Team.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	completed, err := s.repos.Match.GetCompleted(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed matches: %w", err)
	}

	// Clear the persisted state up front. An interrupted replay then leaves
	// visibly reset ratings and empty trails rather than a stale mix of old
	// and recomputed values.
	if err := s.repos.Team.ResetRatings(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset ratings: %w", err)
	}
	if err := s.repos.Match.ResetCompletions(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset match trails: %w", err)
	}

	ratings := make(map[string]float64, len(teams))
	for _, team := range teams {
		ratings[team.Name] = team.StartingRating()
	}

	replayed, err := ReplayMatches(completed, ratings, params)
	if err != nil {
		return nil, err
	}

	for _, match := range replayed {
		if err := s.repos.Match.UpdateEloTrail(ctx, match); err != nil {
			return nil, fmt.Errorf("failed to persist trail for match %s: %w", match.ID, err)
		}
	}

	for _, team := range teams {
		team.CurrentRating = ratings[team.Name]
		if err := s.repos.Team.Upsert(ctx, team); err != nil {
			return nil, fmt.Errorf("failed to persist rating for %s: %w", team.Name, err)
		}
	}

	if _, err := s.predictions.RegenerateAll(ctx); err != nil {
		return nil, fmt.Errorf("replay committed but prediction regeneration failed: %w", err)
	}

	duration := time.Since(start)
	metrics.ReplayDurationSeconds.Observe(duration.Seconds())
	s.logger.WithFields(logrus.Fields{
		"matches":  len(replayed),
		"teams":    len(teams),
		"duration": duration.String(),
	}).Info("History replay completed")

	return &ReplayReport{
		MatchesReplayed: len(replayed),
		FinalRatings:    ratings,
		Duration:        duration.String(),
	}, nil
}

// ReplayMatches runs the rating engine over an ordered slice of completed
// matches, mutating the ratings map and returning the matches with their
// recomputed rating snapshots. Pure with respect to storage.
func ReplayMatches(completed []*models.Match, ratings map[string]float64, params *models.ParameterSet) ([]*models.Match, error) {
	replayed := make([]*models.Match, 0, len(completed))

	for _, match := range completed {
		if match.HomeScore == nil || match.AwayScore == nil {
			return nil, fmt.Errorf("completed match %s has no score", match.ID)
		}
		homeScore, awayScore := *match.HomeScore, *match.AwayScore
		homePre := rating.RatingOrDefault(ratings, match.HomeTeamName)
		awayPre := rating.RatingOrDefault(ratings, match.AwayTeamName)

		homeResult, awayResult := models.ClassifyResult(homeScore, awayScore)

		homeChange, err := rating.Calculate(rating.Input{
			TeamRating:     homePre,
			OpponentRating: awayPre,
			Result:         homeResult,
			GoalsScored:    homeScore,
			GoalsConceded:  awayScore,
			IsHome:         true,
		}, params)
		if err != nil {
			return nil, fmt.Errorf("replay failed at match %s: %w", match.ID, err)
		}

		awayChange, err := rating.Calculate(rating.Input{
			TeamRating:     awayPre,
			OpponentRating: homePre,
			Result:         awayResult,
			GoalsScored:    awayScore,
			GoalsConceded:  homeScore,
			IsHome:         false,
		}, params)
		if err != nil {
			return nil, fmt.Errorf("replay failed at match %s: %w", match.ID, err)
		}

		homePost := models.RoundRating(homePre + homeChange.Delta)
		awayPost := models.RoundRating(awayPre + awayChange.Delta)

		match.HomeEloPre = &homePre
		match.AwayEloPre = &awayPre
		match.HomeEloDelta = &homeChange.Delta
		match.AwayEloDelta = &awayChange.Delta
		match.HomeEloPost = &homePost
		match.AwayEloPost = &awayPost

		ratings[match.HomeTeamName] = homePost
		ratings[match.AwayTeamName] = awayPost

		replayed = append(replayed, match)
	}

	return replayed, nil
}
