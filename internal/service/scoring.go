// Package service contains the scoring pipeline: the orchestration layer
// that keeps match history, current ratings and predictions consistent as
// results arrive.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/football-elo/internal/metrics"
	"github.com/yourusername/football-elo/internal/models"
	"github.com/yourusername/football-elo/internal/rating"
	"github.com/yourusername/football-elo/internal/repository"
)

// Transactor runs a function inside a database transaction, rolling back if
// it returns an error. Satisfied by database.DB.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ScoreUpdate is the published summary of one applied scoring event.
// Prediction carries the snapshot that stood for the match when the score
// arrived, so consumers can show predicted versus actual; nil when no
// prediction was stored.
type ScoreUpdate struct {
	Match         *models.Match      `json:"match"`
	HomeTeam      string             `json:"home_team"`
	AwayTeam      string             `json:"away_team"`
	HomeScore     int                `json:"home_score"`
	AwayScore     int                `json:"away_score"`
	HomeDelta     float64            `json:"home_elo_change"`
	AwayDelta     float64            `json:"away_elo_change"`
	HomeNewRating float64            `json:"home_elo_new"`
	AwayNewRating float64            `json:"away_elo_new"`
	Prediction    *models.Prediction `json:"prediction,omitempty"`
}

// ScoreResult is returned to the caller of ApplyScore. RegenerationError is
// a recoverable secondary failure: the rating update has already committed
// and the caller may retry prediction regeneration independently.
type ScoreResult struct {
	Update             ScoreUpdate   `json:"update"`
	HomeChange         rating.Change `json:"home_calc"`
	AwayChange         rating.Change `json:"away_calc"`
	PredictionsWritten int           `json:"predictions_written"`
	RegenerationError  string        `json:"regeneration_error,omitempty"`
}

// EventSink receives applied scoring events; delivery is best effort and
// must never fail the pipeline.
type EventSink interface {
	PublishScoreUpdate(update ScoreUpdate)
}

// ScoringService applies scoring events: one event is one logical
// transaction over both teams' ratings, the match record and the match's
// prediction, followed by a full prediction regeneration.
type ScoringService struct {
	db          Transactor
	repos       *repository.Repositories
	predictions *PredictionService
	logger      *logrus.Logger
	sinks       []EventSink
}

// NewScoringService creates a new scoring service
func NewScoringService(db Transactor, repos *repository.Repositories, predictions *PredictionService, logger *logrus.Logger) *ScoringService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ScoringService{
		db:          db,
		repos:       repos,
		predictions: predictions,
		logger:      logger,
	}
}

// AddSink registers an event sink for applied scoring events.
func (s *ScoringService) AddSink(sink EventSink) {
	s.sinks = append(s.sinks, sink)
}

// ApplyScore records the final score for a pending match, updates both
// teams' ratings through the rating engine, completes the match record,
// drops its prediction and regenerates the predictions for every remaining
// pending match.
func (s *ScoringService) ApplyScore(ctx context.Context, matchID uuid.UUID, homeScore, awayScore int) (*ScoreResult, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, models.ErrInvalidScore
	}

	params, err := s.repos.Parameter.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}

	match, err := s.repos.Match.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Completed {
		return nil, models.ErrMatchCompleted
	}

	// The match's prediction is deleted inside the transaction; capture it
	// first so the published update can carry predicted versus actual.
	standing, err := s.repos.Prediction.GetByMatchID(ctx, matchID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to load standing prediction: %w", err)
	}

	result := &ScoreResult{}

	err = s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return s.applyInTx(ctx, tx, match, homeScore, awayScore, params, result)
	})
	if err != nil {
		return nil, err
	}
	result.Update.Prediction = standing

	metrics.ScoresAppliedTotal.Inc()
	s.logger.WithFields(logrus.Fields{
		"match_id":   match.ID,
		"home_team":  match.HomeTeamName,
		"away_team":  match.AwayTeamName,
		"score":      fmt.Sprintf("%d-%d", homeScore, awayScore),
		"home_delta": result.Update.HomeDelta,
		"away_delta": result.Update.AwayDelta,
	}).Info("Scoring event applied")

	for _, sink := range s.sinks {
		sink.PublishScoreUpdate(result.Update)
	}

	// Full regeneration: any single result can change either team's rating,
	// which may affect many future pending matches at once. A failure here
	// is secondary; the committed rating update stands.
	written, regenErr := s.predictions.RegenerateAll(ctx)
	if regenErr != nil {
		metrics.RegenerationFailuresTotal.Inc()
		s.logger.WithError(regenErr).Error("Prediction regeneration failed after score update")
		result.RegenerationError = regenErr.Error()
	}
	result.PredictionsWritten = written

	return result, nil
}

func (s *ScoringService) applyInTx(ctx context.Context, tx pgx.Tx, match *models.Match, homeScore, awayScore int, params *models.ParameterSet, result *ScoreResult) error {
	// Lock team rows in lexical order so two concurrent events over
	// overlapping teams cannot deadlock.
	ordered := []string{match.HomeTeamName, match.AwayTeamName}
	if ordered[1] < ordered[0] {
		ordered[0], ordered[1] = ordered[1], ordered[0]
	}
	locked := make(map[string]float64, 2)
	for _, name := range ordered {
		pre, err := s.repos.Team.GetRatingForUpdate(ctx, tx, name)
		if err != nil {
			return err
		}
		locked[name] = pre
	}
	homePre := locked[match.HomeTeamName]
	awayPre := locked[match.AwayTeamName]

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
		return fmt.Errorf("home rating update failed: %w", err)
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
		return fmt.Errorf("away rating update failed: %w", err)
	}

	homePost := models.RoundRating(homePre + homeChange.Delta)
	awayPost := models.RoundRating(awayPre + awayChange.Delta)

	if err := s.repos.Team.UpdateRating(ctx, tx, match.HomeTeamName, homePost); err != nil {
		return err
	}
	if err := s.repos.Team.UpdateRating(ctx, tx, match.AwayTeamName, awayPost); err != nil {
		return err
	}

	now := time.Now().UTC()
	match.Completed = true
	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	match.HomeEloPre = &homePre
	match.AwayEloPre = &awayPre
	match.HomeEloDelta = &homeChange.Delta
	match.AwayEloDelta = &awayChange.Delta
	match.HomeEloPost = &homePost
	match.AwayEloPost = &awayPost
	match.CompletedAt = &now

	if err := s.repos.Match.RecordCompletion(ctx, tx, match); err != nil {
		return err
	}
	if err := s.repos.Prediction.DeleteByMatchID(ctx, tx, match.ID); err != nil {
		return err
	}

	result.Update = ScoreUpdate{
		Match:         match,
		HomeTeam:      match.HomeTeamName,
		AwayTeam:      match.AwayTeamName,
		HomeScore:     homeScore,
		AwayScore:     awayScore,
		HomeDelta:     homeChange.Delta,
		AwayDelta:     awayChange.Delta,
		HomeNewRating: homePost,
		AwayNewRating: awayPost,
	}
	result.HomeChange = homeChange
	result.AwayChange = awayChange

	return nil
}

// CreateFixture registers an upcoming match and regenerates predictions so
// the new fixture gets one straight away. A regeneration failure is
// recoverable in the same way as after a scoring event: the fixture is
// stored and the next regeneration picks it up.
func (s *ScoringService) CreateFixture(ctx context.Context, match *models.Match) (*models.Match, error) {
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}

	if err := s.repos.Match.Create(ctx, match); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"match_id":  match.ID,
		"home_team": match.HomeTeamName,
		"away_team": match.AwayTeamName,
		"date":      match.MatchDate,
	}).Info("Fixture created")

	if _, err := s.predictions.RegenerateAll(ctx); err != nil {
		metrics.RegenerationFailuresTotal.Inc()
		s.logger.WithError(err).Error("Prediction regeneration failed after fixture creation")
	}

	return match, nil
}
