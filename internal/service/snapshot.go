package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/football-elo/internal/models"
	"github.com/yourusername/football-elo/internal/prediction"
	"github.com/yourusername/football-elo/internal/repository"
)

const (
	cacheKeyRatings     = "ratings"
	cacheKeyPending     = "pending"
	cacheKeyPredictions = "predictions"

	snapshotTTL = 30 * time.Second
)

// StandingsRow is one line of the league table derived from completed
// matches.
type StandingsRow struct {
	Team         string  `json:"team"`
	Played       int     `json:"played"`
	Wins         int     `json:"wins"`
	Draws        int     `json:"draws"`
	Losses       int     `json:"losses"`
	GoalsFor     int     `json:"goals_for"`
	GoalsAgainst int     `json:"goals_against"`
	GoalDiff     int     `json:"goal_diff"`
	Points       int     `json:"points"`
	Rating       float64 `json:"rating"`
}

// AccuracyTier aggregates recommendation hit rate for one confidence tier.
type AccuracyTier struct {
	Total   int     `json:"total"`
	Hits    int     `json:"hits"`
	HitRate float64 `json:"hit_rate"`
}

// AccuracyReport summarises how often the recommended bet covered the
// realized result, overall and per confidence tier.
type AccuracyReport struct {
	Season  int                     `json:"season"`
	Overall AccuracyTier            `json:"overall"`
	ByTier  map[string]AccuracyTier `json:"by_tier"`
}

// SnapshotService serves read-only snapshots to the presentation layer.
// Hot collections are cached briefly; the cache is flushed whenever a
// scoring event lands.
type SnapshotService struct {
	repos  *repository.Repositories
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(repos *repository.Repositories, logger *logrus.Logger) *SnapshotService {
	if logger == nil {
		logger = logrus.New()
	}
	return &SnapshotService{
		repos:  repos,
		cache:  cache.New(snapshotTTL, 2*snapshotTTL),
		logger: logger,
	}
}

// PublishScoreUpdate implements EventSink: a landed scoring event
// invalidates every cached snapshot.
func (s *SnapshotService) PublishScoreUpdate(ScoreUpdate) {
	s.cache.Flush()
}

// Ratings returns all teams ordered strongest first.
func (s *SnapshotService) Ratings(ctx context.Context) ([]*models.Team, error) {
	if cached, found := s.cache.Get(cacheKeyRatings); found {
		return cached.([]*models.Team), nil
	}

	teams, err := s.repos.Team.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKeyRatings, teams, cache.DefaultExpiration)
	return teams, nil
}

// Team returns one team by name, cached under its own key so a busy team
// page does not dodge the snapshot cache.
func (s *SnapshotService) Team(ctx context.Context, name string) (*models.Team, error) {
	key := "team:" + name
	if cached, found := s.cache.Get(key); found {
		return cached.(*models.Team), nil
	}

	team, err := s.repos.Team.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, team, cache.DefaultExpiration)
	return team, nil
}

// PendingMatches returns the pending fixtures, soonest first.
func (s *SnapshotService) PendingMatches(ctx context.Context) ([]*models.Match, error) {
	if cached, found := s.cache.Get(cacheKeyPending); found {
		return cached.([]*models.Match), nil
	}

	pending, err := s.repos.Match.GetPending(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKeyPending, pending, cache.DefaultExpiration)
	return pending, nil
}

// CompletedMatches returns completed matches with their embedded rating
// snapshots, oldest first. Season 0 means all seasons; completed history is
// immutable outside replays so per-season results are cacheable too.
func (s *SnapshotService) CompletedMatches(ctx context.Context, seasonYear int) ([]*models.Match, error) {
	key := fmt.Sprintf("completed:%d", seasonYear)
	if cached, found := s.cache.Get(key); found {
		return cached.([]*models.Match), nil
	}

	completed, err := s.repos.Match.GetCompleted(ctx, seasonYear)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, completed, cache.DefaultExpiration)
	return completed, nil
}

// Predictions returns the current prediction set in fixture date order.
func (s *SnapshotService) Predictions(ctx context.Context) ([]*models.Prediction, error) {
	if cached, found := s.cache.Get(cacheKeyPredictions); found {
		return cached.([]*models.Prediction), nil
	}

	predictions, err := s.repos.Prediction.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKeyPredictions, predictions, cache.DefaultExpiration)
	return predictions, nil
}

// Standings computes the league table for a season from completed matches.
func (s *SnapshotService) Standings(ctx context.Context, seasonYear int) ([]*StandingsRow, error) {
	completed, err := s.CompletedMatches(ctx, seasonYear)
	if err != nil {
		return nil, err
	}

	ratings, err := s.repos.Team.GetRatings(ctx)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*StandingsRow)
	entry := func(name string) *StandingsRow {
		if row, ok := rows[name]; ok {
			return row
		}
		row := &StandingsRow{Team: name, Rating: ratings[name]}
		rows[name] = row
		return row
	}

	for _, match := range completed {
		if match.HomeScore == nil || match.AwayScore == nil {
			continue
		}
		home, away := entry(match.HomeTeamName), entry(match.AwayTeamName)
		hs, as := *match.HomeScore, *match.AwayScore

		home.Played++
		away.Played++
		home.GoalsFor += hs
		home.GoalsAgainst += as
		away.GoalsFor += as
		away.GoalsAgainst += hs

		switch {
		case hs > as:
			home.Wins++
			home.Points += 3
			away.Losses++
		case hs < as:
			away.Wins++
			away.Points += 3
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points++
			away.Points++
		}
	}

	table := make([]*StandingsRow, 0, len(rows))
	for _, row := range rows {
		row.GoalDiff = row.GoalsFor - row.GoalsAgainst
		table = append(table, row)
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team < b.Team
	})

	return table, nil
}

// Accuracy rebuilds each completed match's prediction from its stored
// pre-match rating snapshots and reports how often the recommendation
// covered the realized result. Using the immutable snapshots means the
// report is reproducible regardless of how ratings have moved since.
func (s *SnapshotService) Accuracy(ctx context.Context, seasonYear int) (*AccuracyReport, error) {
	params, err := s.repos.Parameter.Get(ctx)
	if err != nil {
		return nil, err
	}

	completed, err := s.CompletedMatches(ctx, seasonYear)
	if err != nil {
		return nil, err
	}

	report := &AccuracyReport{
		Season: seasonYear,
		ByTier: map[string]AccuracyTier{
			models.ConfidenceHigh:   {},
			models.ConfidenceMedium: {},
			models.ConfidenceLow:    {},
		},
	}

	for _, match := range completed {
		if match.HomeEloPre == nil || match.AwayEloPre == nil {
			continue
		}
		outcome := prediction.Predict(*match.HomeEloPre, *match.AwayEloPre, params)

		pred := &models.Prediction{RecommendedBet: outcome.RecommendedBet}
		hit := pred.RecommendationHit(match.HomeResult(), match.AwayResult())

		tier := report.ByTier[outcome.Confidence]
		tier.Total++
		report.Overall.Total++
		if hit {
			tier.Hits++
			report.Overall.Hits++
		}
		report.ByTier[outcome.Confidence] = tier
	}

	finalize := func(t AccuracyTier) AccuracyTier {
		if t.Total > 0 {
			t.HitRate = models.RoundProbability(float64(t.Hits) / float64(t.Total))
		}
		return t
	}
	report.Overall = finalize(report.Overall)
	for tier, stats := range report.ByTier {
		report.ByTier[tier] = finalize(stats)
	}

	return report, nil
}
