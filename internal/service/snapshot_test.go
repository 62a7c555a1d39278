package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/football-elo/internal/models"
	"github.com/yourusername/football-elo/internal/repository"
)

type fakeTeamRepo struct {
	teams   []*models.Team
	ratings map[string]float64
	resets  int
}

func (r *fakeTeamRepo) Upsert(ctx context.Context, team *models.Team) error {
	r.ratings[team.Name] = team.CurrentRating
	return nil
}
func (r *fakeTeamRepo) GetByName(ctx context.Context, name string) (*models.Team, error) {
	for _, team := range r.teams {
		if team.Name == name {
			return team, nil
		}
	}
	return nil, models.ErrNotFound
}
func (r *fakeTeamRepo) GetAll(ctx context.Context) ([]*models.Team, error) { return r.teams, nil }
func (r *fakeTeamRepo) GetRatings(ctx context.Context) (map[string]float64, error) {
	return r.ratings, nil
}
func (r *fakeTeamRepo) GetRatingForUpdate(ctx context.Context, tx pgx.Tx, name string) (float64, error) {
	rating, ok := r.ratings[name]
	if !ok {
		return 0, models.ErrNotFound
	}
	return rating, nil
}
func (r *fakeTeamRepo) UpdateRating(ctx context.Context, tx pgx.Tx, name string, rating float64) error {
	r.ratings[name] = rating
	return nil
}
func (r *fakeTeamRepo) ResetRatings(ctx context.Context) error {
	r.resets++
	for _, team := range r.teams {
		r.ratings[team.Name] = team.StartingRating()
	}
	return nil
}

type fakeMatchRepo struct {
	matches []*models.Match
	resets  int
}

func (r *fakeMatchRepo) Create(ctx context.Context, match *models.Match) error {
	for _, existing := range r.matches {
		if existing.EventID == match.EventID {
			return models.ErrDuplicateKey
		}
	}
	r.matches = append(r.matches, match)
	return nil
}
func (r *fakeMatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	for _, match := range r.matches {
		if match.ID == id {
			return match, nil
		}
	}
	return nil, models.ErrNotFound
}
func (r *fakeMatchRepo) GetPending(ctx context.Context) ([]*models.Match, error) {
	var pending []*models.Match
	for _, match := range r.matches {
		if match.IsPending() {
			pending = append(pending, match)
		}
	}
	return pending, nil
}
func (r *fakeMatchRepo) GetCompleted(ctx context.Context, seasonYear int) ([]*models.Match, error) {
	var completed []*models.Match
	for _, match := range r.matches {
		if match.Completed && (seasonYear == 0 || match.SeasonYear == seasonYear) {
			completed = append(completed, match)
		}
	}
	return completed, nil
}
func (r *fakeMatchRepo) RecordCompletion(ctx context.Context, tx pgx.Tx, match *models.Match) error {
	return nil
}
func (r *fakeMatchRepo) UpdateEloTrail(ctx context.Context, match *models.Match) error { return nil }
func (r *fakeMatchRepo) ResetCompletions(ctx context.Context) error {
	r.resets++
	for _, match := range r.matches {
		if match.Completed {
			match.HomeEloPre, match.AwayEloPre = nil, nil
			match.HomeEloDelta, match.AwayEloDelta = nil, nil
			match.HomeEloPost, match.AwayEloPost = nil, nil
		}
	}
	return nil
}

type fakePredictionRepo struct {
	predictions []*models.Prediction
	replaceErr  error
}

func (r *fakePredictionRepo) GetAll(ctx context.Context) ([]*models.Prediction, error) {
	return r.predictions, nil
}
func (r *fakePredictionRepo) GetByMatchID(ctx context.Context, matchID uuid.UUID) (*models.Prediction, error) {
	for _, pred := range r.predictions {
		if pred.MatchID == matchID {
			return pred, nil
		}
	}
	return nil, models.ErrNotFound
}
func (r *fakePredictionRepo) ReplaceAll(ctx context.Context, predictions []*models.Prediction) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.predictions = predictions
	return nil
}
func (r *fakePredictionRepo) DeleteByMatchID(ctx context.Context, tx pgx.Tx, matchID uuid.UUID) error {
	kept := r.predictions[:0]
	for _, pred := range r.predictions {
		if pred.MatchID != matchID {
			kept = append(kept, pred)
		}
	}
	r.predictions = kept
	return nil
}

type fakeParameterRepo struct {
	params *models.ParameterSet
}

func (r *fakeParameterRepo) Get(ctx context.Context) (*models.ParameterSet, error) {
	if r.params == nil {
		return nil, models.ErrMissingParams
	}
	return r.params, nil
}
func (r *fakeParameterRepo) Save(ctx context.Context, params *models.ParameterSet) error {
	r.params = params
	return nil
}

func fakeRepos(teams *fakeTeamRepo, matches *fakeMatchRepo) *repository.Repositories {
	return &repository.Repositories{
		Team:       teams,
		Match:      matches,
		Prediction: &fakePredictionRepo{},
		Parameter:  &fakeParameterRepo{params: models.DefaultParameterSet()},
	}
}

func snapshotFixture() (*SnapshotService, *fakeMatchRepo) {
	matches := &fakeMatchRepo{}

	score := func(home, away string, hs, as int, day int) {
		m := completedMatch(home, away, hs, as, day)
		pre := func(v float64) *float64 { return &v }
		m.HomeEloPre, m.AwayEloPre = pre(1500), pre(1500)
		matches.matches = append(matches.matches, m)
	}
	score("Arsenal", "Chelsea", 2, 0, 1)
	score("Chelsea", "Sunderland", 1, 1, 3)
	score("Sunderland", "Arsenal", 0, 1, 5)

	teams := &fakeTeamRepo{
		ratings: map[string]float64{"Arsenal": 1530, "Chelsea": 1490, "Sunderland": 1405},
	}

	return NewSnapshotService(fakeRepos(teams, matches), nil), matches
}

func TestStandings(t *testing.T) {
	svc, _ := snapshotFixture()

	table, err := svc.Standings(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, table, 3)

	// Arsenal won both its matches, Chelsea and Sunderland drew theirs.
	assert.Equal(t, "Arsenal", table[0].Team)
	assert.Equal(t, 6, table[0].Points)
	assert.Equal(t, 2, table[0].Wins)
	assert.Equal(t, 3, table[0].GoalDiff)
	assert.Equal(t, 1530.0, table[0].Rating)

	// Chelsea and Sunderland sit level on points; goal difference splits them.
	assert.Equal(t, "Sunderland", table[1].Team)
	assert.Equal(t, 1, table[1].Points)
	assert.Equal(t, -1, table[1].GoalDiff)
	assert.Equal(t, "Chelsea", table[2].Team)
	assert.Equal(t, -2, table[2].GoalDiff)
}

func TestTeamLookup(t *testing.T) {
	teams := &fakeTeamRepo{
		teams:   []*models.Team{{Name: "Arsenal", CurrentRating: 1530}},
		ratings: map[string]float64{"Arsenal": 1530},
	}
	svc := NewSnapshotService(fakeRepos(teams, &fakeMatchRepo{}), nil)

	team, err := svc.Team(context.Background(), "Arsenal")
	require.NoError(t, err)
	assert.Equal(t, 1530.0, team.CurrentRating)

	_, err = svc.Team(context.Background(), "Wrexham")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStandingsEmptySeason(t *testing.T) {
	svc, _ := snapshotFixture()

	table, err := svc.Standings(context.Background(), 1999)
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestAccuracy(t *testing.T) {
	svc, _ := snapshotFixture()

	report, err := svc.Accuracy(context.Background(), 2025)
	require.NoError(t, err)

	// Every completed match has rating snapshots, so every one is scored.
	assert.Equal(t, 3, report.Overall.Total)
	assert.GreaterOrEqual(t, report.Overall.Hits, 0)
	assert.LessOrEqual(t, report.Overall.Hits, report.Overall.Total)

	tierTotal := 0
	for _, tier := range report.ByTier {
		tierTotal += tier.Total
		if tier.Total > 0 {
			assert.InDelta(t, float64(tier.Hits)/float64(tier.Total), tier.HitRate, 0.0001)
		}
	}
	assert.Equal(t, report.Overall.Total, tierTotal)
}

func TestAccuracySkipsMatchesWithoutSnapshots(t *testing.T) {
	svc, matches := snapshotFixture()
	matches.matches[0].HomeEloPre = nil

	report, err := svc.Accuracy(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Overall.Total)
}

func TestSnapshotCacheFlushOnScoreUpdate(t *testing.T) {
	svc, matches := snapshotFixture()
	ctx := context.Background()

	first, err := svc.CompletedMatches(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// A new completed match is invisible until a scoring event flushes the
	// cache.
	matches.matches = append(matches.matches, completedMatch("Arsenal", "Sunderland", 4, 0, 9))

	cached, err := svc.CompletedMatches(ctx, 2025)
	require.NoError(t, err)
	assert.Len(t, cached, 3)

	svc.PublishScoreUpdate(ScoreUpdate{})

	fresh, err := svc.CompletedMatches(ctx, 2025)
	require.NoError(t, err)
	assert.Len(t, fresh, 4)
}
