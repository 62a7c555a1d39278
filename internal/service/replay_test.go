package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/football-elo/internal/models"
)

func completedMatch(home, away string, homeScore, awayScore int, day int) *models.Match {
	return &models.Match{
		ID:           uuid.New(),
		EventID:      int64(day),
		HomeTeamName: home,
		AwayTeamName: away,
		MatchDate:    time.Date(2025, 8, day, 15, 0, 0, 0, time.UTC),
		SeasonYear:   2025,
		Completed:    true,
		HomeScore:    &homeScore,
		AwayScore:    &awayScore,
	}
}

func startingRatings() map[string]float64 {
	return map[string]float64{
		"Arsenal":    1500,
		"Chelsea":    1500,
		"Sunderland": 1400,
	}
}

func TestReplayMatchesChainsRatings(t *testing.T) {
	matches := []*models.Match{
		completedMatch("Arsenal", "Chelsea", 2, 0, 1),
		completedMatch("Chelsea", "Arsenal", 1, 1, 8),
	}
	ratings := startingRatings()

	replayed, err := ReplayMatches(matches, ratings, models.DefaultParameterSet())
	require.NoError(t, err)
	require.Len(t, replayed, 2)

	first, second := replayed[0], replayed[1]

	// Snapshots are filled in and post = pre + delta, to one decimal place.
	require.NotNil(t, first.HomeEloPre)
	assert.Equal(t, 1500.0, *first.HomeEloPre)
	assert.Equal(t, models.RoundRating(*first.HomeEloPre+*first.HomeEloDelta), *first.HomeEloPost)
	assert.Equal(t, models.RoundRating(*first.AwayEloPre+*first.AwayEloDelta), *first.AwayEloPost)

	// The second match starts from the ratings the first one produced.
	assert.Equal(t, *first.AwayEloPost, *second.HomeEloPre)
	assert.Equal(t, *first.HomeEloPost, *second.AwayEloPre)

	// The final ratings map matches the last snapshots.
	assert.Equal(t, *second.HomeEloPost, ratings["Chelsea"])
	assert.Equal(t, *second.AwayEloPost, ratings["Arsenal"])
	assert.Equal(t, 1400.0, ratings["Sunderland"])
}

func TestReplayMatchesDeterministic(t *testing.T) {
	matches := []*models.Match{
		completedMatch("Arsenal", "Chelsea", 1, 0, 1),
		completedMatch("Sunderland", "Arsenal", 0, 3, 5),
		completedMatch("Chelsea", "Sunderland", 2, 2, 12),
	}
	params := models.DefaultParameterSet()

	firstRun := startingRatings()
	_, err := ReplayMatches(matches, firstRun, params)
	require.NoError(t, err)

	// Clear the snapshots and replay again from scratch.
	for _, m := range matches {
		m.HomeEloPre, m.AwayEloPre = nil, nil
		m.HomeEloDelta, m.AwayEloDelta = nil, nil
		m.HomeEloPost, m.AwayEloPost = nil, nil
	}

	secondRun := startingRatings()
	_, err = ReplayMatches(matches, secondRun, params)
	require.NoError(t, err)

	assert.Equal(t, firstRun, secondRun)
}

func TestReplayMatchesEqualsIncrementalApplication(t *testing.T) {
	// A full replay must land on the same ratings as applying the same
	// matches one at a time.
	params := models.DefaultParameterSet()
	matches := []*models.Match{
		completedMatch("Arsenal", "Chelsea", 2, 1, 1),
		completedMatch("Chelsea", "Sunderland", 0, 1, 3),
		completedMatch("Sunderland", "Arsenal", 1, 1, 9),
	}

	full := startingRatings()
	_, err := ReplayMatches(matches, full, params)
	require.NoError(t, err)

	incremental := startingRatings()
	for _, m := range matches {
		_, err := ReplayMatches([]*models.Match{m}, incremental, params)
		require.NoError(t, err)
	}

	assert.Equal(t, full, incremental)
}

func TestReplayMatchesUnratedTeamDefaults(t *testing.T) {
	matches := []*models.Match{completedMatch("Arsenal", "Newcastle", 1, 1, 1)}
	ratings := map[string]float64{"Arsenal": 1500}

	replayed, err := ReplayMatches(matches, ratings, models.DefaultParameterSet())
	require.NoError(t, err)

	assert.Equal(t, models.InitialRating, *replayed[0].AwayEloPre)
	assert.Contains(t, ratings, "Newcastle")
}

func TestReplayHistoryResetsThenRebuilds(t *testing.T) {
	ctx := context.Background()

	played := completedMatch("Arsenal", "Chelsea", 2, 0, 1)
	stale := 9999.0
	played.HomeEloPre = &stale

	upcoming := pendingMatch("Chelsea", "Sunderland", 8)

	teams := &fakeTeamRepo{
		teams: []*models.Team{
			{Name: "Arsenal", CurrentRating: 1512.3},
			{Name: "Chelsea", CurrentRating: 1487.7},
			{Name: "Sunderland", CurrentRating: 1400, Promoted: true},
		},
		ratings: map[string]float64{
			"Arsenal": 1512.3, "Chelsea": 1487.7, "Sunderland": 1400,
		},
	}
	matches := &fakeMatchRepo{matches: []*models.Match{played, upcoming}}
	repos := fakeRepos(teams, matches)

	svc := NewReplayService(repos, NewPredictionService(repos, nil), nil)
	report, err := svc.ReplayHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MatchesReplayed)

	// Persisted ratings and trails are cleared before the rebuild.
	assert.Equal(t, 1, teams.resets)
	assert.Equal(t, 1, matches.resets)

	// The stale snapshot is replaced by the recomputed one, starting from
	// scratch rather than from the pre-replay ratings.
	require.NotNil(t, played.HomeEloPre)
	assert.Equal(t, 1500.0, *played.HomeEloPre)
	require.NotNil(t, played.HomeEloPost)
	assert.Equal(t, models.RoundRating(1500+*played.HomeEloDelta), *played.HomeEloPost)

	// Final ratings are persisted; the promoted side restarts from 1400.
	assert.Equal(t, *played.HomeEloPost, teams.ratings["Arsenal"])
	assert.Equal(t, *played.AwayEloPost, teams.ratings["Chelsea"])
	assert.Equal(t, 1400.0, teams.ratings["Sunderland"])
	assert.Equal(t, teams.ratings, report.FinalRatings)

	// Predictions are regenerated for the pending fixture from the rebuilt
	// ratings.
	preds := repos.Prediction.(*fakePredictionRepo)
	require.Len(t, preds.predictions, 1)
	assert.Equal(t, upcoming.ID, preds.predictions[0].MatchID)
	assert.Equal(t, teams.ratings["Chelsea"], preds.predictions[0].HomeElo)
}

func TestReplayMatchesMissingScore(t *testing.T) {
	match := completedMatch("Arsenal", "Chelsea", 0, 0, 1)
	match.HomeScore = nil

	_, err := ReplayMatches([]*models.Match{match}, startingRatings(), models.DefaultParameterSet())
	assert.Error(t, err)
}
