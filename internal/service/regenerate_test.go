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

func pendingMatch(home, away string, day int) *models.Match {
	return &models.Match{
		ID:           uuid.New(),
		EventID:      int64(day),
		HomeTeamName: home,
		AwayTeamName: away,
		MatchDate:    time.Date(2025, 9, day, 15, 0, 0, 0, time.UTC),
		SeasonYear:   2025,
	}
}

func TestBuildPredictions(t *testing.T) {
	pending := []*models.Match{
		pendingMatch("Arsenal", "Chelsea", 1),
		pendingMatch("Sunderland", "Arsenal", 8),
	}
	ratings := map[string]float64{
		"Arsenal":    1620.5,
		"Chelsea":    1540.0,
		"Sunderland": 1410.3,
	}

	predictions := BuildPredictions(pending, ratings, models.DefaultParameterSet())
	require.Len(t, predictions, 2)

	first := predictions[0]
	assert.Equal(t, pending[0].ID, first.MatchID)
	assert.Equal(t, pending[0].EventID, first.EventID)
	assert.Equal(t, 1620.5, first.HomeElo)
	assert.Equal(t, 1540.0, first.AwayElo)
	assert.NotEqual(t, uuid.Nil, first.ID)

	for _, pred := range predictions {
		sum := pred.HomeWinProb + pred.DrawProb + pred.AwayWinProb
		assert.InDelta(t, 1.0, sum, 0.001)
		assert.NotEmpty(t, pred.RecommendedBet)
		assert.Contains(t,
			[]string{models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow},
			pred.Confidence,
		)
		assert.False(t, pred.PredictedAt.IsZero())
	}
}

func TestBuildPredictionsUnratedTeamDefaults(t *testing.T) {
	pending := []*models.Match{pendingMatch("Arsenal", "Wrexham", 1)}
	ratings := map[string]float64{"Arsenal": 1500}

	predictions := BuildPredictions(pending, ratings, models.DefaultParameterSet())
	require.Len(t, predictions, 1)
	assert.Equal(t, models.InitialRating, predictions[0].AwayElo)
}

func TestBuildPredictionsEmpty(t *testing.T) {
	predictions := BuildPredictions(nil, map[string]float64{}, models.DefaultParameterSet())
	assert.Empty(t, predictions)
}

func TestRegenerateAllReplacesStaleSet(t *testing.T) {
	ctx := context.Background()

	played := completedMatch("Arsenal", "Chelsea", 2, 0, 1)
	upcoming := pendingMatch("Chelsea", "Sunderland", 8)

	matches := &fakeMatchRepo{matches: []*models.Match{played, upcoming}}
	teams := &fakeTeamRepo{ratings: map[string]float64{
		"Arsenal": 1512.3, "Chelsea": 1487.7, "Sunderland": 1400,
	}}

	repos := fakeRepos(teams, matches)
	stale := repos.Prediction.(*fakePredictionRepo)
	stale.predictions = []*models.Prediction{
		{ID: uuid.New(), MatchID: played.ID, HomeElo: 1500, AwayElo: 1500},
		{ID: uuid.New(), MatchID: upcoming.ID, HomeElo: 1500, AwayElo: 1500},
	}

	svc := NewPredictionService(repos, nil)
	written, err := svc.RegenerateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	// Only the pending match keeps a prediction, and it reflects the
	// current ratings rather than the stale snapshot.
	require.Len(t, stale.predictions, 1)
	refreshed := stale.predictions[0]
	assert.Equal(t, upcoming.ID, refreshed.MatchID)
	assert.Equal(t, 1487.7, refreshed.HomeElo)
	assert.Equal(t, 1400.0, refreshed.AwayElo)
}
