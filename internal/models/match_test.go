package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyResult(t *testing.T) {
	home, away := ClassifyResult(3, 1)
	assert.Equal(t, ResultWin, home)
	assert.Equal(t, ResultLoss, away)

	home, away = ClassifyResult(0, 2)
	assert.Equal(t, ResultLoss, home)
	assert.Equal(t, ResultWin, away)

	home, away = ClassifyResult(1, 1)
	assert.Equal(t, ResultDraw, home)
	assert.Equal(t, ResultDraw, away)
}

func TestResultActualScore(t *testing.T) {
	assert.Equal(t, 1.0, ResultWin.ActualScore())
	assert.Equal(t, 0.5, ResultDraw.ActualScore())
	assert.Equal(t, 0.0, ResultLoss.ActualScore())
}

func TestResultValid(t *testing.T) {
	assert.True(t, ResultWin.Valid())
	assert.True(t, ResultDraw.Valid())
	assert.True(t, ResultLoss.Valid())
	assert.False(t, Result("X").Valid())
	assert.False(t, Result("").Valid())
}

func TestMatchResults(t *testing.T) {
	hs, as := 2, 0
	match := &Match{HomeScore: &hs, AwayScore: &as}

	assert.Equal(t, ResultWin, match.HomeResult())
	assert.Equal(t, ResultLoss, match.AwayResult())

	// A pending match has no result yet.
	pending := &Match{}
	assert.Equal(t, Result(""), pending.HomeResult())
	assert.True(t, pending.IsPending())
}

func TestTeamStartingRating(t *testing.T) {
	established := &Team{Name: "Everton"}
	promoted := &Team{Name: "Leeds", Promoted: true}

	assert.Equal(t, InitialRating, established.StartingRating())
	assert.Equal(t, PromotedTeamRating, promoted.StartingRating())
}

func TestRecommendationHit(t *testing.T) {
	tests := []struct {
		bet        string
		home, away Result
		hit        bool
	}{
		{OutcomeHomeWin, ResultWin, ResultLoss, true},
		{OutcomeHomeWin, ResultDraw, ResultDraw, false},
		{OutcomeDraw, ResultDraw, ResultDraw, true},
		{OutcomeAwayWin, ResultLoss, ResultWin, true},
		{OutcomeHomeOrDraw, ResultDraw, ResultDraw, true},
		{OutcomeHomeOrDraw, ResultLoss, ResultWin, false},
		{OutcomeAwayOrDraw, ResultWin, ResultLoss, false},
		{OutcomeAwayOrDraw, ResultLoss, ResultWin, true},
	}
	for _, tt := range tests {
		pred := &Prediction{RecommendedBet: tt.bet}
		assert.Equal(t, tt.hit, pred.RecommendationHit(tt.home, tt.away), "%s on %s/%s", tt.bet, tt.home, tt.away)
	}
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 42.4, RoundRating(42.433))
	assert.Equal(t, -3.7, RoundRating(-3.666))
	assert.Equal(t, 1500.0, RoundRating(1500.04))

	assert.Equal(t, 0.1235, RoundProbability(0.123456))
	assert.Equal(t, 0.4114, RoundProbability(0.41141))
}
