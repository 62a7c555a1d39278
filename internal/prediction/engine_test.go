package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/football-elo/internal/models"
)

func testParams() *models.ParameterSet {
	return models.DefaultParameterSet()
}

func TestExpectedHomeEqualRatings(t *testing.T) {
	// At equal ratings only the home-advantage shift separates the sides.
	expected := ExpectedHome(1500, 1500, 46.8)
	assert.InDelta(t, 0.5669, expected, 0.001)
}

func TestExpectedHomeMonotonic(t *testing.T) {
	weaker := ExpectedHome(1500, 1600, 46.8)
	equal := ExpectedHome(1500, 1500, 46.8)
	stronger := ExpectedHome(1600, 1500, 46.8)

	assert.Less(t, weaker, equal)
	assert.Less(t, equal, stronger)
}

func TestDrawProbabilityCloseness(t *testing.T) {
	baseline := 0.2494

	// Equal ratings get the full 10% closeness bonus.
	assert.InDelta(t, baseline*1.1, DrawProbability(1500, 1500, baseline), 1e-9)

	// At a gap of exactly 200 the bonus is zero.
	assert.InDelta(t, baseline, DrawProbability(1600, 1400, baseline), 1e-9)

	// Beyond 200 the gap is capped, never a negative bonus.
	assert.InDelta(t, baseline, DrawProbability(1900, 1400, baseline), 1e-9)
}

func TestDrawProbabilityMonotonicInGap(t *testing.T) {
	baseline := 0.2494
	prev := DrawProbability(1500, 1500, baseline)
	for gap := 25.0; gap <= 250; gap += 25 {
		current := DrawProbability(1500+gap, 1500, baseline)
		assert.LessOrEqual(t, current, prev, "gap %.0f", gap)
		prev = current
	}
}

func TestDrawProbabilityClamped(t *testing.T) {
	// A miscalibrated baseline is clamped rather than propagated.
	assert.Equal(t, 0.40, DrawProbability(1500, 1500, 0.9))
	assert.Equal(t, 0.15, DrawProbability(1500, 1500, 0.01))
}

func TestPredictProbabilitiesSumToOne(t *testing.T) {
	params := testParams()

	pairings := [][2]float64{
		{1500, 1500}, {1600, 1500}, {1400, 1700}, {1750, 1380}, {1501, 1499},
	}
	for _, p := range pairings {
		outcome := Predict(p[0], p[1], params)
		sum := outcome.HomeWinProb + outcome.DrawProb + outcome.AwayWinProb
		assert.InDelta(t, 1.0, sum, 0.001, "home=%.0f away=%.0f", p[0], p[1])

		assert.InDelta(t, outcome.HomeWinProb+outcome.DrawProb, outcome.HomeOrDrawProb, 0.001)
		assert.InDelta(t, outcome.AwayWinProb+outcome.DrawProb, outcome.AwayOrDrawProb, 0.001)
	}
}

func TestPredictStrongFavourite(t *testing.T) {
	outcome := Predict(1750, 1400, testParams())

	assert.Equal(t, models.OutcomeHomeWin, outcome.RecommendedBet)
	assert.Equal(t, models.ConfidenceHigh, outcome.Confidence)
	assert.Greater(t, outcome.HomeWinProb, outcome.AwayWinProb)
	assert.Greater(t, outcome.RecommendedProb, 0.60)
}

func TestPredictEqualRatings(t *testing.T) {
	outcome := Predict(1500, 1500, testParams())

	// Home advantage pushes the home win just past the single-outcome
	// threshold, but not far enough for real confidence.
	assert.Equal(t, models.OutcomeHomeWin, outcome.RecommendedBet)
	assert.Equal(t, models.ConfidenceLow, outcome.Confidence)
	assert.InDelta(t, 0.4114, outcome.HomeWinProb, 0.001)
}

func TestPredictDoubleChance(t *testing.T) {
	// A slightly away-favoured pairing: no single outcome reaches 0.40 but
	// home-or-draw clears the 0.60 double chance bar.
	outcome := Predict(1480, 1520, testParams())

	assert.Equal(t, models.OutcomeHomeOrDraw, outcome.RecommendedBet)
	assert.True(t, (&models.Prediction{RecommendedBet: outcome.RecommendedBet}).IsDoubleChance())
	assert.Greater(t, outcome.RecommendedProb, 0.60)
	assert.Equal(t, models.ConfidenceHigh, outcome.Confidence)
}

func TestPredictMonotonicInHomeRating(t *testing.T) {
	params := testParams()
	prev := Predict(1400, 1500, params).HomeWinProb
	for homeRating := 1450.0; homeRating <= 1700; homeRating += 50 {
		current := Predict(homeRating, 1500, params).HomeWinProb
		assert.Greater(t, current, prev, "home rating %.0f", homeRating)
		prev = current
	}
}

func TestPredictRoundedToFourPlaces(t *testing.T) {
	outcome := Predict(1537.3, 1488.9, testParams())

	for _, prob := range []float64{
		outcome.HomeWinProb, outcome.DrawProb, outcome.AwayWinProb,
		outcome.HomeOrDrawProb, outcome.AwayOrDrawProb, outcome.RecommendedProb,
	} {
		assert.Equal(t, models.RoundProbability(prob), prob)
	}
}
