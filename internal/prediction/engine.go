// Package prediction implements the outcome probability engine: it converts
// two teams' current ratings into a five-way probability set, a recommended
// bet and a confidence tier. Deterministic, no side effects.
package prediction

import (
	"math"

	"github.com/yourusername/football-elo/internal/models"
)

// Draw probability calibration. The baseline comes from the parameter set;
// the bonus grows as the two ratings converge and disappears at a gap of
// 200 points or more. The result is clamped to [0.15, 0.40].
const (
	closenessGapCap = 200.0
	closenessScale  = 2000.0
	drawProbMin     = 0.15
	drawProbMax     = 0.40

	// normalizeTolerance is the float drift beyond which the three-way
	// probabilities are renormalized to sum to exactly 1.
	normalizeTolerance = 0.001
)

// Recommendation policy thresholds.
const (
	singleOutcomeThreshold = 0.40
	doubleChanceThreshold  = 0.60

	confidenceHighThreshold   = 0.60
	confidenceMediumThreshold = 0.50
)

// Outcome is the full prediction for one fixture.
type Outcome struct {
	HomeWinProb     float64
	DrawProb        float64
	AwayWinProb     float64
	HomeOrDrawProb  float64
	AwayOrDrawProb  float64
	RecommendedBet  string
	RecommendedProb float64
	Confidence      string
}

// ExpectedHome returns the logistic expectation for the home side with the
// home-advantage shift applied.
func ExpectedHome(homeRating, awayRating, homeAdvantage float64) float64 {
	return 1 / (1 + math.Pow(10, (awayRating-homeRating-homeAdvantage)/400))
}

// DrawProbability computes the calibrated draw probability for a pairing.
func DrawProbability(homeRating, awayRating, baseline float64) float64 {
	gap := math.Abs(homeRating - awayRating)
	bonus := math.Max(0, (closenessGapCap-math.Min(gap, closenessGapCap))/closenessScale)
	draw := baseline * (1 + bonus)
	return math.Max(drawProbMin, math.Min(drawProbMax, draw))
}

// Predict produces the five probabilities, recommendation and confidence
// tier for a fixture. All probabilities are rounded to four decimal places.
func Predict(homeRating, awayRating float64, params *models.ParameterSet) Outcome {
	expectedHome := ExpectedHome(homeRating, awayRating, params.HomeAdvantage)
	expectedAway := 1 - expectedHome

	drawProb := DrawProbability(homeRating, awayRating, params.DrawBaseline)

	remaining := 1 - drawProb
	homeWin := expectedHome * remaining
	awayWin := expectedAway * remaining

	if total := homeWin + drawProb + awayWin; math.Abs(total-1.0) > normalizeTolerance {
		homeWin /= total
		drawProb /= total
		awayWin /= total
	}

	homeOrDraw := homeWin + drawProb
	awayOrDraw := awayWin + drawProb

	label, prob := recommend(homeWin, drawProb, awayWin, homeOrDraw, awayOrDraw)

	return Outcome{
		HomeWinProb:     models.RoundProbability(homeWin),
		DrawProb:        models.RoundProbability(drawProb),
		AwayWinProb:     models.RoundProbability(awayWin),
		HomeOrDrawProb:  models.RoundProbability(homeOrDraw),
		AwayOrDrawProb:  models.RoundProbability(awayOrDraw),
		RecommendedBet:  label,
		RecommendedProb: models.RoundProbability(prob),
		Confidence:      confidenceTier(prob),
	}
}

// recommend applies the recommendation policy in priority order: a strong
// single outcome first, then a strong double chance, then the best single
// outcome as a fallback so a recommendation always exists.
func recommend(homeWin, draw, awayWin, homeOrDraw, awayOrDraw float64) (string, float64) {
	bestSingleLabel, bestSingle := best3(homeWin, draw, awayWin)

	bestDoubleLabel, bestDouble := models.OutcomeHomeOrDraw, homeOrDraw
	if awayOrDraw > homeOrDraw {
		bestDoubleLabel, bestDouble = models.OutcomeAwayOrDraw, awayOrDraw
	}

	switch {
	case bestSingle >= singleOutcomeThreshold:
		return bestSingleLabel, bestSingle
	case bestDouble > doubleChanceThreshold:
		return bestDoubleLabel, bestDouble
	default:
		return bestSingleLabel, bestSingle
	}
}

func best3(homeWin, draw, awayWin float64) (string, float64) {
	label, prob := models.OutcomeHomeWin, homeWin
	if draw > prob {
		label, prob = models.OutcomeDraw, draw
	}
	if awayWin > prob {
		label, prob = models.OutcomeAwayWin, awayWin
	}
	return label, prob
}

func confidenceTier(prob float64) string {
	switch {
	case prob > confidenceHighThreshold:
		return models.ConfidenceHigh
	case prob > confidenceMediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
