package rating

import (
	"math"

	"github.com/yourusername/football-elo/internal/models"
)

// opponentQualityMultiplier rewards upset outcomes. An underdog win or a
// favourite loss scales with the rating gap (1.5 to 2.0); otherwise the
// result is discounted the more lopsided the pairing was.
func opponentQualityMultiplier(teamRating, opponentRating float64, result models.Result) float64 {
	gap := math.Abs(teamRating - opponentRating)
	underdog := teamRating < opponentRating

	switch {
	case underdog && result == models.ResultWin:
		return 1.5 + math.Min(gap/400, 0.5)
	case !underdog && result == models.ResultLoss:
		return 1.5 + math.Min(gap/400, 0.5)
	case gap < 50:
		return 1.0
	case gap < 150:
		return 0.85
	default:
		return 0.6
	}
}

// venueMultiplier grants a bonus for winning away from home.
func venueMultiplier(isHome bool, result models.Result) float64 {
	if !isHome && result == models.ResultWin {
		return 1.35
	}
	return 1.0
}

// goalDiffMultiplier scales wins by margin of victory. Draws and losses are
// unaffected.
func goalDiffMultiplier(goalsScored, goalsConceded int, result models.Result) float64 {
	if result != models.ResultWin {
		return 1.0
	}
	switch gd := abs(goalsScored - goalsConceded); gd {
	case 1:
		return 1.0
	case 2:
		return 1.2
	case 3:
		return 1.35
	default:
		return 1.5
	}
}

// defensiveMultiplier rewards clean sheets and penalises heavy defensive
// collapses.
func defensiveMultiplier(goalsConceded int, result models.Result) float64 {
	switch {
	case result == models.ResultWin && goalsConceded == 0:
		return 1.15
	case result == models.ResultDraw && goalsConceded == 0:
		return 1.05
	case result == models.ResultLoss && goalsConceded >= 3:
		return 0.95
	default:
		return 1.0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
