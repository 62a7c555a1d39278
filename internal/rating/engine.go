// Package rating implements the ELO-style rating update engine. All
// functions are pure: the caller supplies pre-match ratings and the
// parameter set, and receives a signed delta plus the diagnostic
// multipliers that produced it.
package rating

import (
	"fmt"
	"math"

	"github.com/yourusername/football-elo/internal/models"
)

// Input describes one side of a completed match.
type Input struct {
	TeamRating     float64
	OpponentRating float64
	Result         models.Result
	GoalsScored    int
	GoalsConceded  int
	IsHome         bool
}

// Multipliers holds the diagnostic K-factor adjustments applied to a single
// update. The form slot is reserved for a rolling-form factor and is fixed
// at 1.0 for single-match recomputes.
type Multipliers struct {
	Opponent float64 `json:"opponent"`
	Venue    float64 `json:"venue"`
	GoalDiff float64 `json:"gd"`
	Form     float64 `json:"form"`
	Defense  float64 `json:"defense"`
}

// Total returns the product of all multipliers.
func (m Multipliers) Total() float64 {
	return m.Opponent * m.Venue * m.GoalDiff * m.Form * m.Defense
}

// Change is the outcome of a rating update for one side.
type Change struct {
	Delta       float64     `json:"elo_change"`
	Expected    float64     `json:"expected"`
	Actual      float64     `json:"actual"`
	KFinal      float64     `json:"k_final"`
	Multipliers Multipliers `json:"multipliers"`
}

// Calculate computes the rating delta for one team in one match.
//
// The expected score applies the home-advantage shift per side: the home
// team subtracts it from the opponent's effective rating, the away team adds
// it. Each side computes its own expectation independently rather than
// deriving one as the complement of the other; keep it that way even though
// the two work out to complements with the current shift.
func Calculate(in Input, params *models.ParameterSet) (Change, error) {
	if !in.Result.Valid() {
		return Change{}, fmt.Errorf("%w: %q", models.ErrInvalidResult, string(in.Result))
	}
	if in.GoalsScored < 0 || in.GoalsConceded < 0 {
		return Change{}, models.ErrInvalidScore
	}

	kCap, err := params.KCapFor(in.TeamRating)
	if err != nil {
		return Change{}, err
	}

	mults := Multipliers{
		Opponent: opponentQualityMultiplier(in.TeamRating, in.OpponentRating, in.Result),
		Venue:    venueMultiplier(in.IsHome, in.Result),
		GoalDiff: goalDiffMultiplier(in.GoalsScored, in.GoalsConceded, in.Result),
		Form:     1.0,
		Defense:  defensiveMultiplier(in.GoalsConceded, in.Result),
	}

	kFinal := math.Min(params.BaseKFactor*mults.Total(), kCap)

	venueShift := params.HomeAdvantage
	if !in.IsHome {
		venueShift = -params.HomeAdvantage
	}
	expected := 1 / (1 + math.Pow(10, (in.OpponentRating-in.TeamRating-venueShift)/400))
	actual := in.Result.ActualScore()

	return Change{
		Delta:       models.RoundRating(kFinal * (actual - expected)),
		Expected:    expected,
		Actual:      actual,
		KFinal:      kFinal,
		Multipliers: mults,
	}, nil
}
