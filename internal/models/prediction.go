package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome labels for recommended bets.
const (
	OutcomeHomeWin    = "Home Win"
	OutcomeDraw       = "Draw"
	OutcomeAwayWin    = "Away Win"
	OutcomeHomeOrDraw = "Home Win/Draw"
	OutcomeAwayOrDraw = "Away Win/Draw"
)

// Confidence tiers for a recommendation.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Prediction represents the outcome probabilities for one pending match,
// computed from both teams' current ratings. Predictions are replaced in
// full whenever a rating changes and deleted once the match completes.
type Prediction struct {
	ID              uuid.UUID `db:"id" json:"id"`
	MatchID         uuid.UUID `db:"match_id" json:"match_id" validate:"required,uuid4"`
	EventID         int64     `db:"event_id" json:"event_id"`
	HomeElo         float64   `db:"home_elo" json:"home_elo"`
	AwayElo         float64   `db:"away_elo" json:"away_elo"`
	HomeWinProb     float64   `db:"home_win_prob" json:"home_win_prob" validate:"gte=0,lte=1"`
	DrawProb        float64   `db:"draw_prob" json:"draw_prob" validate:"gte=0,lte=1"`
	AwayWinProb     float64   `db:"away_win_prob" json:"away_win_prob" validate:"gte=0,lte=1"`
	HomeOrDrawProb  float64   `db:"home_or_draw_prob" json:"home_or_draw_prob" validate:"gte=0,lte=1"`
	AwayOrDrawProb  float64   `db:"away_or_draw_prob" json:"away_or_draw_prob" validate:"gte=0,lte=1"`
	RecommendedBet  string    `db:"recommended_bet" json:"recommended_bet"`
	RecommendedProb float64   `db:"recommended_prob" json:"recommended_prob"`
	Confidence      string    `db:"confidence" json:"confidence"`
	PredictedAt     time.Time `db:"predicted_at" json:"predicted_at"`
}

// IsDoubleChance reports whether the recommended bet covers two outcomes.
func (p *Prediction) IsDoubleChance() bool {
	return p.RecommendedBet == OutcomeHomeOrDraw || p.RecommendedBet == OutcomeAwayOrDraw
}

// RecommendationHit reports whether the recommendation covered the realized
// result of a completed match.
func (p *Prediction) RecommendationHit(home, away Result) bool {
	switch p.RecommendedBet {
	case OutcomeHomeWin:
		return home == ResultWin
	case OutcomeDraw:
		return home == ResultDraw
	case OutcomeAwayWin:
		return away == ResultWin
	case OutcomeHomeOrDraw:
		return home == ResultWin || home == ResultDraw
	case OutcomeAwayOrDraw:
		return away == ResultWin || away == ResultDraw
	default:
		return false
	}
}
