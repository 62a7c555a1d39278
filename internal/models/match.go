package models

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of a match from one side's perspective.
type Result string

const (
	ResultWin  Result = "W"
	ResultDraw Result = "D"
	ResultLoss Result = "L"
)

// Valid reports whether r is one of the three recognised outcomes.
func (r Result) Valid() bool {
	return r == ResultWin || r == ResultDraw || r == ResultLoss
}

// ActualScore returns the score value fed into the rating update
// (win 1.0, draw 0.5, loss 0.0).
func (r Result) ActualScore() float64 {
	switch r {
	case ResultWin:
		return 1.0
	case ResultDraw:
		return 0.5
	default:
		return 0.0
	}
}

// ClassifyResult derives each side's result from the final score.
func ClassifyResult(homeScore, awayScore int) (home, away Result) {
	switch {
	case homeScore > awayScore:
		return ResultWin, ResultLoss
	case homeScore < awayScore:
		return ResultLoss, ResultWin
	default:
		return ResultDraw, ResultDraw
	}
}

// Match represents a fixture. Pre/post ratings and deltas are written once,
// when the match completes, and are never recomputed in place; a correction
// requires replaying history forward from that point.
type Match struct {
	ID           uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	EventID      int64      `db:"event_id" json:"event_id" validate:"required"`
	HomeTeamName string     `db:"home_team_name" json:"home_team_name" validate:"required"`
	AwayTeamName string     `db:"away_team_name" json:"away_team_name" validate:"required"`
	MatchDate    time.Time  `db:"match_date" json:"match_date" validate:"required"`
	SeasonYear   int        `db:"season_year" json:"season_year" validate:"required"`
	Completed    bool       `db:"is_completed" json:"is_completed"`
	HomeScore    *int       `db:"home_score" json:"home_score"`
	AwayScore    *int       `db:"away_score" json:"away_score"`
	HomeEloPre   *float64   `db:"home_elo_pre" json:"home_elo_pre"`
	AwayEloPre   *float64   `db:"away_elo_pre" json:"away_elo_pre"`
	HomeEloDelta *float64   `db:"home_elo_change" json:"home_elo_change"`
	AwayEloDelta *float64   `db:"away_elo_change" json:"away_elo_change"`
	HomeEloPost  *float64   `db:"home_elo_post" json:"home_elo_post"`
	AwayEloPost  *float64   `db:"away_elo_post" json:"away_elo_post"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsPending checks if the match still awaits a final score.
func (m *Match) IsPending() bool {
	return !m.Completed
}

// HomeResult returns the home side's result for a completed match.
func (m *Match) HomeResult() Result {
	if m.HomeScore == nil || m.AwayScore == nil {
		return ""
	}
	home, _ := ClassifyResult(*m.HomeScore, *m.AwayScore)
	return home
}

// AwayResult returns the away side's result for a completed match.
func (m *Match) AwayResult() Result {
	if m.HomeScore == nil || m.AwayScore == nil {
		return ""
	}
	_, away := ClassifyResult(*m.HomeScore, *m.AwayScore)
	return away
}
