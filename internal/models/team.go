package models

import "time"

// Starting ratings. Promoted teams begin lower so the progressive K-caps can
// move them to their true level quickly.
const (
	InitialRating      = 1500.0
	PromotedTeamRating = 1400.0
)

// Team represents a tracked team and its current strength rating.
// CurrentRating is mutated only by the scoring pipeline, one completed match
// at a time in chronological order.
type Team struct {
	Name          string    `db:"name" json:"name" validate:"required"`
	CurrentRating float64   `db:"current_elo" json:"current_elo" validate:"required"`
	Promoted      bool      `db:"promoted" json:"promoted"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StartingRating returns the rating a team holds before its first recorded match.
func (t *Team) StartingRating() float64 {
	if t.Promoted {
		return PromotedTeamRating
	}
	return InitialRating
}
