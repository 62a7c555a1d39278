package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/football-elo/internal/database"
	"github.com/yourusername/football-elo/internal/models"
)

const matchColumns = `
	id, event_id, home_team_name, away_team_name, match_date, season_year,
	is_completed, home_score, away_score,
	home_elo_pre, away_elo_pre, home_elo_change, away_elo_change,
	home_elo_post, away_elo_post, completed_at, created_at, updated_at`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID, &match.EventID, &match.HomeTeamName, &match.AwayTeamName,
		&match.MatchDate, &match.SeasonYear, &match.Completed,
		&match.HomeScore, &match.AwayScore,
		&match.HomeEloPre, &match.AwayEloPre, &match.HomeEloDelta, &match.AwayEloDelta,
		&match.HomeEloPost, &match.AwayEloPost, &match.CompletedAt,
		&match.CreatedAt, &match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

// Create inserts a new fixture
func (r *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, event_id, home_team_name, away_team_name, match_date,
		                     season_year, is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.EventID, match.HomeTeamName, match.AwayTeamName,
		match.MatchDate, match.SeasonYear, match.Completed,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// GetByID retrieves a match by ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// GetPending retrieves all not-yet-played matches ordered by date ascending
func (r *PostgresMatchRepository) GetPending(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT` + matchColumns + `
		FROM matches
		WHERE is_completed = false
		ORDER BY match_date ASC, event_id ASC`

	return r.queryMatches(ctx, query)
}

// GetCompleted retrieves completed matches ordered by date ascending.
// A zero seasonYear returns all seasons.
func (r *PostgresMatchRepository) GetCompleted(ctx context.Context, seasonYear int) ([]*models.Match, error) {
	if seasonYear == 0 {
		query := `SELECT` + matchColumns + `
			FROM matches
			WHERE is_completed = true
			ORDER BY match_date ASC, event_id ASC`
		return r.queryMatches(ctx, query)
	}

	query := `SELECT` + matchColumns + `
		FROM matches
		WHERE is_completed = true AND season_year = $1
		ORDER BY match_date ASC, event_id ASC`
	return r.queryMatches(ctx, query, seasonYear)
}

func (r *PostgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

// RecordCompletion writes the final score, rating snapshots and deltas and
// flips the completion flag in one statement inside the scoring transaction.
// Completed matches are immutable: a second completion attempt affects no rows.
func (r *PostgresMatchRepository) RecordCompletion(ctx context.Context, tx pgx.Tx, match *models.Match) error {
	query := `
		UPDATE matches SET
			is_completed = true,
			home_score = $2, away_score = $3,
			home_elo_pre = $4, away_elo_pre = $5,
			home_elo_change = $6, away_elo_change = $7,
			home_elo_post = $8, away_elo_post = $9,
			completed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_completed = false
	`

	commandTag, err := tx.Exec(ctx, query,
		match.ID, match.HomeScore, match.AwayScore,
		match.HomeEloPre, match.AwayEloPre,
		match.HomeEloDelta, match.AwayEloDelta,
		match.HomeEloPost, match.AwayEloPost,
	)
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrMatchCompleted
	}

	return nil
}

// UpdateEloTrail rewrites the rating snapshots of an already-completed
// match during a full history replay. Scores and the completion flag are
// untouched.
func (r *PostgresMatchRepository) UpdateEloTrail(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET
			home_elo_pre = $2, away_elo_pre = $3,
			home_elo_change = $4, away_elo_change = $5,
			home_elo_post = $6, away_elo_post = $7,
			updated_at = NOW()
		WHERE id = $1 AND is_completed = true
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		match.ID,
		match.HomeEloPre, match.AwayEloPre,
		match.HomeEloDelta, match.AwayEloDelta,
		match.HomeEloPost, match.AwayEloPost,
	)
	if err != nil {
		return fmt.Errorf("failed to update elo trail: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ResetCompletions clears the rating snapshots from every completed match
// ahead of a full history replay; scores and completion flags survive
func (r *PostgresMatchRepository) ResetCompletions(ctx context.Context) error {
	query := `
		UPDATE matches SET
			home_elo_pre = NULL, away_elo_pre = NULL,
			home_elo_change = NULL, away_elo_change = NULL,
			home_elo_post = NULL, away_elo_post = NULL,
			updated_at = NOW()
		WHERE is_completed = true
	`

	_, err := r.db.GetPool().Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to reset completions: %w", err)
	}

	return nil
}
