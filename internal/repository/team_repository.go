package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/football-elo/internal/database"
	"github.com/yourusername/football-elo/internal/models"
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Upsert inserts a team or updates its rating and promoted flag
func (r *PostgresTeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, current_elo, promoted, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			current_elo = EXCLUDED.current_elo,
			promoted = EXCLUDED.promoted,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query, team.Name, team.CurrentRating, team.Promoted)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// GetByName retrieves a team by its unique name
func (r *PostgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `
		SELECT name, current_elo, promoted, created_at, updated_at
		FROM teams WHERE name = $1
	`

	team := &models.Team{}
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(
		&team.Name, &team.CurrentRating, &team.Promoted, &team.CreatedAt, &team.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// GetAll retrieves all teams ordered by rating, strongest first
func (r *PostgresTeamRepository) GetAll(ctx context.Context) ([]*models.Team, error) {
	query := `
		SELECT name, current_elo, promoted, created_at, updated_at
		FROM teams
		ORDER BY current_elo DESC, name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		err := rows.Scan(&team.Name, &team.CurrentRating, &team.Promoted, &team.CreatedAt, &team.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// GetRatings retrieves the current rating table keyed by team name
func (r *PostgresTeamRepository) GetRatings(ctx context.Context) (map[string]float64, error) {
	query := `SELECT name, current_elo FROM teams`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string]float64)
	for rows.Next() {
		var name string
		var rating float64
		if err := rows.Scan(&name, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings[name] = rating
	}

	return ratings, rows.Err()
}

// GetRatingForUpdate reads a team's current rating with a row lock, so two
// scoring events touching the same team cannot interleave.
func (r *PostgresTeamRepository) GetRatingForUpdate(ctx context.Context, tx pgx.Tx, name string) (float64, error) {
	query := `SELECT current_elo FROM teams WHERE name = $1 FOR UPDATE`

	var rating float64
	err := tx.QueryRow(ctx, query, name).Scan(&rating)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("team %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock team rating: %w", err)
	}

	return rating, nil
}

// UpdateRating sets a team's current rating inside the scoring transaction
func (r *PostgresTeamRepository) UpdateRating(ctx context.Context, tx pgx.Tx, name string, rating float64) error {
	query := `UPDATE teams SET current_elo = $2, updated_at = NOW() WHERE name = $1`

	commandTag, err := tx.Exec(ctx, query, name, rating)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return fmt.Errorf("team %q: %w", name, models.ErrNotFound)
	}

	return nil
}

// ResetRatings restores every team to its starting rating, used before a
// full history replay
func (r *PostgresTeamRepository) ResetRatings(ctx context.Context) error {
	query := `
		UPDATE teams SET
			current_elo = CASE WHEN promoted THEN $1::double precision ELSE $2::double precision END,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query, models.PromotedTeamRating, models.InitialRating)
	if err != nil {
		return fmt.Errorf("failed to reset ratings: %w", err)
	}

	return nil
}
