package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/football-elo/internal/database"
	"github.com/yourusername/football-elo/internal/models"
)

// replaceBatchSize bounds the size of each insert batch during a full
// prediction replacement so a season's worth of fixtures never lands in a
// single statement.
const replaceBatchSize = 500

const predictionColumns = `
	id, match_id, event_id, home_elo, away_elo,
	home_win_prob, draw_prob, away_win_prob, home_or_draw_prob, away_or_draw_prob,
	recommended_bet, recommended_prob, confidence, predicted_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// GetAll retrieves all stored predictions joined in fixture date order
func (r *PostgresPredictionRepository) GetAll(ctx context.Context) ([]*models.Prediction, error) {
	query := `
		SELECT p.id, p.match_id, p.event_id, p.home_elo, p.away_elo,
		       p.home_win_prob, p.draw_prob, p.away_win_prob,
		       p.home_or_draw_prob, p.away_or_draw_prob,
		       p.recommended_bet, p.recommended_prob, p.confidence, p.predicted_at
		FROM predictions p
		JOIN matches m ON m.id = p.match_id
		ORDER BY m.match_date ASC, p.event_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		pred, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, pred)
	}

	return predictions, rows.Err()
}

// GetByMatchID retrieves the prediction for a single pending match
func (r *PostgresPredictionRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID) (*models.Prediction, error) {
	query := `SELECT` + predictionColumns + ` FROM predictions WHERE match_id = $1`

	pred, err := scanPrediction(r.db.GetPool().QueryRow(ctx, query, matchID))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return pred, nil
}

// ReplaceAll atomically swaps the whole prediction set: delete everything,
// then reinsert in bounded batches. Reinserting the same computed set is a
// no-op in effect, so a failed run can simply be retried.
func (r *PostgresPredictionRepository) ReplaceAll(ctx context.Context, predictions []*models.Prediction) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM predictions`); err != nil {
			return fmt.Errorf("failed to clear predictions: %w", err)
		}

		for start := 0; start < len(predictions); start += replaceBatchSize {
			end := start + replaceBatchSize
			if end > len(predictions) {
				end = len(predictions)
			}
			if err := insertPredictionBatch(ctx, tx, predictions[start:end]); err != nil {
				return err
			}
		}

		return nil
	})
}

func insertPredictionBatch(ctx context.Context, tx pgx.Tx, predictions []*models.Prediction) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO predictions (id, match_id, event_id, home_elo, away_elo,
		                         home_win_prob, draw_prob, away_win_prob,
		                         home_or_draw_prob, away_or_draw_prob,
		                         recommended_bet, recommended_prob, confidence, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	for _, p := range predictions {
		batch.Queue(query,
			p.ID, p.MatchID, p.EventID, p.HomeElo, p.AwayElo,
			p.HomeWinProb, p.DrawProb, p.AwayWinProb,
			p.HomeOrDrawProb, p.AwayOrDrawProb,
			p.RecommendedBet, p.RecommendedProb, p.Confidence, p.PredictedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range predictions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert prediction batch: %w", err)
		}
	}

	return nil
}

// DeleteByMatchID removes the prediction for a match inside the scoring
// transaction; a match without a prediction is not an error.
func (r *PostgresPredictionRepository) DeleteByMatchID(ctx context.Context, tx pgx.Tx, matchID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM predictions WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to delete prediction: %w", err)
	}
	return nil
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	pred := &models.Prediction{}
	err := row.Scan(
		&pred.ID, &pred.MatchID, &pred.EventID, &pred.HomeElo, &pred.AwayElo,
		&pred.HomeWinProb, &pred.DrawProb, &pred.AwayWinProb,
		&pred.HomeOrDrawProb, &pred.AwayOrDrawProb,
		&pred.RecommendedBet, &pred.RecommendedProb, &pred.Confidence, &pred.PredictedAt,
	)
	if err != nil {
		return nil, err
	}
	return pred, nil
}
