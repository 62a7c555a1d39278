package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yourusername/football-elo/internal/database"
	"github.com/yourusername/football-elo/internal/models"
)

// Parameter rows follow the key/value layout of the admin tooling: each
// tunable lives under a param_key with a JSONB param_value.
const (
	paramKeyBaseK         = "base_k_factor"
	paramKeyKCaps         = "k_caps"
	paramKeyBaselineStats = "baseline_stats"
)

type baselineStats struct {
	AvgHomeAdvantage float64 `json:"avg_home_advantage"`
	BaseDrawPct      float64 `json:"base_draw_pct"`
}

// PostgresParameterRepository implements ParameterRepository for PostgreSQL
type PostgresParameterRepository struct {
	db *database.DB
}

// NewPostgresParameterRepository creates a new parameter repository
func NewPostgresParameterRepository(db *database.DB) ParameterRepository {
	return &PostgresParameterRepository{db: db}
}

// Get loads and assembles the full parameter set. An incomplete set is a
// configuration error surfaced to the caller, never silently defaulted.
func (r *PostgresParameterRepository) Get(ctx context.Context) (*models.ParameterSet, error) {
	query := `SELECT param_key, param_value FROM parameters`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	values := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var value json.RawMessage
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	params := &models.ParameterSet{}

	raw, ok := values[paramKeyBaseK]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrMissingParams, paramKeyBaseK)
	}
	if err := json.Unmarshal(raw, &params.BaseKFactor); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", paramKeyBaseK, err)
	}

	raw, ok = values[paramKeyKCaps]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrMissingParams, paramKeyKCaps)
	}
	if err := json.Unmarshal(raw, &params.KCaps); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", paramKeyKCaps, err)
	}

	raw, ok = values[paramKeyBaselineStats]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrMissingParams, paramKeyBaselineStats)
	}
	var stats baselineStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", paramKeyBaselineStats, err)
	}
	params.HomeAdvantage = stats.AvgHomeAdvantage
	params.DrawBaseline = stats.BaseDrawPct

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return params, nil
}

// Save writes the full parameter set back as key/value rows
func (r *PostgresParameterRepository) Save(ctx context.Context, params *models.ParameterSet) error {
	if err := params.Validate(); err != nil {
		return err
	}

	entries := map[string]interface{}{
		paramKeyBaseK: params.BaseKFactor,
		paramKeyKCaps: params.KCaps,
		paramKeyBaselineStats: baselineStats{
			AvgHomeAdvantage: params.HomeAdvantage,
			BaseDrawPct:      params.DrawBaseline,
		},
	}

	query := `
		INSERT INTO parameters (param_key, param_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (param_key) DO UPDATE SET
			param_value = EXCLUDED.param_value,
			updated_at = NOW()
	`

	for key, value := range entries {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if _, err := r.db.GetPool().Exec(ctx, query, key, encoded); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	return nil
}
