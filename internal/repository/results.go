package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/petrolens/petrolens/internal/models"
)

// ResultRepository persists completed analysis runs as JSON documents so the
// rendering layer can rebind to them without recomputation.
type ResultRepository struct {
	pool DatabasePool
}

// NewResultRepository creates a new analysis result repository.
func NewResultRepository(pool DatabasePool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SaveResult stores one analysis run keyed by its run ID.
func (r *ResultRepository) SaveResult(ctx context.Context, result *models.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO analysis_results (run_id, generated_at, payload)
		 VALUES ($1, $2, $3)`,
		result.RunID, result.GeneratedAt, payload)
	if err != nil {
		return fmt.Errorf("failed to insert analysis result %s: %w", result.RunID, err)
	}
	return nil
}

// LoadResult fetches one analysis run by ID.
func (r *ResultRepository) LoadResult(ctx context.Context, runID uuid.UUID) (*models.AnalysisResult, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM analysis_results WHERE run_id = $1`, runID).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis result %s: %w", runID, err)
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis result %s: %w", runID, err)
	}
	return &result, nil
}

// LoadLatestResult fetches the most recently generated analysis run, or nil
// when none exists.
func (r *ResultRepository) LoadLatestResult(ctx context.Context) (*models.AnalysisResult, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM analysis_results ORDER BY generated_at DESC LIMIT 1`).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest analysis result: %w", err)
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal latest analysis result: %w", err)
	}
	return &result, nil
}
