// Package repository persists screening runs in PostgreSQL.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cwhuang/valuescan/internal/models"
)

// ResultsRepository handles database operations for screening runs
type ResultsRepository struct {
	pool *pgxpool.Pool
}

// RunInfo summarizes a stored screening run without its result payload
type RunInfo struct {
	ID            int64     `json:"id"`
	Tag           string    `json:"tag"`
	CreatedAt     time.Time `json:"created_at"`
	TotalScreened int       `json:"total_screened"`
	TotalPassed   int       `json:"total_passed"`
}

// NewResultsRepository creates a new ResultsRepository
func NewResultsRepository(pool *pgxpool.Pool) *ResultsRepository {
	return &ResultsRepository{pool: pool}
}

// EnsureSchema creates the screening_run table if it does not exist
func (r *ResultsRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS screening_run (
			id             BIGSERIAL PRIMARY KEY,
			tag            TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL,
			total_screened INT NOT NULL,
			total_passed   INT NOT NULL,
			payload        JSONB NOT NULL
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create screening_run table: %w", err)
	}
	return nil
}

// SaveRun stores a screening run and returns its ID
func (r *ResultsRepository) SaveRun(ctx context.Context, payload *models.RunPayload) (int64, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal run payload: %w", err)
	}

	query := `
		INSERT INTO screening_run (tag, created_at, total_screened, total_passed, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err = r.pool.QueryRow(ctx, query,
		payload.Tag, payload.Timestamp, payload.TotalScreened, payload.TotalPassed, raw,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert screening run: %w", err)
	}
	return id, nil
}

// GetLatestRun retrieves the most recent run payload for a tag.
// Returns nil when no run exists for the tag.
func (r *ResultsRepository) GetLatestRun(ctx context.Context, tag string) (*models.RunPayload, error) {
	query := `
		SELECT payload
		FROM screening_run
		WHERE tag = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var raw []byte
	err := r.pool.QueryRow(ctx, query, tag).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	var payload models.RunPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run payload: %w", err)
	}
	return &payload, nil
}

// ListRuns returns run summaries, most recent first
func (r *ResultsRepository) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `
		SELECT id, tag, created_at, total_screened, total_passed
		FROM screening_run
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query screening runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.ID, &info.Tag, &info.CreatedAt, &info.TotalScreened, &info.TotalPassed); err != nil {
			return nil, fmt.Errorf("failed to scan run info: %w", err)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}
