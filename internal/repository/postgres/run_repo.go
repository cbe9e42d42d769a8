package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/freeeve/foundry/internal/model"
)

// RunRepo handles solve history.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

const runColumns = `id, job_id, kind, blueprint_id, cost_key, horizon, value, nodes, cached, duration_ms, created_at`

// CreateRun inserts a run, filling in ID (when empty) and CreatedAt.
func (r *RunRepo) CreateRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO runs (id, job_id, kind, blueprint_id, cost_key, horizon, value, nodes, cached, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		run.ID, run.JobID, run.Kind, run.BlueprintID, run.CostKey, run.Horizon,
		run.Value, run.Nodes, run.Cached, run.DurationMS,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (r *RunRepo) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return scanRuns(rows)
}

// RunsByJob returns every run of one job in blueprint order.
func (r *RunRepo) RunsByJob(ctx context.Context, jobID string) ([]model.Run, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE job_id = $1 ORDER BY blueprint_id, created_at`, jobID)
	if err != nil {
		return nil, fmt.Errorf("runs by job: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]model.Run, error) {
	defer rows.Close()
	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.JobID, &run.Kind, &run.BlueprintID, &run.CostKey, &run.Horizon,
			&run.Value, &run.Nodes, &run.Cached, &run.DurationMS, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
