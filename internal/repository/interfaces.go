package repository

import (
	"context"

	"github.com/freeeve/foundry/internal/model"
)

// ResultCache remembers solved blueprints (Redis). Entries are keyed by the
// cost signature, not the blueprint id, so renumbered inputs still hit.
type ResultCache interface {
	GetGeodes(ctx context.Context, horizon int, costKey string) (int, bool, error)
	SetGeodes(ctx context.Context, horizon int, costKey string, geodes int) error
}

// RunRepository stores solve history (Postgres).
type RunRepository interface {
	CreateRun(ctx context.Context, run *model.Run) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	RunsByJob(ctx context.Context, jobID string) ([]model.Run, error)
}
