package model

import "time"

// Run kinds.
const (
	KindBlueprint = "blueprint"
	KindValves    = "valves"
)

// Run is one recorded solve: a single blueprint at a horizon, or one valve
// network at a minute budget.
type Run struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	Kind        string    `json:"kind"`
	BlueprintID int       `json:"blueprint_id,omitempty"`
	CostKey     string    `json:"cost_key,omitempty"`
	Horizon     int       `json:"horizon"`
	Value       int       `json:"value"` // geodes, or pressure for valves
	Nodes       int64     `json:"nodes"`
	Cached      bool      `json:"cached"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// BlueprintResult is the per-blueprint outcome returned to API and CLI callers.
type BlueprintResult struct {
	BlueprintID int   `json:"blueprint_id"`
	Geodes      int   `json:"geodes"`
	Nodes       int64 `json:"nodes"`
	Cached      bool  `json:"cached"`
}

// JobResult summarises one batch of blueprints.
type JobResult struct {
	JobID   string            `json:"job_id"`
	Horizon int               `json:"horizon"`
	Results []BlueprintResult `json:"results"`
	Quality int               `json:"quality"`
	Product int               `json:"product"`
}

// ValveResult is the outcome of a valve release search.
type ValveResult struct {
	JobID    string `json:"job_id"`
	Minutes  int    `json:"minutes"`
	Pressure int    `json:"pressure"`
	Nodes    int64  `json:"nodes"`
}
