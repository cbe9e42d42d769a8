package handler

import (
	"net/http"

	"github.com/freeeve/foundry/internal/auth"
	"github.com/freeeve/foundry/internal/middleware"
)

const defaultMaxBody = 1 << 20

// Routes are the pieces NewRouter mounts. Metrics may be nil.
type Routes struct {
	Solve   *SolveHandler
	WS      *WSHandler
	JWT     *auth.JWTManager
	Metrics http.Handler
	MaxBody int64
}

// NewRouter builds the full HTTP handler with global middleware applied.
func NewRouter(rt Routes) http.Handler {
	if rt.MaxBody <= 0 {
		rt.MaxBody = defaultMaxBody
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("POST /solve", rt.Solve.Solve)
	api.HandleFunc("POST /valves", rt.Solve.Valves)
	api.HandleFunc("GET /runs", rt.Solve.ListRuns)
	api.HandleFunc("GET /runs/{jobId}", rt.Solve.JobRuns)
	protected := middleware.Chain(api, auth.Middleware(rt.JWT), middleware.MaxBody(rt.MaxBody), middleware.JSON)
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", protected))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", rt.WS.ServeWS)

	return middleware.Chain(mux, middleware.Recover, middleware.Logger, middleware.CORS("*"))
}
