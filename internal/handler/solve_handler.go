package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/freeeve/foundry/internal/model"
	"github.com/freeeve/foundry/internal/service"
	"github.com/freeeve/foundry/pkg/blueprint"
	"github.com/freeeve/foundry/pkg/valve"
)

var validate = validator.New()

// solveRequest carries the options around the blueprint list, which
// blueprint.ParseJSON reads from the same body.
type solveRequest struct {
	JobID    string `json:"job_id" validate:"omitempty,max=64,printascii"`
	Horizon  int    `json:"horizon" validate:"min=0,max=361"`
	First    int    `json:"first" validate:"min=0"`
	Parallel bool   `json:"parallel"`
}

type valveRequest struct {
	Input   string `json:"input" validate:"required"`
	Minutes *int   `json:"minutes" validate:"omitempty,min=0,max=361"`
}

// SolveHandler serves the solver endpoints.
type SolveHandler struct {
	svc            *service.SolverService
	defaultHorizon int
}

// NewSolveHandler creates a SolveHandler. Requests without a horizon use
// defaultHorizon.
func NewSolveHandler(svc *service.SolverService, defaultHorizon int) *SolveHandler {
	return &SolveHandler{svc: svc, defaultHorizon: defaultHorizon}
}

// readBody reads the whole request body, answering 413 or 400 itself on
// failure.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "failed to read request body")
		}
		return nil, false
	}
	return body, true
}

// Solve handles POST /api/v1/solve
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	doc, err := blueprint.ParseJSON(string(body))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	req := solveRequest{
		JobID:    gjson.GetBytes(body, "job_id").String(),
		Horizon:  doc.Horizon,
		First:    doc.First,
		Parallel: gjson.GetBytes(body, "parallel").Bool(),
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !gjson.GetBytes(body, "horizon").Exists() {
		req.Horizon = h.defaultHorizon
	}

	job, err := h.svc.SolveBlueprints(r.Context(), req.JobID, doc.Blueprints, req.Horizon, service.SolveOptions{
		Parallel: req.Parallel,
		First:    req.First,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// Valves handles POST /api/v1/valves
func (h *SolveHandler) Valves(w http.ResponseWriter, r *http.Request) {
	var req valveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	minutes := valve.DefaultMinutes
	if req.Minutes != nil {
		minutes = *req.Minutes
	}

	res, err := h.svc.SolveValves(r.Context(), req.Input, minutes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListRuns handles GET /api/v1/runs?limit=N
func (h *SolveHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	runs, err := h.svc.ListRuns(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// JobRuns handles GET /api/v1/runs/{jobId}
func (h *SolveHandler) JobRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.svc.JobRuns(r.Context(), r.PathValue("jobId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(runs) == 0 {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
