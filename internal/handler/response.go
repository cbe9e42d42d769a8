package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/foundry/internal/service"
	"github.com/freeeve/foundry/pkg/blueprint"
	"github.com/freeeve/foundry/pkg/search"
	"github.com/freeeve/foundry/pkg/valve"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

var badInput = []error{
	blueprint.ErrMalformed,
	blueprint.ErrEmpty,
	blueprint.ErrDuplicateID,
	search.ErrInvalidBlueprint,
	valve.ErrMalformed,
	valve.ErrUnknownValve,
	valve.ErrTooManyValves,
	valve.ErrDuplicateValve,
	service.ErrNoBlueprints,
	service.ErrInvalidHorizon,
}

func statusFor(err error) int {
	for _, target := range badInput {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	switch {
	case errors.Is(err, service.ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// decodeJSON reads and decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
