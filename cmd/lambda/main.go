//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/freeeve/foundry/internal/logger"
	"github.com/freeeve/foundry/internal/service"
	"github.com/freeeve/foundry/pkg/blueprint"
	"github.com/freeeve/foundry/pkg/search"
	"github.com/freeeve/foundry/pkg/valve"
)

const (
	defaultHorizon = 24
	// a Function URL invocation is capped at 15 minutes of CPU
	maxHorizon = 40
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

var svc = newService()

func newService() *service.SolverService {
	s := service.NewSolverService(nil, nil, nil, nil, 0)
	s.SetHorizonLimit(maxHorizon)
	return s
}

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}
	ctx = logger.WithRequestID(ctx, event.RequestContext.RequestID)

	if strings.HasSuffix(event.RawPath, "/valves") {
		return solveValves(ctx, body)
	}
	return solveBlueprints(ctx, body)
}

func solveBlueprints(ctx context.Context, body string) (events.LambdaFunctionURLResponse, error) {
	doc, err := blueprint.ParseJSON(body)
	if err != nil {
		return errResp(http.StatusBadRequest, err.Error())
	}
	horizon := doc.Horizon
	if !gjson.Get(body, "horizon").Exists() {
		horizon = defaultHorizon
	}

	job, err := svc.SolveBlueprints(ctx, gjson.Get(body, "job_id").String(), doc.Blueprints, horizon, service.SolveOptions{
		Parallel: gjson.Get(body, "parallel").Bool(),
		First:    doc.First,
	})
	if err != nil {
		return failure(err)
	}
	return okResp(job)
}

func solveValves(ctx context.Context, body string) (events.LambdaFunctionURLResponse, error) {
	if !gjson.Valid(body) {
		return errResp(http.StatusBadRequest, "invalid JSON")
	}
	input := gjson.Get(body, "input")
	if !input.Exists() || input.String() == "" {
		return errResp(http.StatusBadRequest, "missing input field")
	}
	minutes := valve.DefaultMinutes
	if m := gjson.Get(body, "minutes"); m.Exists() {
		minutes = int(m.Int())
	}

	res, err := svc.SolveValves(ctx, input.String(), minutes)
	if err != nil {
		return failure(err)
	}
	return okResp(res)
}

func failure(err error) (events.LambdaFunctionURLResponse, error) {
	switch {
	case errors.Is(err, service.ErrInvalidHorizon),
		errors.Is(err, service.ErrNoBlueprints),
		errors.Is(err, search.ErrInvalidBlueprint),
		errors.Is(err, valve.ErrMalformed),
		errors.Is(err, valve.ErrUnknownValve),
		errors.Is(err, valve.ErrDuplicateValve),
		errors.Is(err, valve.ErrTooManyValves):
		return errResp(http.StatusBadRequest, err.Error())
	}
	log.Error().Err(err).Msg("Solve failed")
	return errResp(http.StatusInternalServerError, "solve failed")
}

func okResp(v any) (events.LambdaFunctionURLResponse, error) {
	respJSON, err := json.Marshal(v)
	if err != nil {
		return errResp(http.StatusInternalServerError, "encode response")
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	logger.Init("")
	lambda.Start(handler)
}
