package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/freeeve/foundry/internal/logger"
	"github.com/freeeve/foundry/internal/model"
	"github.com/freeeve/foundry/internal/repository"
	"github.com/freeeve/foundry/pkg/search"
	"github.com/freeeve/foundry/pkg/valve"
)

var (
	ErrNoBlueprints    = errors.New("no blueprints to solve")
	ErrInvalidHorizon  = errors.New("horizon out of range")
	ErrHistoryDisabled = errors.New("run history is not configured")
)

const (
	defaultRunLimit = 50
	maxRunLimit     = 500
)

// MetricsRecorder receives solver observations. *metrics.Collector implements it.
type MetricsRecorder interface {
	ObserveBlueprint(res search.Result, cached bool)
	ObserveValves(res valve.Result)
	JobStarted()
	JobFinished()
}

type noopMetrics struct{}

func (noopMetrics) ObserveBlueprint(search.Result, bool) {}
func (noopMetrics) ObserveValves(valve.Result)           {}
func (noopMetrics) JobStarted()                          {}
func (noopMetrics) JobFinished()                         {}

// SolveOptions tune one batch.
type SolveOptions struct {
	// Parallel splits each blueprint's search tree across goroutines.
	Parallel bool
	// First limits the geode product to the first n blueprints; zero means all.
	First int
}

// SolverService runs blueprint batches and valve searches, consulting the
// result cache and recording history when those stores are configured.
type SolverService struct {
	cache       repository.ResultCache
	runs        repository.RunRepository
	metrics     MetricsRecorder
	broadcaster Broadcaster
	workers     int
	maxHorizon  int
}

// NewSolverService creates a SolverService. Any of cache, runs, rec and b
// may be nil; workers <= 0 means one per CPU.
func NewSolverService(cache repository.ResultCache, runs repository.RunRepository, rec MetricsRecorder, b Broadcaster, workers int) *SolverService {
	if rec == nil {
		rec = noopMetrics{}
	}
	if b == nil {
		b = NoopBroadcaster{}
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &SolverService{cache: cache, runs: runs, metrics: rec, broadcaster: b, workers: workers, maxHorizon: search.MaxMinutes}
}

// SetHorizonLimit caps the horizon and valve minutes a request may ask for.
// Values outside [1, search.MaxMinutes] restore search.MaxMinutes.
func (s *SolverService) SetHorizonLimit(n int) {
	if n < 1 || n > search.MaxMinutes {
		n = search.MaxMinutes
	}
	s.maxHorizon = n
}

// HorizonLimit returns the largest accepted horizon.
func (s *SolverService) HorizonLimit() int {
	return s.maxHorizon
}

func (s *SolverService) checkHorizon(minutes int) error {
	if minutes < 0 || minutes > s.maxHorizon {
		return fmt.Errorf("%w: %d (allowed 0..%d)", ErrInvalidHorizon, minutes, s.maxHorizon)
	}
	return nil
}

// SolveBlueprints finds the best geode count for every blueprint at the
// horizon. Results come back in input order. An empty jobID gets a fresh one.
func (s *SolverService) SolveBlueprints(ctx context.Context, jobID string, bps []search.Blueprint, horizon int, opts SolveOptions) (*model.JobResult, error) {
	if len(bps) == 0 {
		return nil, ErrNoBlueprints
	}
	if err := s.checkHorizon(horizon); err != nil {
		return nil, err
	}
	for i := range bps {
		if err := bps[i].Validate(); err != nil {
			return nil, err
		}
	}
	if jobID == "" {
		jobID = uuid.NewString()
	}
	ctx = logger.WithJobID(ctx, jobID)
	l := logger.ForRequest(ctx)

	s.metrics.JobStarted()
	defer s.metrics.JobFinished()

	start := time.Now()
	results := make([]search.Result, len(bps))
	out := make([]model.BlueprintResult, len(bps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range bps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, cached := s.solveOne(gctx, jobID, &bps[i], horizon, opts)
			results[i] = res
			out[i] = model.BlueprintResult{
				BlueprintID: res.BlueprintID,
				Geodes:      res.Geodes,
				Nodes:       res.Stats.Nodes,
				Cached:      cached,
			}
			s.broadcaster.BroadcastJobEvent(jobID, EventBlueprintSolved, out[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.Warn().Err(err).Msg("Solve job aborted")
		return nil, err
	}

	job := &model.JobResult{
		JobID:   jobID,
		Horizon: horizon,
		Results: out,
		Quality: search.QualitySum(results),
		Product: search.GeodeProduct(results, opts.First),
	}
	s.broadcaster.BroadcastJobEvent(jobID, EventJobFinished, job)

	l.Info().
		Int("blueprints", len(bps)).
		Int("horizon", horizon).
		Int("quality", job.Quality).
		Int("product", job.Product).
		Dur("dur", time.Since(start)).
		Msg("Solve job finished")
	return job, nil
}

// solveOne answers one blueprint from cache or by search. Store failures are
// logged and otherwise ignored; the search result is still good.
func (s *SolverService) solveOne(ctx context.Context, jobID string, bp *search.Blueprint, horizon int, opts SolveOptions) (search.Result, bool) {
	l := logger.ForRequest(ctx).With().Int("blueprint", bp.ID).Int("horizon", horizon).Logger()
	key := bp.Key()

	if s.cache != nil {
		geodes, found, err := s.cache.GetGeodes(ctx, horizon, key)
		if err != nil {
			l.Warn().Err(err).Msg("Result cache lookup failed")
		} else if found {
			res := search.Result{BlueprintID: bp.ID, Minutes: horizon, Geodes: geodes}
			s.metrics.ObserveBlueprint(res, true)
			s.record(ctx, &model.Run{
				JobID: jobID, Kind: model.KindBlueprint, BlueprintID: bp.ID, CostKey: key,
				Horizon: horizon, Value: geodes, Cached: true,
			})
			l.Debug().Int("geodes", geodes).Msg("Blueprint answered from cache")
			return res, true
		}
	}

	var res search.Result
	if opts.Parallel {
		res = search.SolveParallel(bp, horizon, search.Options{})
	} else {
		res = search.Solve(bp, horizon, search.Options{})
	}
	l.Debug().
		Int64("nodes", res.Stats.Nodes).
		Int64("pruned", res.Stats.BoundCuts+res.Stats.LedgerHits+res.Stats.DomainCuts).
		Int("geodes", res.Geodes).
		Dur("dur", res.Elapsed).
		Msg("Blueprint solved")

	if s.cache != nil {
		if err := s.cache.SetGeodes(ctx, horizon, key, res.Geodes); err != nil {
			l.Warn().Err(err).Msg("Result cache store failed")
		}
	}
	s.metrics.ObserveBlueprint(res, false)
	s.record(ctx, &model.Run{
		JobID: jobID, Kind: model.KindBlueprint, BlueprintID: bp.ID, CostKey: key,
		Horizon: horizon, Value: res.Geodes, Nodes: res.Stats.Nodes,
		DurationMS: res.Elapsed.Milliseconds(),
	})
	return res, false
}

func (s *SolverService) record(ctx context.Context, run *model.Run) {
	if s.runs == nil {
		return
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		l := logger.ForRequest(ctx)
		l.Warn().Err(err).Str("kind", run.Kind).Msg("Failed to record run")
	}
}

// SolveValves runs the valve release search on a text network starting at AA.
func (s *SolverService) SolveValves(ctx context.Context, input string, minutes int) (*model.ValveResult, error) {
	if err := s.checkHorizon(minutes); err != nil {
		return nil, err
	}
	jobID := uuid.NewString()
	ctx = logger.WithJobID(ctx, jobID)

	s.metrics.JobStarted()
	defer s.metrics.JobFinished()

	res, err := valve.Solve(strings.NewReader(input), valve.DefaultStart, minutes, valve.Options{})
	if err != nil {
		return nil, fmt.Errorf("solve valves: %w", err)
	}
	s.metrics.ObserveValves(res)
	s.record(ctx, &model.Run{
		JobID: jobID, Kind: model.KindValves, Horizon: minutes, Value: res.Pressure,
		Nodes: res.Stats.Nodes, DurationMS: res.Elapsed.Milliseconds(),
	})

	l := logger.ForRequest(ctx)
	l.Info().
		Int("minutes", minutes).
		Int("pressure", res.Pressure).
		Int64("nodes", res.Stats.Nodes).
		Dur("dur", res.Elapsed).
		Msg("Valve search finished")

	return &model.ValveResult{JobID: jobID, Minutes: minutes, Pressure: res.Pressure, Nodes: res.Stats.Nodes}, nil
}

// ListRuns returns recent history. limit is clamped to [1, 500]; zero means 50.
func (s *SolverService) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	switch {
	case limit <= 0:
		limit = defaultRunLimit
	case limit > maxRunLimit:
		limit = maxRunLimit
	}
	return s.runs.ListRuns(ctx, limit)
}

// JobRuns returns the recorded runs of one job.
func (s *SolverService) JobRuns(ctx context.Context, jobID string) ([]model.Run, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	return s.runs.RunsByJob(ctx, jobID)
}
