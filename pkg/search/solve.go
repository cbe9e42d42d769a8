package search

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options switches individual pruning rules off. The zero value enables
// everything; disabling all three gives a plain exhaustive enumeration that
// must reach the same answer.
type Options struct {
	NoBound  bool // skip the optimistic-yield cut
	NoLedger bool // skip duplicate-state elimination
	NoDomain bool // skip deadline and robot-cap rules

	// Observe, when set, is called for every edge of the search tree with
	// the state a node received and the state handed to its child. With
	// SolveParallel it is called from several goroutines.
	Observe func(parent, child State)
}

// Stats counts what the search did.
type Stats struct {
	Nodes      int64 `json:"nodes"`
	Leaves     int64 `json:"leaves"`
	BoundCuts  int64 `json:"bound_cuts"`
	LedgerHits int64 `json:"ledger_hits"`
	DomainCuts int64 `json:"domain_cuts"`
	LedgerSize int   `json:"ledger_size"`
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.Leaves += o.Leaves
	s.BoundCuts += o.BoundCuts
	s.LedgerHits += o.LedgerHits
	s.DomainCuts += o.DomainCuts
}

// Result is the outcome of searching one blueprint.
type Result struct {
	BlueprintID int           `json:"blueprint_id"`
	Minutes     int           `json:"minutes"`
	Geodes      int           `json:"geodes"`
	Stats       Stats         `json:"stats"`
	Elapsed     time.Duration `json:"elapsed"`
}

// solver carries everything one search thread needs. best and visited are
// scoped to a single blueprint and may be shared by parallel solvers.
type solver struct {
	bp      *Blueprint
	dl      Deadlines
	opts    Options
	best    *Tracker
	visited Visited[State]
	stats   Stats

	// spawn, when set, receives the children of the next expanded node
	// instead of recursing into them.
	spawn func(State)
}

// MaxMinutes is the longest horizon whose counts fit a Vector slot. Income of
// any kind in minute i is at most i (one starting robot plus at most one new
// robot a minute), so a stockpile never exceeds n(n+1)/2, and 361 is the
// largest n with n(n+1)/2 <= math.MaxUint16.
const MaxMinutes = 361

// clampMinutes bounds the horizon to [0, MaxMinutes]. Result.Minutes reports
// the clamped value.
func clampMinutes(minutes int) int {
	if minutes < 0 {
		return 0
	}
	if minutes > MaxMinutes {
		return MaxMinutes
	}
	return minutes
}

// Solve returns the largest number of geodes bp can crack in the given
// number of minutes, starting from one ore robot and an empty stockpile.
func Solve(bp *Blueprint, minutes int, opts Options) Result {
	start := time.Now()
	minutes = clampMinutes(minutes)

	sv := &solver{
		bp:   bp,
		dl:   ComputeDeadlines(bp),
		opts: opts,
		best: &Tracker{},
	}
	if !opts.NoLedger {
		sv.visited = NewLedger[State]()
	}
	sv.advance(InitialState(minutes))

	res := Result{
		BlueprintID: bp.ID,
		Minutes:     minutes,
		Geodes:      sv.best.Best(),
		Stats:       sv.stats,
		Elapsed:     time.Since(start),
	}
	if sv.visited != nil {
		res.Stats.LedgerSize = sv.visited.Len()
	}
	return res
}

// SolveParallel is Solve with the subtrees below the root explored
// concurrently. The workers share one ledger and one incumbent, so the
// answer is identical to Solve; only the node counts may differ.
func SolveParallel(bp *Blueprint, minutes int, opts Options) Result {
	start := time.Now()
	minutes = clampMinutes(minutes)

	best := &Tracker{}
	var visited Visited[State]
	if !opts.NoLedger {
		visited = NewSyncLedger(hashState)
	}
	dl := ComputeDeadlines(bp)

	var children []State
	root := &solver{bp: bp, dl: dl, opts: opts, best: best, visited: visited}
	root.spawn = func(s State) { children = append(children, s) }
	root.advance(InitialState(minutes))

	workers := make([]*solver, len(children))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, child := range children {
		sv := &solver{bp: bp, dl: dl, opts: opts, best: best, visited: visited}
		workers[i] = sv
		g.Go(func() error {
			sv.advance(child)
			return nil
		})
	}
	_ = g.Wait()

	stats := root.stats
	for _, sv := range workers {
		stats.add(sv.stats)
	}
	if visited != nil {
		stats.LedgerSize = visited.Len()
	}
	return Result{
		BlueprintID: bp.ID,
		Minutes:     minutes,
		Geodes:      best.Best(),
		Stats:       stats,
		Elapsed:     time.Since(start),
	}
}

// advance expands one node. s is owned by this call.
func (sv *solver) advance(s State) {
	sv.stats.Nodes++
	in := s

	if s.TimeLeft == 0 {
		sv.stats.Leaves++
		sv.best.Offer(int(s.Resources[Geode]))
		return
	}
	s.TimeLeft--
	s.collect()

	if !sv.opts.NoBound {
		reach := int(s.Resources[Geode]) + OptimisticYield(int(s.Robots[Geode]), int(s.TimeLeft)+1)
		if reach <= sv.best.Best() {
			sv.stats.BoundCuts++
			return
		}
	}

	s.finishPending()

	if sv.visited != nil && !sv.visited.Visit(s) {
		sv.stats.LedgerHits++
		return
	}

	if !sv.opts.NoDomain && sv.dl.hopeless(&s) {
		sv.stats.DomainCuts++
		return
	}

	next := sv.advance
	if sv.spawn != nil {
		next = sv.spawn
		sv.spawn = nil
	}

	for _, a := range buildOrder {
		if !sv.opts.NoDomain && !sv.dl.worthBuilding(&s, a) {
			continue
		}
		child, ok := s.start(sv.bp, a)
		if !ok {
			continue
		}
		sv.observe(in, child)
		next(child)
	}

	// Waiting is always an option.
	sv.observe(in, s)
	next(s)
}

func (sv *solver) observe(parent, child State) {
	if sv.opts.Observe != nil {
		sv.opts.Observe(parent, child)
	}
}
