package valve

import (
	"io"
	"time"

	"github.com/freeeve/foundry/pkg/search"
)

// DefaultStart and DefaultMinutes describe the usual puzzle setup.
const (
	DefaultStart   = "AA"
	DefaultMinutes = 30
)

// Options disables pruning rules, mainly for cross-checking.
type Options struct {
	NoBound  bool
	NoLedger bool
}

// Result is the outcome of one release search.
type Result struct {
	Pressure int           `json:"pressure"`
	Minutes  int           `json:"minutes"`
	Stats    search.Stats  `json:"stats"`
	Elapsed  time.Duration `json:"elapsed"`
}

// node is a search position. pos is -1 while still standing at the start.
type node struct {
	pos      int8
	opened   uint64
	left     int
	released int
}

type releaser struct {
	net     *Network
	opts    Options
	best    search.Tracker
	visited *search.Ledger[node]
	stats   search.Stats
}

// Release returns the most pressure that can be released within minutes.
func Release(n *Network, minutes int, opts Options) Result {
	start := time.Now()
	if minutes < 0 {
		minutes = 0
	}
	r := &releaser{net: n, opts: opts}
	if !opts.NoLedger {
		r.visited = search.NewLedger[node]()
	}
	r.walk(node{pos: -1, left: minutes})
	if r.visited != nil {
		r.stats.LedgerSize = r.visited.Len()
	}
	return Result{
		Pressure: r.best.Best(),
		Minutes:  minutes,
		Stats:    r.stats,
		Elapsed:  time.Since(start),
	}
}

// Solve parses input, compresses it from start and runs Release.
func Solve(input io.Reader, start string, minutes int, opts Options) (Result, error) {
	g, err := Parse(input)
	if err != nil {
		return Result{}, err
	}
	n, err := g.Compress(start)
	if err != nil {
		return Result{}, err
	}
	return Release(n, minutes, opts), nil
}

func (r *releaser) dist(from int8, to int) int {
	if from < 0 {
		return r.net.FromStart[to]
	}
	return r.net.Dist[from][to]
}

// ceiling assumes every closed valve is opened as soon as it could be reached
// directly from the current position.
func (r *releaser) ceiling(nd node) int {
	total := nd.released
	for i, rate := range r.net.Rates {
		if nd.opened&(1<<uint(i)) != 0 {
			continue
		}
		if rem := nd.left - r.dist(nd.pos, i) - 1; rem > 0 {
			total += rate * rem
		}
	}
	return total
}

func (r *releaser) walk(nd node) {
	r.stats.Nodes++

	// stopping here is always allowed
	r.best.Offer(nd.released)

	if !r.opts.NoBound && r.ceiling(nd) <= r.best.Best() {
		r.stats.BoundCuts++
		return
	}
	if r.visited != nil && !r.visited.Visit(nd) {
		r.stats.LedgerHits++
		return
	}

	moved := false
	for i, rate := range r.net.Rates {
		bit := uint64(1) << uint(i)
		if nd.opened&bit != 0 {
			continue
		}
		rem := nd.left - r.dist(nd.pos, i) - 1
		if rem <= 0 {
			continue
		}
		moved = true
		r.walk(node{
			pos:      int8(i),
			opened:   nd.opened | bit,
			left:     rem,
			released: nd.released + rate*rem,
		})
	}
	if !moved {
		r.stats.Leaves++
	}
}
