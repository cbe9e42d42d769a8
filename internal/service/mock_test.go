package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/freeeve/foundry/internal/model"
	"github.com/freeeve/foundry/pkg/search"
	"github.com/freeeve/foundry/pkg/valve"
)

type mockCache struct {
	mu      sync.Mutex
	entries map[string]int
	gets    int
	sets    int
	fail    bool
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]int)}
}

func cacheKey(horizon int, costKey string) string {
	return strconv.Itoa(horizon) + ":" + costKey
}

func (m *mockCache) GetGeodes(_ context.Context, horizon int, costKey string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.fail {
		return 0, false, errors.New("cache down")
	}
	n, ok := m.entries[cacheKey(horizon, costKey)]
	return n, ok, nil
}

func (m *mockCache) SetGeodes(_ context.Context, horizon int, costKey string, geodes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.fail {
		return errors.New("cache down")
	}
	m.entries[cacheKey(horizon, costKey)] = geodes
	return nil
}

type mockRunRepo struct {
	mu   sync.Mutex
	runs []model.Run
	fail bool
}

func (m *mockRunRepo) CreateRun(_ context.Context, run *model.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("db down")
	}
	run.ID = "run-" + strconv.Itoa(len(m.runs)+1)
	run.CreatedAt = time.Now()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockRunRepo) ListRuns(_ context.Context, limit int) ([]model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]model.Run(nil), m.runs...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRunRepo) RunsByJob(_ context.Context, jobID string) ([]model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Run
	for _, r := range m.runs {
		if r.JobID == jobID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlueprintID < out[j].BlueprintID })
	return out, nil
}

type sentEvent struct {
	jobID string
	typ   string
	data  any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (b *recordingBroadcaster) BroadcastJobEvent(jobID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{jobID, eventType, data})
}

func (b *recordingBroadcaster) count(typ string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.typ == typ {
			n++
		}
	}
	return n
}

type countingMetrics struct {
	mu       sync.Mutex
	searched int
	cached   int
	valves   int
	active   int
	peak     int
}

func (c *countingMetrics) ObserveBlueprint(_ search.Result, cached bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached {
		c.cached++
	} else {
		c.searched++
	}
}

func (c *countingMetrics) ObserveValves(valve.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valves++
}

func (c *countingMetrics) JobStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active++
	c.peak = max(c.peak, c.active)
}

func (c *countingMetrics) JobFinished() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active--
}
