// Package metrics exposes solver counters and timings to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freeeve/foundry/pkg/search"
	"github.com/freeeve/foundry/pkg/valve"
)

const (
	namespace = "foundry"
	subsystem = "solver"
)

// Collector records solver activity. A nil *Collector records nothing, so
// callers never need to check whether metrics are enabled.
type Collector struct {
	registry *prometheus.Registry

	solves     *prometheus.CounterVec
	nodes      *prometheus.CounterVec
	cuts       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	activeJobs prometheus.Gauge
}

// New creates a collector on its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solves_total",
				Help:      "Completed solves by problem kind and where the answer came from",
			},
			[]string{"kind", "source"},
		),
		nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "nodes_total",
				Help:      "Search nodes expanded",
			},
			[]string{"kind"},
		),
		cuts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cuts_total",
				Help:      "Subtrees discarded, by pruning rule",
			},
			[]string{"kind", "rule"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Wall time of a single search",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
			[]string{"kind"},
		),
		activeJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_jobs",
				Help:      "Solve jobs currently running",
			},
		),
	}
	c.registry.MustRegister(c.solves, c.nodes, c.cuts, c.duration, c.activeJobs)
	return c
}

// Registry returns the registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveBlueprint records one blueprint result. Cached results carry no
// search work.
func (c *Collector) ObserveBlueprint(res search.Result, cached bool) {
	if c == nil {
		return
	}
	if cached {
		c.solves.WithLabelValues("blueprint", "cache").Inc()
		return
	}
	c.solves.WithLabelValues("blueprint", "search").Inc()
	c.observeStats("blueprint", res.Stats)
	c.duration.WithLabelValues("blueprint").Observe(res.Elapsed.Seconds())
}

// ObserveValves records one valve search.
func (c *Collector) ObserveValves(res valve.Result) {
	if c == nil {
		return
	}
	c.solves.WithLabelValues("valves", "search").Inc()
	c.observeStats("valves", res.Stats)
	c.duration.WithLabelValues("valves").Observe(res.Elapsed.Seconds())
}

func (c *Collector) observeStats(kind string, st search.Stats) {
	c.nodes.WithLabelValues(kind).Add(float64(st.Nodes))
	c.cuts.WithLabelValues(kind, "bound").Add(float64(st.BoundCuts))
	c.cuts.WithLabelValues(kind, "ledger").Add(float64(st.LedgerHits))
	c.cuts.WithLabelValues(kind, "domain").Add(float64(st.DomainCuts))
}

// JobStarted and JobFinished track the active job gauge.
func (c *Collector) JobStarted() {
	if c != nil {
		c.activeJobs.Inc()
	}
}

func (c *Collector) JobFinished() {
	if c != nil {
		c.activeJobs.Dec()
	}
}
