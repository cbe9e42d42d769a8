// Package valve maximises the pressure released from a network of valves
// joined by tunnels, using the same bounded depth-first engine as the
// geode search.
package valve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrMalformed      = errors.New("malformed valve line")
	ErrUnknownValve   = errors.New("unknown valve")
	ErrTooManyValves  = errors.New("too many flowing valves")
	ErrDuplicateValve = errors.New("duplicate valve")
)

// MaxFlowing is the number of positive-rate valves an opened set can track.
const MaxFlowing = 63

const unreachable = math.MaxInt32

var linePattern = regexp.MustCompile(
	`^Valve (\w+) has flow rate=(\d+); tunnels? leads? to valves? (\w+(?:,\s*\w+)*)$`)

// Valve is one parsed input line.
type Valve struct {
	Name    string
	Rate    int
	Tunnels []string
}

// Graph is the raw tunnel network.
type Graph struct {
	Valves map[string]*Valve
	order  []string
}

// Parse reads one valve per non-blank line and checks every tunnel endpoint.
func Parse(r io.Reader) (*Graph, error) {
	g := &Graph{Valves: make(map[string]*Valve)}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrMalformed, line)
		}
		rate, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: rate %q: %w", lineNo, ErrMalformed, m[2], err)
		}
		if _, dup := g.Valves[m[1]]; dup {
			return nil, fmt.Errorf("line %d: %w: %s", lineNo, ErrDuplicateValve, m[1])
		}
		v := &Valve{Name: m[1], Rate: rate}
		for _, t := range strings.Split(m[3], ",") {
			v.Tunnels = append(v.Tunnels, strings.TrimSpace(t))
		}
		g.Valves[v.Name] = v
		g.order = append(g.order, v.Name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read valves: %w", err)
	}
	for _, name := range g.order {
		for _, t := range g.Valves[name].Tunnels {
			if _, ok := g.Valves[t]; !ok {
				return nil, fmt.Errorf("%w: %s (tunnel from %s)", ErrUnknownValve, t, name)
			}
		}
	}
	return g, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Graph, error) {
	return Parse(strings.NewReader(s))
}

// Network is a Graph reduced to its flowing valves and the shortest walking
// distances between them.
type Network struct {
	Start     string
	Names     []string
	Rates     []int
	Dist      [][]int
	FromStart []int
}

// Compress keeps only valves with a positive rate, ordered by name, and
// measures tunnel distances between them with a breadth-first walk.
func (g *Graph) Compress(start string) (*Network, error) {
	if _, ok := g.Valves[start]; !ok {
		return nil, fmt.Errorf("%w: start %s", ErrUnknownValve, start)
	}
	var names []string
	for _, name := range g.order {
		if g.Valves[name].Rate > 0 {
			names = append(names, name)
		}
	}
	if len(names) > MaxFlowing {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyValves, len(names), MaxFlowing)
	}
	sort.Strings(names)

	n := &Network{
		Start: start,
		Names: names,
		Rates: make([]int, len(names)),
		Dist:  make([][]int, len(names)),
	}
	pick := func(d map[string]int) []int {
		row := make([]int, len(names))
		for i, name := range names {
			if v, ok := d[name]; ok {
				row[i] = v
			} else {
				row[i] = unreachable
			}
		}
		return row
	}
	for i, name := range names {
		n.Rates[i] = g.Valves[name].Rate
		n.Dist[i] = pick(g.distances(name))
	}
	n.FromStart = pick(g.distances(start))
	return n, nil
}

// distances returns the tunnel count from one valve to every reachable one.
func (g *Graph) distances(from string) map[string]int {
	dist := map[string]int{from: 0}
	queue := []string{from}
	for len(queue) > 0 {
		next := []string{}
		for _, name := range queue {
			for _, t := range g.Valves[name].Tunnels {
				if _, seen := dist[t]; seen {
					continue
				}
				dist[t] = dist[name] + 1
				next = append(next, t)
			}
		}
		queue = next
	}
	return dist
}
