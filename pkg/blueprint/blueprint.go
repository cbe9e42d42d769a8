// Package blueprint reads robot blueprints, either as the one-sentence-per-line
// text form or as a JSON document, into search.Blueprint values.
package blueprint

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/freeeve/foundry/pkg/search"
)

var (
	ErrMalformed   = errors.New("malformed blueprint")
	ErrDuplicateID = errors.New("duplicate blueprint id")
	ErrEmpty       = errors.New("no blueprints")
)

var linePattern = regexp.MustCompile(
	`^Blueprint\s+(\d+):\s*` +
		`Each ore robot costs (\d+) ore\.\s*` +
		`Each clay robot costs (\d+) ore\.\s*` +
		`Each obsidian robot costs (\d+) ore and (\d+) clay\.\s*` +
		`Each geode robot costs (\d+) ore and (\d+) obsidian\.\s*$`)

// Parse reads one blueprint per non-blank line.
func Parse(r io.Reader) ([]search.Blueprint, error) {
	var bps []search.Blueprint
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		bp, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		bps = append(bps, bp)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read blueprints: %w", err)
	}
	if err := check(bps); err != nil {
		return nil, err
	}
	return bps, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) ([]search.Blueprint, error) {
	return Parse(strings.NewReader(s))
}

// ParseLine parses a single blueprint sentence.
func ParseLine(line string) (search.Blueprint, error) {
	m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return search.Blueprint{}, fmt.Errorf("%w: %q", ErrMalformed, truncate(line, 60))
	}
	var n [7]int
	for i := range n {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return search.Blueprint{}, fmt.Errorf("%w: %q: %w", ErrMalformed, m[i+1], err)
		}
		n[i] = v
	}
	return build(n[0], n[1], n[2], n[3], n[4], n[5], n[6])
}

func build(id, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs int) (search.Blueprint, error) {
	for _, c := range []int{oreOre, clayOre, obsOre, obsClay, geoOre, geoObs} {
		if c <= 0 || c > math.MaxUint16 {
			return search.Blueprint{}, fmt.Errorf("%w: blueprint %d: cost %d out of range", ErrMalformed, id, c)
		}
	}
	bp := search.NewBlueprint(id,
		uint16(oreOre), uint16(clayOre),
		uint16(obsOre), uint16(obsClay),
		uint16(geoOre), uint16(geoObs))
	if err := bp.Validate(); err != nil {
		return search.Blueprint{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return bp, nil
}

// check rejects empty input and repeated ids.
func check(bps []search.Blueprint) error {
	if len(bps) == 0 {
		return ErrEmpty
	}
	seen := make(map[int]bool, len(bps))
	for _, bp := range bps {
		if seen[bp.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, bp.ID)
		}
		seen[bp.ID] = true
	}
	return nil
}

// Format renders bp in the canonical sentence form accepted by ParseLine.
func Format(bp search.Blueprint) string {
	c := bp.Costs
	return fmt.Sprintf("Blueprint %d: Each ore robot costs %d ore. Each clay robot costs %d ore. "+
		"Each obsidian robot costs %d ore and %d clay. Each geode robot costs %d ore and %d obsidian.",
		bp.ID,
		c[search.BuildOre][search.Ore],
		c[search.BuildClay][search.Ore],
		c[search.BuildObsidian][search.Ore], c[search.BuildObsidian][search.Clay],
		c[search.BuildGeode][search.Ore], c[search.BuildGeode][search.Obsidian])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
