package blueprint

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/freeeve/foundry/pkg/search"
)

// Document is a solve request read from JSON.
type Document struct {
	Horizon    int
	First      int
	Blueprints []search.Blueprint
}

// ParseJSON reads a document of the form
//
//	{"horizon": 24, "first": 3, "blueprints": [
//	  {"id": 1, "ore": 4, "clay": 2,
//	   "obsidian": {"ore": 3, "clay": 14},
//	   "geode": {"ore": 2, "obsidian": 7}}]}
//
// "input" may replace "blueprints" with the text form. A missing horizon is
// returned as zero so callers can apply their own default.
func ParseJSON(doc string) (*Document, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.Parse(doc)

	d := &Document{
		Horizon: int(root.Get("horizon").Int()),
		First:   int(root.Get("first").Int()),
	}
	if d.Horizon < 0 {
		return nil, fmt.Errorf("%w: negative horizon %d", ErrMalformed, d.Horizon)
	}

	if input := root.Get("input"); input.Exists() {
		bps, err := ParseString(input.String())
		if err != nil {
			return nil, err
		}
		d.Blueprints = bps
		return d, nil
	}

	list := root.Get("blueprints")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: expected a blueprints array", ErrMalformed)
	}
	var firstErr error
	list.ForEach(func(_, v gjson.Result) bool {
		bp, err := build(
			int(v.Get("id").Int()),
			int(v.Get("ore").Int()),
			int(v.Get("clay").Int()),
			int(v.Get("obsidian.ore").Int()),
			int(v.Get("obsidian.clay").Int()),
			int(v.Get("geode.ore").Int()),
			int(v.Get("geode.obsidian").Int()),
		)
		if err != nil {
			firstErr = err
			return false
		}
		d.Blueprints = append(d.Blueprints, bp)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if err := check(d.Blueprints); err != nil {
		return nil, err
	}
	return d, nil
}
