package blueprint

import (
	"errors"
	"strings"
	"testing"

	"github.com/freeeve/foundry/pkg/search"
)

const exampleInput = `Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian.

Blueprint 2:
  Each ore robot costs 2 ore.
  Each clay robot costs 3 ore.
  Each obsidian robot costs 3 ore and 8 clay.
  Each geode robot costs 3 ore and 12 obsidian.
`

func TestParse_Example(t *testing.T) {
	// the second blueprint is wrapped across lines; Parse only accepts one per line
	_, err := ParseString(exampleInput)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for a wrapped blueprint, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected the error to name line 3, got %v", err)
	}

	oneLine := strings.Join(strings.Fields(exampleInput), " ")
	oneLine = strings.Replace(oneLine, " Blueprint 2:", "\nBlueprint 2:", 1)
	bps, err := ParseString(oneLine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bps) != 2 {
		t.Fatalf("expected 2 blueprints, got %d", len(bps))
	}
	want1 := search.NewBlueprint(1, 4, 2, 3, 14, 2, 7)
	want2 := search.NewBlueprint(2, 2, 3, 3, 8, 3, 12)
	if bps[0] != want1 {
		t.Errorf("blueprint 1: expected %+v, got %+v", want1, bps[0])
	}
	if bps[1] != want2 {
		t.Errorf("blueprint 2: expected %+v, got %+v", want2, bps[1])
	}
}

func TestParseLine_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"garbage", "not a blueprint"},
		{"missing geode", "Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay."},
		{"zero cost", "Blueprint 1: Each ore robot costs 0 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian."},
		{"zero id", "Blueprint 0: Each ore robot costs 4 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian."},
		{"cost overflow", "Blueprint 1: Each ore robot costs 70000 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLine(tt.line); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParse_EmptyAndDuplicate(t *testing.T) {
	if _, err := ParseString("\n  \n"); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	bp := search.NewBlueprint(5, 4, 2, 3, 14, 2, 7)
	dup := Format(bp) + "\n" + Format(bp) + "\n"
	if _, err := ParseString(dup); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	bp := search.NewBlueprint(9, 3, 4, 4, 18, 4, 11)
	got, err := ParseLine(Format(bp))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != bp {
		t.Errorf("expected %+v, got %+v", bp, got)
	}
}

func TestParseJSON(t *testing.T) {
	doc := `{
		"horizon": 32,
		"first": 1,
		"blueprints": [
			{"id": 1, "ore": 4, "clay": 2, "obsidian": {"ore": 3, "clay": 14}, "geode": {"ore": 2, "obsidian": 7}},
			{"id": 2, "ore": 2, "clay": 3, "obsidian": {"ore": 3, "clay": 8}, "geode": {"ore": 3, "obsidian": 12}}
		]
	}`
	d, err := ParseJSON(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Horizon != 32 || d.First != 1 {
		t.Errorf("expected horizon 32 first 1, got %d/%d", d.Horizon, d.First)
	}
	if len(d.Blueprints) != 2 {
		t.Fatalf("expected 2 blueprints, got %d", len(d.Blueprints))
	}
	if want := search.NewBlueprint(2, 2, 3, 3, 8, 3, 12); d.Blueprints[1] != want {
		t.Errorf("expected %+v, got %+v", want, d.Blueprints[1])
	}
}

func TestParseJSON_TextInput(t *testing.T) {
	bp := search.NewBlueprint(1, 4, 2, 3, 14, 2, 7)
	doc := `{"input": "` + Format(bp) + `"}`
	d, err := ParseJSON(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Horizon != 0 {
		t.Errorf("missing horizon should be 0, got %d", d.Horizon)
	}
	if len(d.Blueprints) != 1 || d.Blueprints[0] != bp {
		t.Errorf("unexpected blueprints %+v", d.Blueprints)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"invalid json", `{"blueprints": [`, ErrMalformed},
		{"no array", `{"blueprints": 3}`, ErrMalformed},
		{"negative horizon", `{"horizon": -1, "blueprints": []}`, ErrMalformed},
		{"missing costs", `{"blueprints": [{"id": 1, "ore": 4}]}`, ErrMalformed},
		{"empty", `{"blueprints": []}`, ErrEmpty},
		{"duplicate", `{"blueprints": [
			{"id": 1, "ore": 1, "clay": 1, "obsidian": {"ore": 1, "clay": 1}, "geode": {"ore": 1, "obsidian": 1}},
			{"id": 1, "ore": 2, "clay": 1, "obsidian": {"ore": 1, "clay": 1}, "geode": {"ore": 1, "obsidian": 1}}]}`, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSON(tt.doc); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
