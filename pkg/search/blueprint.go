package search

import (
	"errors"
	"fmt"
)

// Action is a decision taken in one minute: build one robot, or wait.
type Action int8

const (
	BuildOre Action = iota
	BuildClay
	BuildObsidian
	BuildGeode

	// NoAction marks a state with no robot under construction.
	NoAction Action = -1
)

// buildOrder is the branch order tried at every node. Geode robots first
// tighten the incumbent early, which makes the bound cut more.
var buildOrder = [NumKinds]Action{BuildGeode, BuildObsidian, BuildClay, BuildOre}

// Produces returns the resource kind collected by the robot a builds.
func (a Action) Produces() Kind {
	return Kind(a)
}

func (a Action) String() string {
	if a == NoAction {
		return "wait"
	}
	if a < 0 || int(a) >= NumKinds {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return "build-" + Kind(a).String()
}

// ErrInvalidBlueprint is returned by Validate for blueprints the search
// cannot use.
var ErrInvalidBlueprint = errors.New("invalid blueprint")

// Blueprint is the catalog of robot costs for one problem instance.
// It is never modified once a search starts.
type Blueprint struct {
	ID    int
	Costs [NumKinds]Vector // indexed by the robot's Action / produced Kind
}

// NewBlueprint builds a blueprint in the shape used by the puzzle input:
// ore and clay robots cost ore, obsidian robots cost ore and clay, geode
// robots cost ore and obsidian.
func NewBlueprint(id int, oreRobotOre, clayRobotOre, obsidianRobotOre, obsidianRobotClay, geodeRobotOre, geodeRobotObsidian uint16) Blueprint {
	var bp Blueprint
	bp.ID = id
	bp.Costs[BuildOre] = Vector{oreRobotOre, 0, 0, 0}
	bp.Costs[BuildClay] = Vector{clayRobotOre, 0, 0, 0}
	bp.Costs[BuildObsidian] = Vector{obsidianRobotOre, obsidianRobotClay, 0, 0}
	bp.Costs[BuildGeode] = Vector{geodeRobotOre, 0, geodeRobotObsidian, 0}
	return bp
}

// Cost returns the resources consumed by action a.
func (bp *Blueprint) Cost(a Action) Vector {
	if a == NoAction {
		return Vector{}
	}
	return bp.Costs[a]
}

// Validate checks that every robot has a positive cost and that the
// production chain ore → clay → obsidian → geode is intact.
func (bp *Blueprint) Validate() error {
	if bp.ID <= 0 {
		return fmt.Errorf("%w: id %d must be positive", ErrInvalidBlueprint, bp.ID)
	}
	for _, a := range []Action{BuildOre, BuildClay, BuildObsidian, BuildGeode} {
		c := bp.Costs[a]
		if c[Ore] == 0 {
			return fmt.Errorf("%w: blueprint %d: %s must cost ore", ErrInvalidBlueprint, bp.ID, a)
		}
		if c[Geode] != 0 {
			return fmt.Errorf("%w: blueprint %d: %s cannot cost geodes", ErrInvalidBlueprint, bp.ID, a)
		}
	}
	c := bp.Costs
	shaped := NewBlueprint(bp.ID, c[BuildOre][Ore], c[BuildClay][Ore], c[BuildObsidian][Ore], c[BuildObsidian][Clay], c[BuildGeode][Ore], c[BuildGeode][Obsidian])
	if shaped.Costs != c {
		return fmt.Errorf("%w: blueprint %d: robots may only cost the resources of the previous tier", ErrInvalidBlueprint, bp.ID)
	}
	if bp.Costs[BuildObsidian][Clay] == 0 {
		return fmt.Errorf("%w: blueprint %d: obsidian robot must cost clay", ErrInvalidBlueprint, bp.ID)
	}
	if bp.Costs[BuildGeode][Obsidian] == 0 {
		return fmt.Errorf("%w: blueprint %d: geode robot must cost obsidian", ErrInvalidBlueprint, bp.ID)
	}
	return nil
}

// Key returns a stable string form of the costs, used as a cache key.
func (bp *Blueprint) Key() string {
	c := bp.Costs
	return fmt.Sprintf("%d.%d.%d-%d.%d-%d",
		c[BuildOre][Ore], c[BuildClay][Ore],
		c[BuildObsidian][Ore], c[BuildObsidian][Clay],
		c[BuildGeode][Ore], c[BuildGeode][Obsidian])
}
