// Package search implements an exact branch-and-bound search over robot
// construction schedules: given a blueprint of robot costs and a number of
// minutes, it finds the largest number of geodes that can be cracked.
package search

import "fmt"

// Kind identifies a resource, and the robot that collects it.
type Kind int

const (
	Ore Kind = iota
	Clay
	Obsidian
	Geode

	// NumKinds is the number of resource kinds tracked per vector.
	NumKinds = 4
)

var kindNames = [NumKinds]string{"ore", "clay", "obsidian", "geode"}

func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Vector is a count per resource kind. It is used both for stockpiles and
// for robot counts (income per minute). Slots are never negative.
type Vector [NumKinds]uint16

// Add returns the componentwise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Sub returns v minus o. ok is false, and the result meaningless, when any
// slot of o exceeds the matching slot of v.
func (v Vector) Sub(o Vector) (Vector, bool) {
	for i := range v {
		if v[i] < o[i] {
			return v, false
		}
		v[i] -= o[i]
	}
	return v, true
}

// Covers reports whether every slot of v is at least the matching slot of o.
func (v Vector) Covers(o Vector) bool {
	for i := range v {
		if v[i] < o[i] {
			return false
		}
	}
	return true
}

// Inc returns v with one more unit of kind k.
func (v Vector) Inc(k Kind) Vector {
	v[k]++
	return v
}

func (v Vector) String() string {
	return fmt.Sprintf("{ore:%d clay:%d obsidian:%d geode:%d}", v[Ore], v[Clay], v[Obsidian], v[Geode])
}
