package search

import "math"

// OptimisticYield is the number of geodes collected over the next ticks
// minutes if the geode income starts at rate and grows by one every minute.
// No schedule can beat a new geode robot every minute, so the value never
// underestimates what a state can still earn.
func OptimisticYield(rate, ticks int) int {
	if ticks <= 0 {
		return 0
	}
	return ticks*rate + ticks*(ticks-1)/2
}

// triangularRoot returns the smallest n with n(n+1)/2 >= x: the minimum
// number of minutes needed to stockpile x units when the income of that
// unit starts at one and grows by one robot per minute.
func triangularRoot(x int) int {
	if x <= 0 {
		return 0
	}
	n := int((math.Sqrt(float64(8*x+1)) - 1) / 2)
	for n*(n+1)/2 < x {
		n++
	}
	for n > 0 && (n-1)*n/2 >= x {
		n--
	}
	return n
}

// Minimum time left, measured when the decision is taken, for a robot of
// each kind to still be able to add a geode. A robot started with t minutes
// left collects for the first time with t-2 minutes left; a geode robot
// therefore needs 2, an obsidian or ore robot must feed a geode robot started
// at least two minutes later (4), and a clay robot must feed an obsidian
// robot in the same way (6).
var buildDeadline = [NumKinds]uint16{
	BuildOre:      4,
	BuildClay:     6,
	BuildObsidian: 4,
	BuildGeode:    2,
}

// Deadlines holds the per-blueprint domain pruning thresholds.
type Deadlines struct {
	// Build is the minimum time left at which starting each robot can still
	// add a geode.
	Build [NumKinds]uint16

	// WithoutObsidian is the minimum time left for a state with no obsidian
	// robots to crack any geode at all; WithoutClay likewise for no clay
	// robots. Below these a state is worth exactly zero.
	WithoutObsidian uint16
	WithoutClay     uint16

	// Caps is the most robots of each kind worth owning: one build per
	// minute can never spend more than the largest single cost of a kind.
	Caps [NumKinds]uint16
}

// ComputeDeadlines derives the pruning thresholds of bp.
//
// With no obsidian robots, the first one starts with a minutes left and the
// fastest possible stockpile of the geode robot's obsidian cost takes
// triangularRoot(cost) minutes of collection, after which a geode robot
// still needs two minutes: a >= triangularRoot(obsidian cost) + 3. With no
// clay robots the first clay robot has to precede that obsidian robot by one
// more minute plus the time to stockpile its clay cost.
func ComputeDeadlines(bp *Blueprint) Deadlines {
	d := Deadlines{Build: buildDeadline}

	obsidianTime := triangularRoot(int(bp.Costs[BuildGeode][Obsidian]))
	clayTime := triangularRoot(int(bp.Costs[BuildObsidian][Clay]))
	d.WithoutObsidian = uint16(obsidianTime + 3)
	d.WithoutClay = uint16(obsidianTime + clayTime + 4)

	for _, c := range bp.Costs {
		for k := Ore; k < Geode; k++ {
			if c[k] > d.Caps[k] {
				d.Caps[k] = c[k]
			}
		}
	}
	d.Caps[Geode] = math.MaxUint16
	return d
}

// hopeless reports whether s, already past its production tick and with its
// pending robot at work, can no longer crack a single geode.
func (d *Deadlines) hopeless(s *State) bool {
	if s.Robots[Obsidian] == 0 && s.TimeLeft < d.WithoutObsidian {
		return true
	}
	if s.Robots[Clay] == 0 && s.TimeLeft < d.WithoutClay {
		return true
	}
	return false
}

// worthBuilding reports whether starting robot a from s can still matter.
func (d *Deadlines) worthBuilding(s *State, a Action) bool {
	k := a.Produces()
	return s.TimeLeft >= d.Build[a] && s.Robots[k] < d.Caps[k]
}
