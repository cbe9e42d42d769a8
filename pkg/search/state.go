package search

// State is one node of the search tree. It is a plain comparable value:
// copying it branches the search, and it can be used directly as a map key.
type State struct {
	TimeLeft  uint16
	Resources Vector
	Robots    Vector
	Pending   Action // robot finishing at the next minute boundary
}

// InitialState returns the root state: one ore robot, nothing stockpiled,
// nothing under construction.
func InitialState(minutes int) State {
	return State{
		TimeLeft: uint16(minutes),
		Robots:   Vector{1, 0, 0, 0},
		Pending:  NoAction,
	}
}

// collect adds one minute of income from the robots already running.
func (s *State) collect() {
	s.Resources = s.Resources.Add(s.Robots)
}

// finishPending puts the robot under construction to work.
func (s *State) finishPending() {
	if s.Pending == NoAction {
		return
	}
	s.Robots = s.Robots.Inc(s.Pending.Produces())
	s.Pending = NoAction
}

// start returns a copy of s with the resources for a deducted and the robot
// queued. ok is false when the stockpile cannot cover the cost.
func (s State) start(bp *Blueprint, a Action) (State, bool) {
	rest, ok := s.Resources.Sub(bp.Cost(a))
	if !ok {
		return s, false
	}
	s.Resources = rest
	s.Pending = a
	return s, true
}
