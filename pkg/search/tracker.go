package search

import "sync/atomic"

// Tracker holds the best objective value found so far in one search. It
// only ever grows, and is safe to share between goroutines.
type Tracker struct {
	best atomic.Int64
}

// Best returns the current incumbent.
func (t *Tracker) Best() int {
	return int(t.best.Load())
}

// Offer records v if it beats the incumbent and reports whether it did.
func (t *Tracker) Offer(v int) bool {
	for {
		cur := t.best.Load()
		if int64(v) <= cur {
			return false
		}
		if t.best.CompareAndSwap(cur, int64(v)) {
			return true
		}
	}
}
