package search

import "sync"

// Visited records nodes already expanded in one search.
type Visited[K comparable] interface {
	// Visit marks k as seen and reports whether it was new.
	Visit(k K) bool
	Len() int
}

// Ledger is the single-goroutine Visited set. Entries are never removed.
type Ledger[K comparable] struct {
	seen map[K]struct{}
}

// NewLedger creates an empty Ledger.
func NewLedger[K comparable]() *Ledger[K] {
	return &Ledger[K]{seen: make(map[K]struct{})}
}

func (l *Ledger[K]) Visit(k K) bool {
	if _, ok := l.seen[k]; ok {
		return false
	}
	l.seen[k] = struct{}{}
	return true
}

func (l *Ledger[K]) Len() int {
	return len(l.seen)
}

// Contains reports whether k has been visited.
func (l *Ledger[K]) Contains(k K) bool {
	_, ok := l.seen[k]
	return ok
}

// ledgerShards must be a power of two.
const ledgerShards = 64

// SyncLedger is a Visited set safe for concurrent use, sharded by a hash of
// the key supplied by the caller.
type SyncLedger[K comparable] struct {
	hash   func(K) uint64
	shards [ledgerShards]struct {
		mu   sync.Mutex
		seen map[K]struct{}
	}
}

// NewSyncLedger creates an empty SyncLedger using hash to pick a shard.
func NewSyncLedger[K comparable](hash func(K) uint64) *SyncLedger[K] {
	l := &SyncLedger[K]{hash: hash}
	for i := range l.shards {
		l.shards[i].seen = make(map[K]struct{})
	}
	return l
}

func (l *SyncLedger[K]) Visit(k K) bool {
	sh := &l.shards[l.hash(k)&(ledgerShards-1)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.seen[k]; ok {
		return false
	}
	sh.seen[k] = struct{}{}
	return true
}

func (l *SyncLedger[K]) Len() int {
	n := 0
	for i := range l.shards {
		sh := &l.shards[i]
		sh.mu.Lock()
		n += len(sh.seen)
		sh.mu.Unlock()
	}
	return n
}

// hashState mixes every field of s (FNV-1a over the 16-bit words).
func hashState(s State) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	mix := func(w uint16) {
		h ^= uint64(w)
		h *= prime
	}
	mix(s.TimeLeft)
	for _, w := range s.Resources {
		mix(w)
	}
	for _, w := range s.Robots {
		mix(w)
	}
	mix(uint16(s.Pending))
	return h
}
