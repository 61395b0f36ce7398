package session

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/paul-weiss/zkp/metrics"
	"github.com/paul-weiss/zkp/schnorr"
)

// ReplayGuard remembers transcript hashes and refuses ones it has already
// seen. The guard is backed by a bounded ARC cache, so it is best effort:
// with more distinct transcripts than the capacity, old entries age out and
// would be accepted again.
type ReplayGuard struct {
	mu   sync.Mutex
	seen *lru.ARCCache
}

// NewReplayGuard returns a guard remembering up to size transcripts.
func NewReplayGuard(size int) (*ReplayGuard, error) {
	cache, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	return &ReplayGuard{seen: cache}, nil
}

// Seen records the transcript and reports whether it was already known. A
// nil transcript is always refused.
func (g *ReplayGuard) Seen(tr *schnorr.Transcript) bool {
	if tr == nil {
		return true
	}
	key := string(tr.Hash())
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen.Contains(key) {
		metrics.ReplayCounter.Inc()
		return true
	}
	g.seen.Add(key, struct{}{})
	return false
}

// Len returns how many transcripts the guard currently remembers.
func (g *ReplayGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seen.Len()
}
