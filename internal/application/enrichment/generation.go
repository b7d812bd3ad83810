package enrichment

import "sync/atomic"

// Generation tags one enrichment invocation. List views re-trigger fetches on
// every page change; a result may only touch shared state while its
// generation is still the latest one issued.
type Generation uint64

// Guard hands out generations and answers whether one is still current.
// Stale results are discarded silently, which is the cooperative stand-in
// for request cancellation.
type Guard struct {
	current atomic.Uint64
}

// Next supersedes all previously issued generations and returns the new one.
func (g *Guard) Next() Generation {
	return Generation(g.current.Add(1))
}

// Current reports whether gen is still the latest issued generation.
func (g *Guard) Current(gen Generation) bool {
	return Generation(g.current.Load()) == gen
}
