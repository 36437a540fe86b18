package dedupcache

import (
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// Byte-footprint calibration for one cached entry: a Go string header is
// two words, and sync.Map keeps a boxed key, a boxed value and an entry
// record per key. These are tunable estimates, not measurements.
const (
	stringOverheadBytes = 16
	entryOverheadBytes  = 48
)

// generation is one buffer of the dual-generation rotation: a concurrent
// content-to-canonical map with its own accounting. Counters are only ever
// incremented by the caller that won the insert, so each key is counted
// exactly once.
type generation struct {
	entries sync.Map // string -> string, the value is the canonical instance
	count   atomic.Int64
	bytes   atomic.Int64
}

func newGeneration() *generation {
	return &generation{}
}

// intern returns the canonical instance for s, storing a detached copy on
// first sight. The second result reports whether this call added the key.
// Concurrent callers racing on the same content all observe the single
// winning instance; losers discard their candidate without counting it.
func (g *generation) intern(s string) (string, bool) {
	if v, ok := g.entries.Load(s); ok {
		return v.(string), false
	}

	// Copy so the cache never pins a larger array the input may point into.
	candidate := strings.Clone(s)

	actual, loaded := g.entries.LoadOrStore(candidate, candidate)
	canonical := actual.(string)
	if loaded {
		return canonical, false
	}

	g.count.Inc()
	g.bytes.Add(entryBytes(len(canonical)))

	return canonical, true
}

// adopt inserts an already-canonical instance without copying it. Used for
// ramp-up shadow writes, where keeping the exact instance is the point:
// identity must survive the generation swap.
func (g *generation) adopt(canonical string) {
	if _, loaded := g.entries.LoadOrStore(canonical, canonical); !loaded {
		g.count.Inc()
		g.bytes.Add(entryBytes(len(canonical)))
	}
}

// lookup is a read-only probe. It touches no counters.
func (g *generation) lookup(s string) (string, bool) {
	v, ok := g.entries.Load(s)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func entryBytes(contentLen int) int64 {
	return int64(contentLen) + stringOverheadBytes + entryOverheadBytes
}
