// Package dedupcache provides a bounded, concurrent string de-duplication
// cache: an interning cache that maps every content-equal string to one
// shared storage instance without growing without bound.
//
// Long-lived services that parse the same logical strings over and over
// (label values, symbol names, header fields) waste memory on duplicate
// allocations. A naive global interning map fixes the duplication but never
// shrinks. This cache bounds growth by rotating two generations of entries
// and recycling itself under load, while staying lock-free on the hot path.
//
// # How It Works
//
// All reads and writes go to the active generation. Once it exceeds the
// soft limit (min limit), every interned string is additionally
// shadow-written into a staging generation, so everything still being
// requested is pre-populated into the generation that will serve next.
// Once the hard limit (max limit) is crossed, a single winner of a CAS
// guard promotes staging to active and drops the old generation. Strings
// in active use survive the swap with their identity intact; strings seen
// once fall away with the retired generation:
//
//	c, err := dedupcache.New(
//	    dedupcache.WithMinLimit(50_000),
//	    dedupcache.WithMaxLimit(100_000),
//	)
//
//	name := c.Intern(parsedName) // canonical shared instance
//
// Interning the empty string is a passthrough; it is never cached.
// [Cache.Lookup] probes without inserting, and [Cache.InternBytes] interns
// the content of a byte slice.
//
// # Time-Based Recycling
//
// Size-based rotation alone never fires on low-traffic deployments, so
// stale entries would live forever. Optional time-based triggers force
// ramp-up and recycle on a schedule, checked cheaply every N calls:
//
//	c, err := dedupcache.New(
//	    dedupcache.WithRampUpAfter(45*time.Minute),
//	    dedupcache.WithRecycleEvery(time.Hour),
//	)
//
// Inject a [clock.Mock] with [WithClock] to drive the triggers
// deterministically in tests.
//
// # Telemetry
//
// [Cache.Len] and [Cache.SizeBytes] are best-effort gauges; [Cache.Stats]
// snapshots all activity counters. [NewCollector] wraps a cache as a
// prometheus.Collector for exposition.
//
// # Concurrency
//
// Intern and Lookup are safe for an unbounded number of concurrent callers
// and never block: the recycle transition is guarded by a single-slot CAS
// whose losers simply carry on. Callers racing a swap may transiently miss
// a cached instance or populate the outgoing generation; content
// correctness is never affected, only the sharing ratio, briefly.
// [Cache.Clear] is the one exception: it is meant for a quiescent
// checkpoint and must not race other calls.
//
// # Error Handling
//
// Construction validates configuration and returns [ErrInvalidLimits] or
// [ErrInvalidPeriods]; check with errors.Is. Every steady-state operation
// is total: no errors, no panics, no blocking. Recycle-callback panics are
// caught and logged, never surfaced to the interning caller.
package dedupcache
