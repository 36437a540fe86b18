package dedupcache

// Stats is a point-in-time snapshot of cache activity, suitable for
// telemetry export. Counters are maintained with atomic adds and read
// without synchronization, so a snapshot taken under load can be slightly
// stale; the values are eventually consistent gauges, not a transactional
// view.
type Stats struct {
	// Entries is the number of strings in the active generation.
	Entries int64

	// ApproxBytes estimates the heap footprint of both generations.
	ApproxBytes int64

	// Hits counts Intern calls that found an existing canonical instance.
	Hits uint64

	// Misses counts Intern calls that inserted a new instance.
	Misses uint64

	// Recycles counts completed generation swaps.
	Recycles uint64
}
