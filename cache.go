package dedupcache

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"
)

// RecycleInfo describes one completed generation swap.
type RecycleInfo struct {
	// At is the time the swap was performed.
	At time.Time

	// PromotedEntries and PromotedBytes describe the staging generation
	// that became active: the warm set that survived the swap.
	PromotedEntries int64
	PromotedBytes   int64

	// DroppedEntries and DroppedBytes describe the retired active
	// generation that was discarded.
	DroppedEntries int64
	DroppedBytes   int64
}

// RecycleCallback is notified after every completed recycle.
// Panics inside the callback are caught and logged; they never propagate
// into the Intern call that triggered the recycle.
type RecycleCallback func(RecycleInfo)

// Cache is a bounded, self-recycling string de-duplication cache.
//
// Semantically-equal strings interned through the same generation converge
// to a single shared backing array, cutting memory on workloads where the
// same logical strings recur at high volume. Growth is bounded by rotating
// two generations: once the active one exceeds its soft limit, every
// interned string is shadow-written into a staging generation, and once the
// hard limit is crossed the staging generation is promoted and the old
// active one is dropped. Strings still in use keep getting re-requested and
// therefore survive the swap; strings seen once fall away with the retired
// generation.
//
// A Cache must be created with [New]; the zero value is not ready for use.
// All methods except [Cache.Clear] are safe for concurrent use.
type Cache struct {
	active  atomic.Pointer[generation]
	staging atomic.Pointer[generation]

	minLimit int64
	maxLimit int64

	clk            clock.Clock
	rampUpAfter    time.Duration
	recycleEvery   time.Duration
	timeCheckEvery int64
	calls          atomic.Int64
	rampUpAt       atomic.Int64 // unix nanos, 0 = time-based ramp-up disabled
	recycleAt      atomic.Int64 // unix nanos, 0 = time-based recycle disabled
	lastRecycled   atomic.Int64

	beginRampUp    atomic.Bool
	performRecycle atomic.Bool
	recycling      atomic.Bool // single-slot guard, at most one recycler

	hits     atomic.Uint64
	misses   atomic.Uint64
	recycles atomic.Uint64

	onRecycle RecycleCallback
	log       *slog.Logger
}

// New creates a cache with the given options.
//
// Example:
//
//	c, err := dedupcache.New(
//	    dedupcache.WithMinLimit(50_000),
//	    dedupcache.WithMaxLimit(100_000),
//	    dedupcache.WithRecycleEvery(time.Hour),
//	)
//
// It returns [ErrInvalidLimits] when the entry limits are not
// 0 < min < max, and [ErrInvalidPeriods] when a time-based ramp-up boundary
// is configured to fall after the recycle boundary.
func New(opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.minLimit <= 0 || o.maxLimit <= o.minLimit {
		return nil, fmt.Errorf("%w: min %d, max %d", ErrInvalidLimits, o.minLimit, o.maxLimit)
	}
	if o.rampUpAfter < 0 || o.recycleEvery < 0 {
		return nil, fmt.Errorf("%w: negative duration", ErrInvalidPeriods)
	}
	if o.rampUpAfter > 0 && o.recycleEvery > 0 && o.rampUpAfter > o.recycleEvery {
		return nil, fmt.Errorf("%w: ramp-up after %s, recycle every %s", ErrInvalidPeriods, o.rampUpAfter, o.recycleEvery)
	}
	if o.timeCheckEvery < 1 {
		o.timeCheckEvery = 1
	}

	c := &Cache{
		minLimit:       o.minLimit,
		maxLimit:       o.maxLimit,
		clk:            o.clock,
		rampUpAfter:    o.rampUpAfter,
		recycleEvery:   o.recycleEvery,
		timeCheckEvery: o.timeCheckEvery,
		onRecycle:      o.onRecycle,
		log:            o.log,
	}
	c.active.Store(newGeneration())
	c.staging.Store(newGeneration())
	c.reschedule(c.clk.Now())

	return c, nil
}

// Intern returns the canonical shared instance for s.
//
// Repeated calls with content-equal strings return the exact same backing
// array for as long as the instance survives a generation, so callers can
// drop their own copies. The empty string is returned unchanged and never
// cached.
func (c *Cache) Intern(s string) string {
	if s == "" {
		return s
	}

	c.tick()

	act := c.active.Load()
	canonical, added := act.intern(s)
	if added {
		c.misses.Inc()
	} else {
		c.hits.Inc()
	}

	// Ramp-up: shadow-write into staging so the warm set survives the next
	// swap. Happens on hits too, not just first insertions.
	if act.count.Load() > c.minLimit || c.beginRampUp.Load() {
		c.staging.Load().adopt(canonical)
	}

	if act.count.Load() > c.maxLimit || c.performRecycle.Load() {
		c.recycle()
	}

	return canonical
}

// InternBytes interns the string content of b. A nil or empty slice yields
// the empty string. The cache never retains b itself.
func (c *Cache) InternBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return c.Intern(string(b))
}

// Lookup probes the active generation for a cached instance of s without
// inserting it. It mutates no counters, including the hit/miss stats.
func (c *Cache) Lookup(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	return c.active.Load().lookup(s)
}

// Len returns the number of entries in the active generation.
// Best-effort snapshot: it may lag concurrent insertions slightly.
func (c *Cache) Len() int {
	return int(c.active.Load().count.Load())
}

// SizeBytes returns the approximate heap footprint of both generations.
// Staging is included because everything in it becomes active at the next
// recycle. Best-effort snapshot, same as [Cache.Len].
func (c *Cache) SizeBytes() int64 {
	return c.active.Load().bytes.Load() + c.staging.Load().bytes.Load()
}

// Stats returns a snapshot of cache activity counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:     c.active.Load().count.Load(),
		ApproxBytes: c.SizeBytes(),
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Recycles:    c.recycles.Load(),
	}
}

// Clear drops both generations and zeroes the accounting. A previously
// interned string will get a fresh instance afterwards.
//
// Clear is meant for a quiescent checkpoint, such as the end of an
// initialization phase whose warm strings should be released. It is NOT
// safe to call concurrently with other operations.
func (c *Cache) Clear() {
	c.active.Store(newGeneration())
	c.staging.Store(newGeneration())
	c.beginRampUp.Store(false)
	c.performRecycle.Store(false)
	c.calls.Store(0)
	c.reschedule(c.clk.Now())
}

// tick is the cheap periodic time check. The clock is consulted only once
// every timeCheckEvery calls; crossing a boundary just sets a flag, and the
// transition itself happens on the flag checks in Intern. Any caller can
// discover a crossed boundary without being the one to act on it.
func (c *Cache) tick() {
	if c.rampUpAt.Load() == 0 && c.recycleAt.Load() == 0 {
		return
	}
	if c.calls.Inc()%c.timeCheckEvery != 0 {
		return
	}

	now := c.clk.Now().UnixNano()
	if at := c.recycleAt.Load(); at > 0 && now >= at {
		c.performRecycle.Store(true)
	}
	if at := c.rampUpAt.Load(); at > 0 && now >= at {
		c.beginRampUp.Store(true)
	}
}

// recycle promotes staging to active and installs a fresh staging map.
// At most one caller wins the guard and performs the swap; everyone else
// returns immediately and carries on against the soon-to-be-replaced
// active generation. Nobody ever blocks here.
func (c *Cache) recycle() {
	if !c.recycling.CompareAndSwap(false, true) {
		return
	}
	defer c.recycling.Store(false)

	// Re-check under the guard: the trigger this caller observed may have
	// been serviced by an earlier winner already.
	retiring := c.active.Load()
	if retiring.count.Load() <= c.maxLimit && !c.performRecycle.Load() {
		return
	}

	now := c.clk.Now()
	c.reschedule(now)
	c.performRecycle.Store(false)
	c.beginRampUp.Store(false)

	promoted := c.staging.Load()
	// Fresh staging goes in first so active and staging never alias the
	// same map, not even transiently.
	c.staging.Store(newGeneration())
	c.active.Store(promoted)
	c.recycles.Inc()

	c.notifyRecycle(RecycleInfo{
		At:              now,
		PromotedEntries: promoted.count.Load(),
		PromotedBytes:   promoted.bytes.Load(),
		DroppedEntries:  retiring.count.Load(),
		DroppedBytes:    retiring.bytes.Load(),
	})
}

// reschedule records the rotation time and recomputes the next time-based
// boundaries from it.
func (c *Cache) reschedule(now time.Time) {
	c.lastRecycled.Store(now.UnixNano())
	if c.rampUpAfter > 0 {
		c.rampUpAt.Store(now.Add(c.rampUpAfter).UnixNano())
	}
	if c.recycleEvery > 0 {
		c.recycleAt.Store(now.Add(c.recycleEvery).UnixNano())
	}
}

// notifyRecycle invokes the recycle callback with panic isolation.
// A misbehaving observer must never destabilize the cache.
func (c *Cache) notifyRecycle(info RecycleInfo) {
	if c.onRecycle == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("recycle callback panicked", slog.Any("panic", r))
		}
	}()
	c.onRecycle(info)
}
