package dedupcache

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
)

// Default entry limits and time-check cadence.
const (
	DefaultMinLimit       = 100_000
	DefaultMaxLimit       = 150_000
	DefaultTimeCheckEvery = 1024
)

// Option configures the cache.
type Option func(*options)

type options struct {
	minLimit       int64
	maxLimit       int64
	rampUpAfter    time.Duration
	recycleEvery   time.Duration
	timeCheckEvery int64
	clock          clock.Clock
	onRecycle      RecycleCallback
	log            *slog.Logger
}

func defaultOptions() *options {
	return &options{
		minLimit:       DefaultMinLimit,
		maxLimit:       DefaultMaxLimit,
		timeCheckEvery: DefaultTimeCheckEvery,
		clock:          clock.New(),
		log:            slog.New(slog.DiscardHandler),
	}
}

// WithMinLimit sets the soft entry limit: once the active generation holds
// more entries, every interned string is additionally shadow-written into
// the staging generation.
// Default: 100000.
func WithMinLimit(n int) Option {
	return func(o *options) {
		o.minLimit = int64(n)
	}
}

// WithMaxLimit sets the hard entry limit: once the active generation holds
// more entries, staging is promoted and the old active generation is
// dropped. Must be greater than the min limit.
// Default: 150000.
func WithMaxLimit(n int) Option {
	return func(o *options) {
		o.maxLimit = int64(n)
	}
}

// WithRampUpAfter enables time-based ramp-up: shadow-writing into staging
// begins once d has elapsed since the last recycle, regardless of size.
// Must not exceed the recycle period when both are set.
// Default: disabled.
func WithRampUpAfter(d time.Duration) Option {
	return func(o *options) {
		o.rampUpAfter = d
	}
}

// WithRecycleEvery enables time-based recycling: a generation swap is
// forced once d has elapsed since the last recycle, so long-lived
// low-traffic deployments still release stale entries.
// Default: disabled.
func WithRecycleEvery(d time.Duration) Option {
	return func(o *options) {
		o.recycleEvery = d
	}
}

// WithTimeCheckEvery sets how many Intern calls pass between consultations
// of the clock when time-based triggers are enabled. Values below 1 are
// treated as 1.
// Default: 1024.
func WithTimeCheckEvery(n int) Option {
	return func(o *options) {
		o.timeCheckEvery = int64(n)
	}
}

// WithClock injects the time source used for time-based triggers.
// Pass a [clock.Mock] in tests to drive ramp-up and recycle
// deterministically.
// Default: the wall clock.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithRecycleCallback sets a fire-and-forget notification invoked after
// every completed recycle. Panics inside the callback are caught and
// logged, never surfaced to the caller that triggered the swap.
// Default: none.
func WithRecycleCallback(fn RecycleCallback) Option {
	return func(o *options) {
		o.onRecycle = fn
	}
}

// WithLogger sets the logger used to report isolated callback failures.
// Default: a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}
