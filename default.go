package dedupcache

import "go.uber.org/atomic"

// The engine is always an explicitly constructed *Cache; this thin
// process-wide instance only spares call sites that have nowhere to thread
// one through.
var defaultCache atomic.Pointer[Cache]

// Default returns the process-wide cache, creating it with default options
// on first use.
func Default() *Cache {
	if c := defaultCache.Load(); c != nil {
		return c
	}
	c, _ := New() // defaults always validate
	if defaultCache.CompareAndSwap(nil, c) {
		return c
	}
	return defaultCache.Load()
}

// SetDefault replaces the process-wide cache. Call it during program
// initialization, before the package-level functions are in use.
func SetDefault(c *Cache) {
	defaultCache.Store(c)
}

// Intern interns s in the process-wide default cache.
func Intern(s string) string {
	return Default().Intern(s)
}

// Lookup probes the process-wide default cache without inserting.
func Lookup(s string) (string, bool) {
	return Default().Lookup(s)
}
