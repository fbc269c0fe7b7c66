// Package dedupe tracks inbound update ids for at-most-once processing.
package dedupe

// Option applies a configuration option to the cache.
type Option func(*cache)

// WithMaxSize sets the maximum number of IDs to keep in memory.
// If maxSize > 0: bounded mode with oldest-first eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(c *cache) {
		c.maxSize = maxSize
	}
}
