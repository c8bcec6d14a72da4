// Package guard tracks which clients currently have a roulette running.
package guard

// Option applies a configuration option to the in-memory guard.
type Option func(*inMemoryGuard)

// WithMaxSize caps how many sessions may be active across all clients.
// If maxSize > 0: bounded mode, TryAcquire fails when the cap is reached.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(g *inMemoryGuard) {
		g.maxSize = maxSize
	}
}
