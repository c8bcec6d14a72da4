// Package guard tracks which clients currently have a roulette running.
package guard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Sentinel errors for callers that want an error instead of a bool.
var (
	ErrSessionActive = errors.New("a roulette session is already active for this client")
	ErrCapacity      = errors.New("too many active roulette sessions")
)

// Guard allows at most one active session per client id.
type Guard interface {
	// Acquire marks id as active. It returns ErrSessionActive if id already
	// holds a session and ErrCapacity if the guard is full.
	Acquire(ctx context.Context, id string) error

	// Release frees id. Releasing an id that is not held is a no-op.
	Release(ctx context.Context, id string)

	Size() int64
}

type inMemoryGuard struct {
	mu      sync.Mutex
	active  map[string]struct{}
	maxSize int
	size    atomic.Int64
}

// NewInMemoryGuard creates a process-local guard.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		maxSize: 10_000,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.active = make(map[string]struct{})
	return g
}

func (g *inMemoryGuard) Acquire(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[id]; busy {
		return ErrSessionActive
	}
	if g.maxSize > 0 && len(g.active) >= g.maxSize {
		return ErrCapacity
	}
	g.active[id] = struct{}{}
	g.size.Add(1)
	return nil
}

func (g *inMemoryGuard) Release(_ context.Context, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.active[id]; ok {
		delete(g.active, id)
		g.size.Add(-1)
	}
}

func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
