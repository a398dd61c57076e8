// Package ready provides a one-shot latch used to gate work on the
// surface's readiness signal and on round-trip acknowledgments.
package ready

import (
	"context"
	"errors"
	"sync"
)

// ErrDisposed is returned by Wait when the gate was torn down before (or
// while) the waiter was blocked.
var ErrDisposed = errors.New("ready: gate disposed")

// Gate is a two-state latch. It starts pending; Resolve moves it to ready
// and releases every waiter. Dispose short-circuits all current and future
// waits with ErrDisposed. Both transitions are idempotent and a resolve
// after dispose (or vice versa) is ignored.
type Gate struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	disposed bool
}

// NewGate returns a pending gate.
func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Resolve marks the gate ready. Safe to call more than once.
func (g *Gate) Resolve() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resolved || g.disposed {
		return
	}
	g.resolved = true
	close(g.done)
}

// Dispose releases all waiters with ErrDisposed. Terminal.
func (g *Gate) Dispose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resolved || g.disposed {
		g.disposed = true
		return
	}
	g.disposed = true
	close(g.done)
}

// Resolved reports whether Resolve won the race against Dispose.
func (g *Gate) Resolved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolved && !g.disposed
}

// Disposed reports whether the gate has been torn down.
func (g *Gate) Disposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}

// Wait blocks until the gate resolves, the gate is disposed, or ctx is
// cancelled.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disposed {
		return ErrDisposed
	}
	return nil
}

// Done exposes the latch channel for select-based callers. Check Disposed
// after it closes to learn which transition fired.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}
