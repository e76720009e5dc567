// Package gate provides a run-once broadcast gate.
//
// A Gate starts pending. Callbacks registered while it is pending are
// queued; Complete moves the gate to completed and runs the queue once, in
// registration order. Callbacks registered after completion run
// immediately on the calling goroutine. Every registered callback runs
// exactly once.
//
// Callbacks never run while the gate's lock is held, so a callback may
// register further callbacks without deadlocking.
package gate

import "sync"

// Gate is a run-once broadcast gate. The zero value is a pending gate
// ready for use. A Gate must not be copied after first use.
type Gate struct {
	mu        sync.Mutex
	completed bool
	pending   []func()
}

// Register arranges for fn to run once the gate completes. If the gate has
// already completed, fn runs before Register returns. A nil fn is ignored.
func (g *Gate) Register(fn func()) {
	if fn == nil {
		return
	}

	g.mu.Lock()
	if !g.completed {
		g.pending = append(g.pending, fn)
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	fn()
}

// Complete moves the gate to completed and runs every queued callback in
// registration order. Calls after the first do nothing.
func (g *Gate) Complete() {
	g.mu.Lock()
	if g.completed {
		g.mu.Unlock()
		return
	}
	g.completed = true
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()

	for i, fn := range pending {
		pending[i] = nil
		fn()
	}
}

// Completed reports whether Complete has been called.
func (g *Gate) Completed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.completed
}
