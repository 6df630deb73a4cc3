package discovery

import "sync"

// CancelGroup owns every cancellable unit of work spawned during one
// discovery session: probe contexts, the overall timeout timer, and any
// listeners a probe routes through it. Cancellation is cooperative - the
// group invokes the registered functions and relies on the work observing
// its context.
type CancelGroup struct {
	mu        sync.Mutex
	cancels   []func()
	cancelled bool
}

// Register records a cancel function to be invoked on CancelAll.
// If the group has already been cancelled, the function is invoked
// immediately so late registrations cannot leak work past teardown.
func (g *CancelGroup) Register(cancel func()) {
	if cancel == nil {
		return
	}

	g.mu.Lock()
	if g.cancelled {
		g.mu.Unlock()
		cancel()
		return
	}
	g.cancels = append(g.cancels, cancel)
	g.mu.Unlock()
}

// CancelAll cancels every registered handle and clears the registry.
// Idempotent: safe to call multiple times or from multiple racing
// completion paths; each registered function runs at most once.
func (g *CancelGroup) CancelAll() {
	g.mu.Lock()
	cancels := g.cancels
	g.cancels = nil
	g.cancelled = true
	g.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Cancelled reports whether CancelAll has been called.
func (g *CancelGroup) Cancelled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled
}
