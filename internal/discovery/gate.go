package discovery

import "sync"

// CompletionGate guarantees a discovery result is delivered exactly once,
// even though multiple asynchronous finishers (the active probe, the overall
// timeout, an explicit stop) may race to report one.
//
// The gate does not itself cancel or notify anything. Callers act on the
// returned boolean: the single caller that wins TryComplete owns the
// terminal transition.
type CompletionGate struct {
	mu    sync.Mutex
	fired bool
}

// TryComplete atomically checks-and-sets the fired flag.
// It returns true for exactly one caller per gate instance; every
// subsequent call returns false.
func (g *CompletionGate) TryComplete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fired {
		return false
	}
	g.fired = true
	return true
}

// Completed returns a read-only snapshot of the gate state.
// Long-running probes use this to abandon work early once some other
// path has already delivered a result.
func (g *CompletionGate) Completed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}
