package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verhoek/huescout/internal/logging"
)

// DefaultDiscoverTimeout is the overall wall-clock budget for one
// discovery call. It covers the whole waterfall, not individual probes.
const DefaultDiscoverTimeout = 40 * time.Second

// Terminal reasons reported alongside discovery results. None of these
// is an error condition; an empty result is a normal negative outcome.
const (
	ReasonBusy      = "busy"
	ReasonTimeout   = "timed out"
	ReasonExhausted = "exhausted"
	ReasonStopped   = "stopped"
)

// outcome is the single value delivered through the completion gate
type outcome struct {
	bridges []Bridge
	reason  string
}

// Coordinator runs a fixed list of probes as a strict waterfall: each
// probe is awaited fully before the next starts, and the first non-empty
// result short-circuits the rest. A CompletionGate guarantees exactly one
// terminal result per call even when a probe return, the overall timeout,
// and an explicit Stop race each other.
//
// A coordinator owns at most one running session at a time. Callers hold
// a Coordinator instance; there is no package-level shared state.
type Coordinator struct {
	probes []Probe

	mu      sync.Mutex
	session *Session
	gate    *CompletionGate
	cancels *CancelGroup
	done    chan outcome
}

// NewCoordinator creates a coordinator over the given probes.
// Probe order is the priority order: fastest and most reliable first.
func NewCoordinator(probes ...Probe) *Coordinator {
	return &Coordinator{probes: probes}
}

// Probes returns the configured probe list in priority order
func (c *Coordinator) Probes() []Probe {
	return c.probes
}

// Session returns the most recent discovery session, or nil before the
// first Discover call. Useful for progress displays that want to know
// which probe is active.
func (c *Coordinator) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Running reports whether a discovery session is currently in progress
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.State() == StateRunning
}

// Discover runs the full waterfall once and blocks until a terminal
// result is available. It returns immediately with an empty list if a
// discovery is already in progress. It never returns an error: an empty
// list is the only "not found" signal.
func (c *Coordinator) Discover(ctx context.Context, timeout time.Duration) []Bridge {
	bridges, _ := c.DiscoverWithReason(ctx, timeout)
	return bridges
}

// DiscoverWithReason is Discover plus a human-readable reason string
// ("probe multicast succeeded", "timed out", ...) for diagnostics.
func (c *Coordinator) DiscoverWithReason(ctx context.Context, timeout time.Duration) ([]Bridge, string) {
	c.mu.Lock()
	if c.session != nil && c.session.State() == StateRunning {
		c.mu.Unlock()
		logging.Debug("Discovery call rejected, session already running")
		return []Bridge{}, ReasonBusy
	}

	sess := NewSession()
	sess.Start()
	gate := &CompletionGate{}
	cancels := &CancelGroup{}
	done := make(chan outcome, 1)

	c.session = sess
	c.gate = gate
	c.cancels = cancels
	c.done = done
	c.mu.Unlock()

	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}

	// Probes share one context; CancelAll tears it down
	runCtx, cancelRun := context.WithCancel(ctx)
	cancels.Register(cancelRun)

	timer := time.AfterFunc(timeout, func() {
		c.finish(sess, gate, cancels, done, nil, ReasonTimeout)
	})
	cancels.Register(func() { timer.Stop() })

	// Treat caller-level cancellation as an explicit stop. The watcher
	// exits once the session context is torn down by any finisher.
	go func() {
		select {
		case <-ctx.Done():
			c.finish(sess, gate, cancels, done, nil, ReasonStopped)
		case <-runCtx.Done():
		}
	}()

	go c.runWaterfall(runCtx, sess, gate, cancels, done)

	out := <-done
	return out.bridges, out.reason
}

// runWaterfall executes probes in priority order, advancing only on
// empty results and finishing on the first non-empty one.
func (c *Coordinator) runWaterfall(ctx context.Context, sess *Session, gate *CompletionGate, cancels *CancelGroup, done chan outcome) {
	for i, probe := range c.probes {
		if gate.Completed() {
			return
		}

		sess.Advance(i)
		logging.LogProbeStart(probe.Name(), i)
		start := time.Now()

		found := probe.Run(ctx)

		logging.LogProbeDone(probe.Name(), len(found), time.Since(start))

		if len(found) > 0 {
			c.finish(sess, gate, cancels, done, found, fmt.Sprintf("probe %s succeeded", probe.Name()))
			return
		}
	}

	c.finish(sess, gate, cancels, done, nil, ReasonExhausted)
}

// finish is the single terminal path for a session. Whichever caller wins
// the gate (probe success, exhaustion, timeout, or stop) normalizes and
// delivers the result, transitions the session, and tears down every
// still-registered unit of work. Losers are dropped silently: a probe
// result arriving after the timeout fired is expected, not an error.
func (c *Coordinator) finish(sess *Session, gate *CompletionGate, cancels *CancelGroup, done chan outcome, results []Bridge, reason string) {
	if !gate.TryComplete() {
		logging.Debug("Late discovery finisher dropped",
			zap.String("reason", reason),
			zap.Int("found", len(results)),
		)
		return
	}

	final := Dedupe(results)

	if reason == ReasonStopped {
		sess.Cancel()
	} else {
		sess.Complete(final)
	}

	cancels.CancelAll()

	logging.LogDiscoveryFinished(reason, len(final), time.Since(sess.StartedAt()))

	done <- outcome{bridges: final, reason: reason}
}

// Stop requests early termination of any in-progress Discover call.
// It acts as just another finisher: if a result has already been
// delivered, or nothing is running, Stop is a no-op. Safe to call at
// any time, from any goroutine, any number of times.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	sess, gate, cancels, done := c.session, c.gate, c.cancels, c.done
	c.mu.Unlock()

	if sess == nil || sess.State() != StateRunning {
		return
	}

	c.finish(sess, gate, cancels, done, nil, ReasonStopped)
}
