package discovery

import (
	"fmt"
	"sync"
	"time"
)

// SessionState is the lifecycle state of one discovery session
type SessionState int

const (
	// StateIdle means the session has been created but not started
	StateIdle SessionState = iota
	// StateRunning means the waterfall is executing
	StateRunning
	// StateCompleted means a terminal result was delivered (including
	// empty results from timeout or exhaustion)
	StateCompleted
	// StateCancelled means the caller stopped the session explicitly
	StateCancelled
)

// String returns a human-readable name for the session state
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Session tracks the state of one discovery call. Transitions are
// one-directional: Idle -> Running -> Completed or Cancelled. No state
// is ever revisited; a coordinator creates a fresh session per call.
type Session struct {
	mu         sync.Mutex
	state      SessionState
	probeIndex int
	startedAt  time.Time
	results    []Bridge
}

// NewSession creates a session in the Idle state
func NewSession() *Session {
	return &Session{state: StateIdle, probeIndex: -1}
}

// Start transitions Idle -> Running and stamps the start time.
// Returns false if the session was already started.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return false
	}
	s.state = StateRunning
	s.startedAt = time.Now()
	s.probeIndex = 0
	return true
}

// Advance records which probe the waterfall is currently running.
// Only meaningful while Running; a no-op otherwise.
func (s *Session) Advance(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		s.probeIndex = index
	}
}

// Complete transitions Running -> Completed and records the final results.
// Returns false if the session was not running.
func (s *Session) Complete(results []Bridge) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return false
	}
	s.state = StateCompleted
	s.results = results
	return true
}

// Cancel transitions Running -> Cancelled.
// Returns false if the session was not running.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return false
	}
	s.state = StateCancelled
	return true
}

// State returns the current session state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ProbeIndex returns the index of the probe the waterfall last advanced to
func (s *Session) ProbeIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probeIndex
}

// StartedAt returns when the session started running
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// Results returns the final results recorded at completion
func (s *Session) Results() []Bridge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}
