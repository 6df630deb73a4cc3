package discovery

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingProbe tracks invocation order and returns canned results
type recordingProbe struct {
	name    string
	results []Bridge

	mu    sync.Mutex
	order *[]string
}

func (p *recordingProbe) Name() string { return p.name }

func (p *recordingProbe) Run(ctx context.Context) []Bridge {
	p.mu.Lock()
	*p.order = append(*p.order, p.name)
	p.mu.Unlock()
	return p.results
}

// blockingProbe blocks until its context is cancelled or it is released
type blockingProbe struct {
	name    string
	started chan struct{} // closed when Run begins
	release chan struct{} // close to let Run return its results
	stopped chan struct{} // closed when Run observed ctx cancellation
	results []Bridge

	once sync.Once
}

func newBlockingProbe(name string, results []Bridge) *blockingProbe {
	return &blockingProbe{
		name:    name,
		started: make(chan struct{}),
		release: make(chan struct{}),
		stopped: make(chan struct{}),
		results: results,
	}
}

func (p *blockingProbe) Name() string { return p.name }

func (p *blockingProbe) Run(ctx context.Context) []Bridge {
	p.once.Do(func() { close(p.started) })
	select {
	case <-ctx.Done():
		close(p.stopped)
		return nil
	case <-p.release:
		return p.results
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestCoordinator_WaterfallOrder(t *testing.T) {
	var order []string
	record := Bridge{ID: "AA:BB", IP: "10.0.0.5"}

	p1 := &recordingProbe{name: "p1", order: &order}
	p2 := &recordingProbe{name: "p2", order: &order}
	p3 := &recordingProbe{name: "p3", order: &order, results: []Bridge{record}}
	p4 := &recordingProbe{name: "p4", order: &order}

	coord := NewCoordinator(p1, p2, p3, p4)
	bridges, reason := coord.DiscoverWithReason(context.Background(), 5*time.Second)

	want := []string{"p1", "p2", "p3"}
	if len(order) != len(want) {
		t.Fatalf("probes invoked: %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("probe %d = %q, want %q", i, order[i], want[i])
		}
	}

	if len(bridges) != 1 || bridges[0].NormalizedID != "AABB" {
		t.Errorf("Discover returned %v, want one record with NormalizedID AABB", bridges)
	}
	if !strings.Contains(reason, "p3") {
		t.Errorf("reason = %q, want mention of p3", reason)
	}
}

func TestCoordinator_ShortCircuit(t *testing.T) {
	var order []string

	p1 := &recordingProbe{name: "p1", order: &order, results: []Bridge{{ID: "AAAA", IP: "10.0.0.5"}}}
	p2 := &recordingProbe{name: "p2", order: &order}

	coord := NewCoordinator(p1, p2)
	bridges := coord.Discover(context.Background(), 5*time.Second)

	if len(order) != 1 || order[0] != "p1" {
		t.Errorf("probes invoked: %v, want [p1] only", order)
	}
	if len(bridges) != 1 {
		t.Errorf("Discover returned %d records, want 1", len(bridges))
	}
}

func TestCoordinator_Exhausted(t *testing.T) {
	var order []string

	coord := NewCoordinator(
		&recordingProbe{name: "p1", order: &order},
		&recordingProbe{name: "p2", order: &order},
	)

	bridges, reason := coord.DiscoverWithReason(context.Background(), 5*time.Second)

	if bridges == nil {
		t.Error("Discover returned nil, want empty non-nil list")
	}
	if len(bridges) != 0 {
		t.Errorf("Discover returned %d records, want 0", len(bridges))
	}
	if reason != ReasonExhausted {
		t.Errorf("reason = %q, want %q", reason, ReasonExhausted)
	}
	if len(order) != 2 {
		t.Errorf("probes invoked: %v, want both probes to have run", order)
	}
}

func TestCoordinator_BusyRejection(t *testing.T) {
	record := Bridge{ID: "AAAA", IP: "10.0.0.5"}
	probe := newBlockingProbe("p1", []Bridge{record})
	coord := NewCoordinator(probe)

	type result struct {
		bridges []Bridge
		reason  string
	}
	firstDone := make(chan result, 1)

	go func() {
		bridges, reason := coord.DiscoverWithReason(context.Background(), 5*time.Second)
		firstDone <- result{bridges, reason}
	}()

	<-probe.started
	waitFor(t, "coordinator to report running", coord.Running)

	// Overlapping call must be rejected without touching the first session
	bridges, reason := coord.DiscoverWithReason(context.Background(), 5*time.Second)
	if len(bridges) != 0 {
		t.Errorf("overlapping Discover returned %d records, want 0", len(bridges))
	}
	if reason != ReasonBusy {
		t.Errorf("overlapping Discover reason = %q, want %q", reason, ReasonBusy)
	}
	if !coord.Running() {
		t.Error("first session no longer running after rejected overlapping call")
	}

	close(probe.release)

	first := <-firstDone
	if len(first.bridges) != 1 {
		t.Errorf("first Discover returned %d records, want 1", len(first.bridges))
	}
}

func TestCoordinator_Stop(t *testing.T) {
	probe := newBlockingProbe("p1", nil)
	coord := NewCoordinator(probe)

	done := make(chan string, 1)
	go func() {
		_, reason := coord.DiscoverWithReason(context.Background(), time.Minute)
		done <- reason
	}()

	<-probe.started
	coord.Stop()

	select {
	case reason := <-done:
		if reason != ReasonStopped {
			t.Errorf("reason = %q, want %q", reason, ReasonStopped)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Discover did not return promptly after Stop")
	}

	// The probe must observe the cooperative stop signal
	select {
	case <-probe.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not observe cancellation after Stop")
	}
}

func TestCoordinator_StopIdempotent(t *testing.T) {
	coord := NewCoordinator()

	// Stop when idle is a no-op
	coord.Stop()
	coord.Stop()

	// Stop after a completed run is also a no-op
	bridges := coord.Discover(context.Background(), time.Second)
	if len(bridges) != 0 {
		t.Errorf("Discover with no probes returned %d records, want 0", len(bridges))
	}
	coord.Stop()
	coord.Stop()
}

func TestCoordinator_Timeout(t *testing.T) {
	probe := newBlockingProbe("p1", []Bridge{{ID: "AAAA", IP: "10.0.0.5"}})
	coord := NewCoordinator(probe)

	start := time.Now()
	bridges, reason := coord.DiscoverWithReason(context.Background(), 50*time.Millisecond)
	elapsed := time.Since(start)

	if len(bridges) != 0 {
		t.Errorf("Discover returned %d records after timeout, want 0", len(bridges))
	}
	if reason != ReasonTimeout {
		t.Errorf("reason = %q, want %q", reason, ReasonTimeout)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Discover took %v to time out, want well under 2s", elapsed)
	}

	// Teardown must reach the in-flight probe
	select {
	case <-probe.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not observe cancellation after timeout")
	}
}

func TestCoordinator_LateProbeResultDropped(t *testing.T) {
	// The probe ignores cancellation and eventually "succeeds" - its
	// result must lose the gate race to the already-fired timeout.
	probe := ProbeFunc{
		ProbeName: "slow",
		RunFunc: func(ctx context.Context) []Bridge {
			time.Sleep(150 * time.Millisecond)
			return []Bridge{{ID: "AAAA", IP: "10.0.0.5"}}
		},
	}
	coord := NewCoordinator(probe)

	bridges, reason := coord.DiscoverWithReason(context.Background(), 30*time.Millisecond)

	if len(bridges) != 0 {
		t.Errorf("Discover returned %d records, want 0 (timeout won)", len(bridges))
	}
	if reason != ReasonTimeout {
		t.Errorf("reason = %q, want %q", reason, ReasonTimeout)
	}

	// Let the straggler report into the closed gate, then verify the
	// coordinator is reusable and the dropped result never surfaces.
	time.Sleep(200 * time.Millisecond)

	if coord.Running() {
		t.Error("coordinator still running after late probe returned")
	}

	bridges = coord.Discover(context.Background(), 300*time.Millisecond)
	if len(bridges) != 0 {
		t.Errorf("followup Discover returned %d records, want 0", len(bridges))
	}
}

func TestCoordinator_DeduplicatesResults(t *testing.T) {
	probe := ProbeFunc{
		ProbeName: "dup",
		RunFunc: func(ctx context.Context) []Bridge {
			return []Bridge{
				{ID: "ecb5fa123456", IP: "192.168.1.10"},
				{ID: "ECB5:FA:12:34:56", IP: "192.168.1.10"},
			}
		},
	}

	coord := NewCoordinator(probe)
	bridges := coord.Discover(context.Background(), time.Second)

	if len(bridges) != 1 {
		t.Fatalf("Discover returned %d records, want 1 merged entry", len(bridges))
	}
	if bridges[0].NormalizedID != "ECB5FA123456" {
		t.Errorf("NormalizedID = %q, want ECB5FA123456", bridges[0].NormalizedID)
	}
}

func TestCoordinator_CallerContextCancel(t *testing.T) {
	probe := newBlockingProbe("p1", nil)
	coord := NewCoordinator(probe)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan string, 1)
	go func() {
		_, reason := coord.DiscoverWithReason(ctx, time.Minute)
		done <- reason
	}()

	<-probe.started
	cancel()

	select {
	case reason := <-done:
		if reason != ReasonStopped {
			t.Errorf("reason = %q, want %q", reason, ReasonStopped)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Discover did not return after caller context cancellation")
	}
}

func TestCoordinator_ReusableAcrossRuns(t *testing.T) {
	calls := 0
	probe := ProbeFunc{
		ProbeName: "counting",
		RunFunc: func(ctx context.Context) []Bridge {
			calls++
			return []Bridge{{ID: "AAAA", IP: "10.0.0.5"}}
		},
	}

	coord := NewCoordinator(probe)

	for i := 0; i < 3; i++ {
		bridges := coord.Discover(context.Background(), time.Second)
		if len(bridges) != 1 {
			t.Fatalf("run %d returned %d records, want 1", i, len(bridges))
		}
	}

	if calls != 3 {
		t.Errorf("probe ran %d times across 3 Discover calls, want 3", calls)
	}
}
