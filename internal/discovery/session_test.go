package discovery

import "testing"

func TestSession_Lifecycle(t *testing.T) {
	sess := NewSession()

	if sess.State() != StateIdle {
		t.Fatalf("new session state = %v, want %v", sess.State(), StateIdle)
	}
	if sess.ProbeIndex() != -1 {
		t.Errorf("new session ProbeIndex() = %d, want -1", sess.ProbeIndex())
	}

	if !sess.Start() {
		t.Fatal("Start() on idle session = false, want true")
	}
	if sess.State() != StateRunning {
		t.Errorf("state after Start = %v, want %v", sess.State(), StateRunning)
	}
	if sess.StartedAt().IsZero() {
		t.Error("StartedAt() is zero after Start")
	}

	sess.Advance(2)
	if sess.ProbeIndex() != 2 {
		t.Errorf("ProbeIndex() = %d after Advance(2), want 2", sess.ProbeIndex())
	}

	results := []Bridge{{ID: "AAAA", IP: "10.0.0.5"}}
	if !sess.Complete(results) {
		t.Fatal("Complete() on running session = false, want true")
	}
	if sess.State() != StateCompleted {
		t.Errorf("state after Complete = %v, want %v", sess.State(), StateCompleted)
	}
	if len(sess.Results()) != 1 {
		t.Errorf("Results() has %d records, want 1", len(sess.Results()))
	}
}

func TestSession_TransitionsAreOneDirectional(t *testing.T) {
	t.Run("double start rejected", func(t *testing.T) {
		sess := NewSession()
		sess.Start()
		if sess.Start() {
			t.Error("second Start() = true, want false")
		}
	})

	t.Run("complete before start rejected", func(t *testing.T) {
		sess := NewSession()
		if sess.Complete(nil) {
			t.Error("Complete() on idle session = true, want false")
		}
		if sess.State() != StateIdle {
			t.Errorf("state = %v, want %v", sess.State(), StateIdle)
		}
	})

	t.Run("cancel after complete rejected", func(t *testing.T) {
		sess := NewSession()
		sess.Start()
		sess.Complete(nil)
		if sess.Cancel() {
			t.Error("Cancel() after Complete = true, want false")
		}
		if sess.State() != StateCompleted {
			t.Errorf("state = %v, want %v", sess.State(), StateCompleted)
		}
	})

	t.Run("complete after cancel rejected", func(t *testing.T) {
		sess := NewSession()
		sess.Start()
		sess.Cancel()
		if sess.Complete(nil) {
			t.Error("Complete() after Cancel = true, want false")
		}
		if sess.State() != StateCancelled {
			t.Errorf("state = %v, want %v", sess.State(), StateCancelled)
		}
	})

	t.Run("advance ignored when not running", func(t *testing.T) {
		sess := NewSession()
		sess.Advance(3)
		if sess.ProbeIndex() != -1 {
			t.Errorf("ProbeIndex() = %d after Advance on idle session, want -1", sess.ProbeIndex())
		}
	})
}

func TestSessionState_String(t *testing.T) {
	tests := []struct {
		state SessionState
		want  string
	}{
		{StateIdle, "idle"},
		{StateRunning, "running"},
		{StateCompleted, "completed"},
		{StateCancelled, "cancelled"},
		{SessionState(99), "SessionState(99)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("SessionState(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}
