package discovery

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestCancelGroup_CancelAll(t *testing.T) {
	group := &CancelGroup{}

	var calls int32
	for i := 0; i < 3; i++ {
		group.Register(func() { atomic.AddInt32(&calls, 1) })
	}

	group.CancelAll()

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("CancelAll() invoked %d cancel functions, want 3", got)
	}
	if !group.Cancelled() {
		t.Error("Cancelled() = false after CancelAll, want true")
	}
}

func TestCancelGroup_Idempotent(t *testing.T) {
	group := &CancelGroup{}

	var calls int32
	group.Register(func() { atomic.AddInt32(&calls, 1) })

	group.CancelAll()
	group.CancelAll()
	group.CancelAll()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("cancel function ran %d times across repeated CancelAll, want 1", got)
	}
}

func TestCancelGroup_RegisterAfterCancel(t *testing.T) {
	group := &CancelGroup{}
	group.CancelAll()

	var called bool
	group.Register(func() { called = true })

	if !called {
		t.Error("cancel registered after CancelAll was not invoked immediately")
	}
}

func TestCancelGroup_NilCancel(t *testing.T) {
	group := &CancelGroup{}
	group.Register(nil)
	group.CancelAll() // must not panic
}

func TestCancelGroup_RacingCancellers(t *testing.T) {
	group := &CancelGroup{}

	var calls int32
	for i := 0; i < 10; i++ {
		group.Register(func() { atomic.AddInt32(&calls, 1) })
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			group.CancelAll()
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 10 {
		t.Errorf("racing CancelAll callers produced %d invocations, want 10", got)
	}
}
