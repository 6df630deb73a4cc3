package discovery

import (
	"sync"
	"testing"
)

func TestCompletionGate_SingleDelivery(t *testing.T) {
	gate := &CompletionGate{}

	if gate.Completed() {
		t.Error("new gate reports Completed() = true, want false")
	}

	if !gate.TryComplete() {
		t.Fatal("first TryComplete() = false, want true")
	}

	if gate.TryComplete() {
		t.Error("second TryComplete() = true, want false")
	}

	if !gate.Completed() {
		t.Error("Completed() = false after firing, want true")
	}
}

func TestCompletionGate_ConcurrentCallers(t *testing.T) {
	const callers = 100

	gate := &CompletionGate{}

	var wg sync.WaitGroup
	start := make(chan struct{})
	wins := make(chan bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			wins <- gate.TryComplete()
		}()
	}

	close(start)
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}

	if winners != 1 {
		t.Errorf("got %d winning TryComplete() calls, want exactly 1", winners)
	}
}
