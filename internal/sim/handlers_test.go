package sim

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/verhoek/huescout/internal/bridgeapi"
)

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	simulator, err := New(&Config{
		Port:     8080,
		BridgeID: "ECB5FAFFFE23F6A7",
		Name:     "Test Bridge",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return simulator
}

func TestHandleConfig(t *testing.T) {
	simulator := newTestSimulator(t)
	ts := httptest.NewServer(simulator.newMux())
	defer ts.Close()

	for _, path := range []string{"/api/config", "/api/0/config"} {
		t.Run(path, func(t *testing.T) {
			resp, err := ts.Client().Get(ts.URL + path)
			if err != nil {
				t.Fatalf("GET %s error = %v", path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != 200 {
				t.Fatalf("GET %s status = %d, want 200", path, resp.StatusCode)
			}

			var config bridgeapi.Config
			if err := json.NewDecoder(resp.Body).Decode(&config); err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if config.BridgeID != "ECB5FAFFFE23F6A7" {
				t.Errorf("bridgeid = %q, want ECB5FAFFFE23F6A7", config.BridgeID)
			}
			if config.Name != "Test Bridge" {
				t.Errorf("name = %q, want Test Bridge", config.Name)
			}
			if !config.IsBridge() {
				t.Error("served config should identify as a bridge")
			}
		})
	}
}

func TestHandleConfig_MethodNotAllowed(t *testing.T) {
	simulator := newTestSimulator(t)
	ts := httptest.NewServer(simulator.newMux())
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/config", "application/json", nil)
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 405 {
		t.Errorf("POST /api/config status = %d, want 405", resp.StatusCode)
	}
}

func TestHandleDescription(t *testing.T) {
	simulator := newTestSimulator(t)
	ts := httptest.NewServer(simulator.newMux())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/description.xml")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := string(data)

	for _, want := range []string{"urn:schemas-upnp-org:device:Basic:1", "ECB5FAFFFE23F6A7", "Philips hue bridge"} {
		if !strings.Contains(body, want) {
			t.Errorf("description.xml missing %q", want)
		}
	}
}

func TestEventFeed(t *testing.T) {
	simulator := newTestSimulator(t)
	ts := httptest.NewServer(simulator.newMux())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	// Give the subscriber a moment to register before triggering an event
	waitForSubscriber(t, simulator.hub)

	resp, err := ts.Client().Get(ts.URL + "/api/config")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("ReadJSON error = %v", err)
	}

	if event.Type != EventConfigFetched {
		t.Errorf("event type = %q, want %q", event.Type, EventConfigFetched)
	}
	if event.Path != "/api/config" {
		t.Errorf("event path = %q, want /api/config", event.Path)
	}
	if event.Timestamp.IsZero() {
		t.Error("event timestamp not set")
	}
}

func waitForSubscriber(t *testing.T, hub *eventHub) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.Lock()
		n := len(hub.subs)
		hub.mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no event feed subscriber registered")
}

func TestEventHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := newEventHub()
	sub := hub.subscribe()
	defer hub.unsubscribe(sub)

	// Publish more events than the buffer holds; must not block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.publish(Event{Type: EventSSDPSearch})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestEventHub_CloseTerminatesSubscribers(t *testing.T) {
	hub := newEventHub()
	sub := hub.subscribe()

	hub.close()

	select {
	case _, ok := <-sub:
		if ok {
			t.Error("expected closed channel after hub.close()")
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber channel not closed")
	}

	// Subscribing after close returns a closed channel
	late := hub.subscribe()
	if _, ok := <-late; ok {
		t.Error("late subscriber should get a closed channel")
	}
}

func TestApplyDefaults(t *testing.T) {
	config := &Config{}
	config.applyDefaults()

	if config.Port != 80 {
		t.Errorf("Port = %d, want 80", config.Port)
	}
	if config.BridgeID == "" {
		t.Error("BridgeID not defaulted")
	}
	if config.ModelID != "BSB002" {
		t.Errorf("ModelID = %q, want BSB002", config.ModelID)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	config := &Config{Port: 8080, BridgeID: "AA", Name: "Custom"}
	config.applyDefaults()

	if config.Port != 8080 || config.BridgeID != "AA" || config.Name != "Custom" {
		t.Errorf("explicit values overwritten: %+v", config)
	}
}
