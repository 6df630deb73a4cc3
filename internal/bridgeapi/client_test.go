package bridgeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_GetConfig(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config" {
			t.Errorf("request path = %q, want /api/config", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleConfigJSON))
	}))
	defer ts.Close()

	client := NewClientWithURL(ts.URL)

	config, err := client.GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if config.BridgeID != "ECB5FAFFFE123456" {
		t.Errorf("BridgeID = %q, want ECB5FAFFFE123456", config.BridgeID)
	}
}

func TestClient_GetConfig_RetriesServerErrors(t *testing.T) {
	var requests int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(sampleConfigJSON))
	}))
	defer ts.Close()

	client := NewClientWithURL(ts.URL)
	client.SetRetry(2, 10*time.Millisecond)

	config, err := client.GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if config.BridgeID == "" {
		t.Error("GetConfig() returned empty BridgeID after retry")
	}
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Errorf("server saw %d requests, want 2 (one failure, one retry)", got)
	}
}

func TestClient_GetConfig_NoRetryOnClientError(t *testing.T) {
	var requests int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClientWithURL(ts.URL)
	client.SetRetry(3, 10*time.Millisecond)

	_, err := client.GetConfig(context.Background())
	if err == nil {
		t.Fatal("GetConfig() error = nil, want HTTP error")
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("server saw %d requests, want 1 (404 is not retryable)", got)
	}
}

func TestIdentify_Bridge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleConfigJSON))
	}))
	defer ts.Close()

	host := strings.TrimPrefix(ts.URL, "http://")

	config, ok := Identify(context.Background(), host)
	if !ok {
		t.Fatal("Identify() = false, want true for a bridge")
	}
	if config.BridgeID != "ECB5FAFFFE123456" {
		t.Errorf("BridgeID = %q, want ECB5FAFFFE123456", config.BridgeID)
	}
}

func TestIdentify_NotABridge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Valid JSON, but no bridgeid - e.g. some other IoT device
		_, _ = w.Write([]byte(`{"name": "printer", "status": "ok"}`))
	}))
	defer ts.Close()

	host := strings.TrimPrefix(ts.URL, "http://")

	if _, ok := Identify(context.Background(), host); ok {
		t.Error("Identify() = true for a non-bridge device, want false")
	}
}

func TestIdentify_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := Identify(ctx, "192.0.2.1"); ok {
		t.Error("Identify() = true with cancelled context, want false")
	}
}
