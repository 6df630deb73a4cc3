package probes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verhoek/huescout/internal/discovery"
)

const sampleNUPnPResponse = `[
	{"id": "ecb5fafffe23f6a7", "internalipaddress": "192.168.1.23", "port": 443},
	{"id": "001788fffe654321", "internalipaddress": "192.168.1.42"}
]`

func newCloudProbeFor(urls ...string) *CloudProbe {
	p := NewCloudProbe()
	p.Endpoints = urls
	return p
}

func TestCloudProbe_Run(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleNUPnPResponse))
	}))
	defer ts.Close()

	bridges := newCloudProbeFor(ts.URL).Run(context.Background())

	if len(bridges) != 2 {
		t.Fatalf("Run() returned %d bridges, want 2", len(bridges))
	}
	first := bridges[0]
	if first.ID != "ecb5fafffe23f6a7" {
		t.Errorf("ID = %q, want ecb5fafffe23f6a7", first.ID)
	}
	if first.IP != "192.168.1.23" {
		t.Errorf("IP = %q, want 192.168.1.23", first.IP)
	}
	if first.Port != 443 {
		t.Errorf("Port = %d, want 443", first.Port)
	}
	if first.Source != SourceCloud {
		t.Errorf("Source = %q, want %q", first.Source, SourceCloud)
	}
	if bridges[1].Port != discovery.DefaultPort {
		t.Errorf("record without port got %d, want default %d", bridges[1].Port, discovery.DefaultPort)
	}
}

func TestCloudProbe_FallsBackOnRateLimit(t *testing.T) {
	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer limited.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleNUPnPResponse))
	}))
	defer healthy.Close()

	bridges := newCloudProbeFor(limited.URL, healthy.URL).Run(context.Background())

	if len(bridges) != 2 {
		t.Fatalf("Run() returned %d bridges, want 2 from fallback endpoint", len(bridges))
	}
}

func TestCloudProbe_SkipsRecordsWithoutAddress(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "ecb5fafffe23f6a7", "internalipaddress": ""}]`))
	}))
	defer ts.Close()

	if bridges := newCloudProbeFor(ts.URL).Run(context.Background()); len(bridges) != 0 {
		t.Errorf("Run() returned %d bridges for addressless records, want 0", len(bridges))
	}
}

func TestCloudProbe_InvalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not a directory</html>"))
	}))
	defer ts.Close()

	if bridges := newCloudProbeFor(ts.URL).Run(context.Background()); len(bridges) != 0 {
		t.Errorf("Run() returned %d bridges for invalid payload, want 0", len(bridges))
	}
}

func TestCloudProbe_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("endpoint queried despite cancelled context")
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if bridges := newCloudProbeFor(ts.URL).Run(ctx); len(bridges) != 0 {
		t.Errorf("Run() returned %d bridges with cancelled context, want 0", len(bridges))
	}
}

func TestCloudProbe_Name(t *testing.T) {
	if got := NewCloudProbe().Name(); got != "cloud" {
		t.Errorf("Name() = %q, want cloud", got)
	}
}
