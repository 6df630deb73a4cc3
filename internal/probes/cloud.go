package probes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/verhoek/huescout/internal/discovery"
	"github.com/verhoek/huescout/internal/logging"
)

// DefaultCloudTimeout bounds each N-UPnP endpoint request
const DefaultCloudTimeout = 5 * time.Second

// nupnpEndpoints are tried in order. The meethue.com URLs are legacy
// endpoints that still answer for bridges on old firmware.
var nupnpEndpoints = []string{
	"https://discovery.meethue.com/",
	"https://www.meethue.com/api/nupnp",
	"http://www.meethue.com/api/nupnp",
}

// nupnpRecord is one entry of the N-UPnP response array
type nupnpRecord struct {
	ID                string `json:"id"`
	InternalIPAddress string `json:"internalipaddress"`
	Port              int    `json:"port"`
}

// CloudProbe queries the Hue N-UPnP directory service, which returns the
// LAN addresses that bridges on this network last registered with.
// Requires internet access and bridges that have phoned home.
type CloudProbe struct {
	// Endpoints are the directory URLs to try in order
	Endpoints []string

	// Client is the HTTP client used for directory requests
	Client *http.Client
}

// NewCloudProbe creates a cloud probe against the standard endpoints
func NewCloudProbe() *CloudProbe {
	return &CloudProbe{
		Endpoints: nupnpEndpoints,
		Client:    &http.Client{Timeout: DefaultCloudTimeout},
	}
}

// Name identifies the probe in logs and session state
func (p *CloudProbe) Name() string {
	return "cloud"
}

// Run queries each directory endpoint until one returns bridge records.
// Rate limiting (429) and transport errors fall through to the next
// endpoint.
func (p *CloudProbe) Run(ctx context.Context) []discovery.Bridge {
	for _, url := range p.Endpoints {
		if ctx.Err() != nil {
			return nil
		}

		bridges, err := p.query(ctx, url)
		if err != nil {
			logging.Debug("N-UPnP endpoint failed",
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		if len(bridges) > 0 {
			return bridges
		}
	}
	return nil
}

func (p *CloudProbe) query(ctx context.Context, url string) ([]discovery.Bridge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// 429 means the directory is rate limiting this network; any other
	// non-200 is equally unusable, so both fall through to the next
	// endpoint via the returned error.
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{url: url, status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, err
	}

	var records []nupnpRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}

	bridges := make([]discovery.Bridge, 0, len(records))
	for _, rec := range records {
		if rec.InternalIPAddress == "" {
			continue
		}
		port := rec.Port
		if port == 0 {
			port = discovery.DefaultPort
		}
		bridges = append(bridges, discovery.Bridge{
			ID:           rec.ID,
			IP:           rec.InternalIPAddress,
			Port:         port,
			Source:       SourceCloud,
			DiscoveredAt: time.Now(),
		})
	}
	return bridges, nil
}

type statusError struct {
	url    string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.url, e.status)
}
