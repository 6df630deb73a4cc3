package probes

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/verhoek/huescout/internal/bridgeapi"
	"github.com/verhoek/huescout/internal/discovery"
)

// Source names recorded on discovered bridge records
const (
	SourceMDNS  = "mdns"
	SourceSSDP  = "ssdp"
	SourceCloud = "nupnp"
	SourceSeed  = "known-address"
	SourceScan  = "subnet-scan"
)

// DefaultProbes returns the standard probe waterfall in priority order.
// seedAddresses supplies last-known bridge addresses for the address
// list probe; it may be nil.
func DefaultProbes(seedAddresses func() []string) []discovery.Probe {
	return []discovery.Probe{
		NewMulticastProbe(),
		NewCloudProbe(),
		NewAddressListProbe(seedAddresses),
		NewSubnetProbe(),
	}
}

// identifyHosts checks each host address for a bridge with bounded
// concurrency and returns a record for every confirmed bridge. Hosts may
// carry an explicit ":port" suffix. Dispatch stops once ctx is done;
// results accumulated up to that point are still returned.
func identifyHosts(ctx context.Context, hosts []string, concurrency int, source string) []discovery.Bridge {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu    sync.Mutex
		found []discovery.Bridge
		wg    sync.WaitGroup
	)
	sem := make(chan struct{}, concurrency)

	for _, host := range hosts {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(addr string) {
			defer wg.Done()
			defer func() { <-sem }()

			config, ok := bridgeapi.Identify(ctx, addr)
			if !ok {
				return
			}

			ip, port := splitHostPort(addr)
			mu.Lock()
			found = append(found, discovery.Bridge{
				ID:           config.BridgeID,
				Name:         config.Name,
				IP:           ip,
				Port:         port,
				Source:       source,
				DiscoveredAt: time.Now(),
			})
			mu.Unlock()
		}(host)
	}

	wg.Wait()
	return found
}

// splitHostPort separates an optional ":port" suffix from a host address.
// Plain addresses get the default bridge port.
func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, discovery.DefaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return host, discovery.DefaultPort
	}
	return host, port
}
