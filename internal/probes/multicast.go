package probes

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/verhoek/huescout/internal/discovery"
	"github.com/verhoek/huescout/internal/logging"
)

const (
	// ServiceType is the mDNS service type Hue bridges advertise
	ServiceType = "_hue._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultMulticastTimeout bounds a single multicast sweep. Bridges
	// answer mDNS and SSDP queries within a few seconds when reachable.
	DefaultMulticastTimeout = 6 * time.Second

	ssdpMulticastAddr = "239.255.255.250:1900"
)

// ssdpSearchTargets are the M-SEARCH targets swept in order. Hue bridges
// answer the Basic:1 device query; ssdp:all and rootdevice catch older
// firmware that only responds to broad searches.
var ssdpSearchTargets = []string{
	"ssdp:all",
	"urn:schemas-upnp-org:device:Basic:1",
	"upnp:rootdevice",
}

// MulticastProbe discovers bridges that announce themselves on the local
// network, via mDNS service browsing and an SSDP M-SEARCH sweep run
// concurrently.
type MulticastProbe struct {
	// Timeout is the maximum time to wait for multicast answers
	Timeout time.Duration
}

// NewMulticastProbe creates a multicast probe with default settings
func NewMulticastProbe() *MulticastProbe {
	return &MulticastProbe{
		Timeout: DefaultMulticastTimeout,
	}
}

// Name identifies the probe in logs and session state
func (p *MulticastProbe) Name() string {
	return "multicast"
}

// Run browses for _hue._tcp services and sweeps SSDP, returning every
// bridge that answered before the timeout or cancellation.
func (p *MulticastProbe) Run(ctx context.Context) []discovery.Bridge {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		bridges []discovery.Bridge
	)
	add := func(found []discovery.Bridge) {
		mu.Lock()
		bridges = append(bridges, found...)
		mu.Unlock()
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		add(p.browseMDNS(ctx))
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		add(p.sweepSSDP(ctx))
	}()

	wg.Wait()
	return bridges
}

// browseMDNS runs a zeroconf browse for the Hue service type until the
// context completes.
func (p *MulticastProbe) browseMDNS(ctx context.Context) []discovery.Bridge {
	entries := make(chan *zeroconf.ServiceEntry)
	bridges := make([]discovery.Bridge, 0)
	collected := make(chan struct{})

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		logging.Debug("mDNS resolver unavailable", zap.Error(err))
		return nil
	}

	go func() {
		defer close(collected)
		for entry := range entries {
			bridge := parseServiceEntry(entry)
			if bridge != nil {
				bridges = append(bridges, *bridge)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		logging.Debug("mDNS browse failed", zap.Error(err))
		return nil
	}

	// Browse closes the entries channel when ctx completes
	<-ctx.Done()
	<-collected

	return bridges
}

// parseServiceEntry converts a zeroconf service entry to a bridge record.
// Returns nil if the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *discovery.Bridge {
	// Prefer IPv4
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = discovery.DefaultPort
	}

	// Hue bridges put their identifier in a "bridgeid" TXT record
	var id string
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bridgeid") {
			id = parts[1]
			break
		}
	}

	return &discovery.Bridge{
		ID:           id,
		Name:         entry.Instance,
		IP:           ip,
		Port:         port,
		Source:       SourceMDNS,
		DiscoveredAt: time.Now(),
	}
}

// sweepSSDP sends M-SEARCH queries to the SSDP multicast group and
// collects unicast answers that look like a Hue bridge. Each candidate
// address is confirmed with a config fetch before it is reported.
func (p *MulticastProbe) sweepSSDP(ctx context.Context) []discovery.Bridge {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		logging.Debug("SSDP socket unavailable", zap.Error(err))
		return nil
	}
	defer conn.Close()

	ssdpAddr, err := net.ResolveUDPAddr("udp4", ssdpMulticastAddr)
	if err != nil {
		logging.Debug("SSDP multicast address unresolvable", zap.Error(err))
		return nil
	}

	for _, st := range ssdpSearchTargets {
		msg := "M-SEARCH * HTTP/1.1\r\n" +
			"HOST: " + ssdpMulticastAddr + "\r\n" +
			"MAN: \"ssdp:discover\"\r\n" +
			"ST: " + st + "\r\n" +
			"MX: 3\r\n" +
			"\r\n"
		if _, err := conn.WriteTo([]byte(msg), ssdpAddr); err != nil {
			logging.Debug("SSDP M-SEARCH send failed",
				zap.String("target", st),
				zap.Error(err))
		}
	}

	deadline := time.Now().Add(p.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	buf := make([]byte, 4096)
	var candidates []string
	seen := make(map[string]bool)

	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			logging.Debug("SSDP read error", zap.Error(err))
			continue
		}

		udpAddr, ok := addr.(*net.UDPAddr)
		if !ok {
			continue
		}
		ip := udpAddr.IP.String()
		if seen[ip] || !looksLikeHueResponse(string(buf[:n])) {
			continue
		}
		seen[ip] = true
		candidates = append(candidates, ip)
	}

	if len(candidates) == 0 {
		return nil
	}

	found := identifyHosts(ctx, candidates, len(candidates), SourceSSDP)
	logging.Debug("SSDP sweep finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("confirmed", len(found)))
	return found
}

// looksLikeHueResponse reports whether an SSDP response payload carries a
// Hue bridge marker. Firmware varies: newer bridges say "Philips hue",
// older ones identify as "IpBridge".
func looksLikeHueResponse(response string) bool {
	upper := strings.ToUpper(response)
	return strings.Contains(upper, "HUE") ||
		strings.Contains(upper, "PHILIPS") ||
		strings.Contains(upper, "IPBRIDGE")
}
