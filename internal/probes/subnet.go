package probes

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/verhoek/huescout/internal/discovery"
	"github.com/verhoek/huescout/internal/logging"
)

// DefaultSubnetConcurrency bounds parallel host checks during a sweep.
// Each check holds a socket for up to a second, so this caps open
// connections rather than CPU.
const DefaultSubnetConcurrency = 80

// SubnetProbe sweeps every host of the local /24 subnets with a config
// fetch. The slowest probe by far; it runs last, when nothing announced
// itself and the directory had no record of this network.
type SubnetProbe struct {
	// Concurrency bounds parallel host checks
	Concurrency int
}

// NewSubnetProbe creates a subnet probe with default settings
func NewSubnetProbe() *SubnetProbe {
	return &SubnetProbe{
		Concurrency: DefaultSubnetConcurrency,
	}
}

// Name identifies the probe in logs and session state
func (p *SubnetProbe) Name() string {
	return "subnet-scan"
}

// Run expands the local subnets and checks every host. Cancellation stops
// dispatch; bridges already confirmed are still returned.
func (p *SubnetProbe) Run(ctx context.Context) []discovery.Bridge {
	subnets := localSubnets()
	if len(subnets) == 0 {
		logging.Debug("No local subnets eligible for sweep")
		return nil
	}

	var hosts []string
	for _, prefix := range subnets {
		hosts = append(hosts, expandSubnet(prefix)...)
	}

	logging.Debug("Sweeping subnets",
		zap.Strings("subnets", subnets),
		zap.Int("hosts", len(hosts)))

	return identifyHosts(ctx, hosts, p.Concurrency, SourceScan)
}

// localSubnets returns the /24 prefixes ("a.b.c") of every up, non-loopback
// IPv4 interface. Networks narrower than /24 are skipped; wider networks
// are swept only within the interface's own /24.
func localSubnets() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var subnets []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil {
				continue
			}
			ones, bits := ipNet.Mask.Size()
			if ones == 0 || bits == 0 || ones > 24 {
				continue
			}
			subnets = append(subnets, fmt.Sprintf("%d.%d.%d", ip[0], ip[1], ip[2]))
		}
	}
	return subnets
}

// expandSubnet lists the 254 host addresses of a /24 prefix
func expandSubnet(prefix string) []string {
	hosts := make([]string, 0, 254)
	for i := 1; i <= 254; i++ {
		hosts = append(hosts, fmt.Sprintf("%s.%d", prefix, i))
	}
	return hosts
}
