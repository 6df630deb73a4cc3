package probes

import (
	"context"
	"fmt"

	"github.com/verhoek/huescout/internal/discovery"
)

// DefaultAddressListConcurrency bounds parallel checks of the shortlist
const DefaultAddressListConcurrency = 8

// AddressListProbe checks a short, prioritized list of candidate
// addresses: bridges seen in previous scans first, then a handful of
// low DHCP addresses next to each local gateway. Much cheaper than a
// full subnet sweep and often sufficient on stable home networks.
type AddressListProbe struct {
	// Seed supplies last-known bridge addresses, newest first.
	// May be nil when no registry is available.
	Seed func() []string

	// Concurrency bounds parallel address checks
	Concurrency int
}

// NewAddressListProbe creates an address list probe with the given seed
// source
func NewAddressListProbe(seed func() []string) *AddressListProbe {
	return &AddressListProbe{
		Seed:        seed,
		Concurrency: DefaultAddressListConcurrency,
	}
}

// Name identifies the probe in logs and session state
func (p *AddressListProbe) Name() string {
	return "address-list"
}

// Run checks every shortlist address and returns the confirmed bridges
func (p *AddressListProbe) Run(ctx context.Context) []discovery.Bridge {
	candidates := p.shortlist()
	if len(candidates) == 0 {
		return nil
	}
	return identifyHosts(ctx, candidates, p.Concurrency, SourceSeed)
}

// shortlist builds the candidate list: seeded addresses first, then
// gateway-adjacent guesses, deduplicated in order.
func (p *AddressListProbe) shortlist() []string {
	var candidates []string
	if p.Seed != nil {
		candidates = append(candidates, p.Seed()...)
	}
	candidates = append(candidates, gatewayAdjacent()...)

	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, addr := range candidates {
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

// gatewayAdjacent guesses addresses a bridge is likely to hold: the first
// few DHCP leases on each local /24. Home routers hand out low addresses
// first, and bridges tend to be long-lived leases.
func gatewayAdjacent() []string {
	var addrs []string
	for _, prefix := range localSubnets() {
		for host := 2; host <= 6; host++ {
			addrs = append(addrs, fmt.Sprintf("%s.%d", prefix, host))
		}
	}
	return addrs
}
