// Package discovery orchestrates the search for Hue-compatible bridges
// on an unknown network.
//
// Several independent, unreliable techniques can locate a bridge: mDNS and
// SSDP multicast on the LAN, the meethue cloud directory, and probing
// likely local addresses. This package runs them as a strict waterfall -
// one probe at a time, in priority order, short-circuiting on the first
// non-empty result - and guarantees the search terminates exactly once,
// can be cancelled cleanly, and never blocks the caller longer than the
// overall timeout.
//
// # Discovery Process
//
//  1. The caller invokes Coordinator.Discover with an overall budget
//  2. Probes run one after another; a probe that finds nothing advances
//     the waterfall to the next one
//  3. The first non-empty probe result, the overall timeout, or an
//     explicit Stop - whichever happens first - delivers the final list
//  4. Results are normalized and deduplicated by bridge ID before return
//  5. Every still-running probe and timer is cancelled cooperatively
//
// # Usage Example
//
//	coord := discovery.NewCoordinator(probes.DefaultProbes(reg)...)
//
//	bridges := coord.Discover(ctx, 40*time.Second)
//	for _, b := range bridges {
//	    fmt.Printf("Found: %s at %s\n", b.NormalizedID, b.IP)
//	}
//
// An empty list is the only "not found" signal: exhaustion, timeout, and
// explicit stop all surface the same way, never as an error value.
//
// # Concurrency
//
// A Coordinator owns at most one running session; a Discover call issued
// while another is in progress returns an empty list immediately without
// disturbing the running session. The active probe, the timeout timer,
// and Stop may race to finish a session - the CompletionGate ensures
// exactly one of them wins, and the losers' results are discarded.
//
// Probes themselves may fan out internally (the subnet probe checks many
// addresses concurrently), but the coordinator treats each probe as one
// opaque unit and never runs two probes at the same time.
package discovery
