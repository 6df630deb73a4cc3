// Package probes implements the concrete bridge discovery probes that the
// discovery coordinator runs in waterfall order.
//
// # Probe Order
//
// DefaultProbes returns the standard four, fastest and least intrusive
// first:
//
//  1. MulticastProbe: mDNS browse for _hue._tcp plus an SSDP M-SEARCH
//     sweep. Answers arrive within a few seconds on a healthy LAN.
//  2. CloudProbe: N-UPnP lookup against the meethue discovery endpoint,
//     which returns the LAN addresses the bridges last phoned home with.
//  3. AddressListProbe: direct checks of last-known addresses from the
//     local registry plus a short list of gateway-adjacent guesses.
//  4. SubnetProbe: exhaustive sweep of the local /24 subnets with bounded
//     concurrency. Slowest, runs only when everything else came up empty.
//
// Every probe confirms a candidate address the same way: an
// unauthenticated fetch of /api/config that must return a bridgeid
// (see bridgeapi.Identify). All probes honor context cancellation and
// return whatever they have accumulated when cancelled.
package probes
