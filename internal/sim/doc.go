// Package sim implements a Hue bridge simulator for development and
// testing without physical hardware.
//
// The simulator answers every surface the discovery probes rely on:
//
//   - HTTP /api/config and /api/0/config with a configurable bridge
//     identity, so address checks confirm it as a bridge
//   - mDNS advertisement of the _hue._tcp service
//   - SSDP M-SEARCH responses with the IpBridge server token
//   - an optional HTTPS listener with a self-signed certificate, matching
//     how real bridges terminate TLS
//
// A WebSocket event feed at /events streams request activity, which is
// useful when watching a scan hit the simulator in real time.
//
// # Usage Example
//
//	simulator, err := sim.New(&sim.Config{Port: 8080})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := simulator.Start(); err != nil {
//	    log.Fatal(err)
//	}
package sim
