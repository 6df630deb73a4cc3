// Package bridgeapi provides an HTTP client for the local API of
// Hue-compatible bridges.
//
// The package covers the unauthenticated surface of the bridge API: the
// /api/config portal endpoint that every Hue-compatible bridge serves
// without credentials. That endpoint is enough to identify a bridge
// (bridgeid), read its name, model, and firmware versions, and verify
// that an arbitrary address on the network is in fact a bridge - which is
// exactly what the discovery probes need.
//
// # Usage Example
//
//	client := bridgeapi.NewClient("192.168.1.10", 80)
//
//	config, err := client.GetConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Bridge %s (%s), firmware %s\n",
//	    config.BridgeID, config.Name, config.SWVersion)
//
// # Error Handling
//
// All failures are returned as *BridgeError with a classified type
// (network, timeout, connection refused, DNS, HTTP, parse). Retryable
// failures are retried automatically with exponential backoff.
// GetTroubleshootingHint turns a classified error into user-facing
// guidance for the CLI.
package bridgeapi
