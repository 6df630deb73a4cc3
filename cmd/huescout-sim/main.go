// Huescout-sim is a Hue bridge emulator for testing discovery clients.
//
// It answers the same surfaces a real bridge exposes before pairing:
// GET /api/config, the UPnP description document, the _hue._tcp mDNS
// advertisement, and SSDP M-SEARCH queries. A WebSocket event feed at
// /events reports every probe that touches the simulator, which makes it
// useful for watching a discovery client work in real time.
//
// Usage:
//
//	huescout-sim serve [flags]
//
// See 'huescout-sim serve --help' for available options.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verhoek/huescout/internal/sim"
	"github.com/verhoek/huescout/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "huescout-sim",
	Short: "Hue bridge simulator",
	Long: `A standalone Hue bridge emulator for testing discovery clients.

The simulator answers /api/config and /description.xml like a real
bridge, advertises itself over mDNS and SSDP, and streams every probe
it receives over a WebSocket event feed at /events.

Note: For finding real bridges, use the separate 'huescout' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host        string
	port        int
	httpsPort   int
	bridgeID    string
	bridgeName  string
	modelID     string
	swVersion   string
	apiVersion  string
	logLevel    string
	disableMDNS bool
	disableSSDP bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bridge simulator",
	Long: `Start the simulator and answer discovery traffic like a Hue bridge.

The simulator serves HTTP on --port and, when --https-port is set,
generates a self-signed certificate with the bridge ID as common name
and serves the same surfaces over TLS. The mDNS advertisement and SSDP
responder can be disabled individually to test single discovery paths.`,
	Example: `  # Start a simulated bridge on port 8080
  huescout-sim serve --port 8080

  # Simulate a specific bridge identity
  huescout-sim serve --port 8080 --bridge-id ECB5FAFFFE0AB123 --name "Test Bridge"

  # HTTP and HTTPS, chatty logging
  huescout-sim serve --port 8080 --https-port 8443 --log-level debug

  # Only answer direct address checks (no multicast presence)
  huescout-sim serve --port 8080 --no-mdns --no-ssdp`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 80, "HTTP port")
	serveCmd.Flags().IntVar(&httpsPort, "https-port", 0, "HTTPS port (0 = disabled)")
	serveCmd.Flags().StringVar(&bridgeID, "bridge-id", "", "Bridge ID to report (default ECB5FAFFFE000001)")
	serveCmd.Flags().StringVar(&bridgeName, "name", "", "Bridge name to report")
	serveCmd.Flags().StringVar(&modelID, "model", "", "Model ID to report (default BSB002)")
	serveCmd.Flags().StringVar(&swVersion, "sw-version", "", "Firmware version to report")
	serveCmd.Flags().StringVar(&apiVersion, "api-version", "", "API version to report")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&disableMDNS, "no-mdns", false, "Do not advertise over mDNS")
	serveCmd.Flags().BoolVar(&disableSSDP, "no-ssdp", false, "Do not answer SSDP searches")
}

func runServe(cmd *cobra.Command, args []string) error {
	if bridgeID != "" && !isHexID(bridgeID) {
		return fmt.Errorf("bridge ID must be hexadecimal, got %q", bridgeID)
	}

	config := &sim.Config{
		Host:        host,
		Port:        port,
		HTTPSPort:   httpsPort,
		BridgeID:    strings.ToUpper(bridgeID),
		Name:        bridgeName,
		ModelID:     modelID,
		SWVersion:   swVersion,
		APIVersion:  apiVersion,
		LogLevel:    logLevel,
		DisableMDNS: disableMDNS,
		DisableSSDP: disableSSDP,
	}

	simulator, err := sim.New(config)
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	return simulator.Start()
}

// isHexID reports whether s looks like a valid bridge identifier
func isHexID(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return len(s) > 0
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("huescout-sim %s (commit: %s)\n", version.Version, version.Commit)
	},
}
