package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verhoek/huescout/internal/bridgeapi"
	"github.com/verhoek/huescout/internal/config"
	"github.com/verhoek/huescout/internal/discovery"
	"github.com/verhoek/huescout/internal/logging"
	"github.com/verhoek/huescout/internal/probes"
	"github.com/verhoek/huescout/internal/urls"
	"github.com/verhoek/huescout/internal/wizard/tui"
)

// Command flags
var (
	bridgeAddr   string
	bridgePort   int
	scanTimeout  int
	outputFormat string
	logLevel     string
	noCloud      bool
	noSubnetScan bool
)

func init() {
	// Common flags for bridge commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&bridgeAddr, "bridge", "", "Bridge IP address (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&bridgePort, "port", discovery.DefaultPort, "Bridge HTTP port")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; empty = quiet)")

	// Add subcommands directly to root
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(nicknameCmd)
}

// loadRegistry loads the persistent bridge registry, falling back to an
// in-memory one when the config file is unreadable
func loadRegistry() *config.Registry {
	registry, err := config.GetGlobalRegistry()
	if err != nil {
		fmt.Printf("Warning: could not load registry (%v), continuing without it\n", err)
		return config.NewRegistry()
	}
	return registry
}

// buildCoordinator assembles the discovery waterfall from the registry's
// preferences and the command-line overrides
func buildCoordinator(registry *config.Registry) *discovery.Coordinator {
	all := probes.DefaultProbes(registry.KnownAddresses)

	prefs := registry.Preferences
	cloudEnabled := prefs == nil || prefs.CloudLookup
	subnetEnabled := prefs == nil || prefs.SubnetScan
	if noCloud {
		cloudEnabled = false
	}
	if noSubnetScan {
		subnetEnabled = false
	}

	var selected []discovery.Probe
	for _, p := range all {
		switch p.Name() {
		case "cloud":
			if !cloudEnabled {
				continue
			}
		case "subnet-scan":
			if !subnetEnabled {
				continue
			}
		}
		selected = append(selected, p)
	}

	return discovery.NewCoordinator(selected...)
}

// discoverTimeout resolves the scan timeout from the flag or registry
func discoverTimeout(registry *config.Registry) time.Duration {
	if scanTimeout > 0 {
		return time.Duration(scanTimeout) * time.Second
	}
	if registry.Preferences != nil && registry.Preferences.DiscoverTimeout > 0 {
		return time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	}
	return discovery.DefaultDiscoverTimeout
}

// initLogging configures the global logger from the --log-level flag.
// Without the flag the logger stays quiet unless HUESCOUT_LOG_LEVEL is set.
func initLogging() error {
	if logLevel == "" {
		return logging.InitializeFromEnv()
	}
	return logging.Initialize(logLevel)
}

// scanCmd discovers bridges on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Hue bridges on the network",
	Long: `Scan for Hue bridges using the discovery waterfall.

Discovery methods run one at a time in order of speed: multicast
(mDNS + SSDP), the meethue cloud lookup, addresses where bridges were
seen before, and a sweep of the local subnet. The scan stops at the
first method that finds a bridge.`,
	Example: `  # Scan with the default 40 second budget
  huescout scan

  # Quick scan with a 10 second budget
  huescout scan --timeout 10

  # Scan without contacting the meethue cloud service
  huescout scan --no-cloud`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Overall scan timeout in seconds (0 = registry default)")
	scanCmd.Flags().BoolVar(&noCloud, "no-cloud", false, "Skip the meethue cloud lookup")
	scanCmd.Flags().BoolVar(&noSubnetScan, "no-subnet-scan", false, "Skip the subnet sweep")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}
	defer logging.Sync()

	registry := loadRegistry()
	coordinator := buildCoordinator(registry)
	timeout := discoverTimeout(registry)

	fmt.Printf("Scanning for Hue bridges (timeout: %ds)...\n\n", int(timeout.Seconds()))

	bridges, reason := coordinator.DiscoverWithReason(context.Background(), timeout)

	if len(bridges) == 0 {
		fmt.Printf("No bridges found (%s).\n", reason)
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the bridge is powered on and its LEDs are lit")
		fmt.Println("  - Check that this computer is on the same network as the bridge")
		fmt.Println("  - Use --bridge flag to specify the IP manually if discovery fails")
		fmt.Println("  - More help: " + urls.TroubleshootingGuide)
		return nil
	}

	fmt.Printf("Found %d bridge(s):\n\n", len(bridges))

	for i, bridge := range bridges {
		name := bridge.Name
		if name == "" {
			name = "Hue Bridge"
		}
		if entry := registry.GetBridge(bridge.NormalizedID); entry != nil && entry.Nickname != "" {
			name = fmt.Sprintf("%s (%s)", entry.Nickname, name)
		}
		fmt.Printf("%d. %s\n", i+1, name)
		fmt.Printf("   Bridge ID: %s\n", bridge.NormalizedID)
		fmt.Printf("   Address:   %s:%d\n", bridge.IP, bridge.Port)
		fmt.Printf("   Found via: %s\n", bridge.Source)
		fmt.Println()

		// Remember the address for the address-list probe on later scans
		registry.RecordBridge(bridge.NormalizedID, bridge.IP, bridge.Port)
	}

	if err := config.SaveGlobal(); err != nil {
		fmt.Printf("Warning: could not save registry: %v\n", err)
	}

	fmt.Println("Use 'huescout show --bridge <ip>' to view bridge configuration")
	fmt.Println("Use 'huescout' for the interactive finder")

	return nil
}

// showCmd displays the open configuration of a bridge
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show bridge configuration",
	Long: `Display the configuration a Hue bridge exposes without pairing.

This command fetches GET /api/config, which every Hue-compatible bridge
answers without credentials. It reports the bridge name, ID, model,
firmware and API versions, and provisioning state.`,
	Example: `  # Show config with auto-discovery
  huescout show

  # Show config for a specific bridge
  huescout show --bridge 192.168.1.2

  # Compact output format
  huescout show --bridge 192.168.1.2 --format compact

  # JSON output for scripting
  huescout show --bridge 192.168.1.2 --format json`,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}
	defer logging.Sync()

	ip, port, err := getBridgeAddress()
	if err != nil {
		return err
	}

	client := bridgeapi.NewClient(ip, port)

	fmt.Printf("Fetching configuration from %s:%d...\n\n", ip, port)

	ctx, cancel := context.WithTimeout(context.Background(), bridgeapi.DefaultTimeout)
	defer cancel()

	bridgeConfig, err := client.GetConfig(ctx)
	if err != nil {
		if hint := bridgeapi.GetTroubleshootingHint(err); hint != "" {
			fmt.Println(hint)
			fmt.Println()
		}
		return fmt.Errorf("failed to get configuration: %w", err)
	}

	switch outputFormat {
	case "compact":
		fmt.Println(bridgeConfig.FormatCompact())
	case "json":
		data, err := json.MarshalIndent(bridgeConfig, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "detailed":
		fallthrough
	default:
		fmt.Println(bridgeConfig.FormatDetailed())
	}

	// Keep the registry's last-seen address current
	registry := loadRegistry()
	registry.RecordBridge(bridgeConfig.BridgeID, ip, port)
	if err := config.SaveGlobal(); err != nil {
		fmt.Printf("Warning: could not save registry: %v\n", err)
	}

	return nil
}

// wizardCmd launches the interactive TUI finder
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive bridge finder",
	Long: `Launch an interactive TUI for finding and inspecting Hue bridges.

The finder provides a user-friendly interface for:
- Discovering bridges on the network
- Viewing a bridge's open configuration
- Attaching local nicknames to bridges

This is the recommended way to explore your network for most users.`,
	Example: `  # Launch the finder
  huescout wizard
  # Or simply (wizard is default):
  huescout`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the interactive finder needs a terminal; use 'huescout scan' in scripts")
	}

	if err := initLogging(); err != nil {
		return err
	}
	defer logging.Sync()

	registry := loadRegistry()
	coordinator := buildCoordinator(registry)

	model := tui.NewAppModel(coordinator, registry)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("finder error: %w", err)
	}

	return nil
}

// nicknameCmd attaches a local nickname to a known bridge
var nicknameCmd = &cobra.Command{
	Use:   "nickname <bridge-id> <name>",
	Short: "Set a local nickname for a bridge",
	Long: `Attach a local nickname to a bridge in the registry.

The nickname is stored on this machine only and shown alongside the
bridge's own name in scan results. Use an empty string to clear it.`,
	Example: `  # Nickname a bridge by its ID
  huescout nickname ECB5FAFFFE123456 "Living room"

  # Clear a nickname
  huescout nickname ECB5FAFFFE123456 ""`,
	Args: cobra.ExactArgs(2),
	RunE: runNickname,
}

func runNickname(cmd *cobra.Command, args []string) error {
	registry := loadRegistry()

	id := discovery.NormalizeID(args[0])
	if id == "" {
		return fmt.Errorf("invalid bridge ID %q", args[0])
	}

	registry.SetBridgeNickname(id, args[1])
	if err := config.SaveGlobal(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	if args[1] == "" {
		fmt.Printf("Cleared nickname for %s\n", id)
	} else {
		fmt.Printf("Bridge %s is now %q\n", id, args[1])
	}
	return nil
}

// getBridgeAddress resolves the target bridge via the --bridge flag or a
// quick discovery run
func getBridgeAddress() (string, int, error) {
	if bridgeAddr != "" {
		return bridgeAddr, bridgePort, nil
	}

	// Try discovery
	fmt.Println("No bridge IP specified, attempting auto-discovery...")
	registry := loadRegistry()
	coordinator := buildCoordinator(registry)

	bridges, reason := coordinator.DiscoverWithReason(context.Background(), discoverTimeout(registry))

	if len(bridges) == 0 {
		return "", 0, fmt.Errorf("no bridges found (%s). Use --bridge flag to specify IP manually", reason)
	}

	if len(bridges) > 1 {
		fmt.Printf("Found %d bridges:\n", len(bridges))
		for i, bridge := range bridges {
			fmt.Printf("%d. %s (%s)\n", i+1, bridge.NormalizedID, bridge.IP)
		}
		return "", 0, fmt.Errorf("multiple bridges found. Use --bridge flag to specify which one")
	}

	// Exactly one bridge found
	bridge := bridges[0]
	fmt.Printf("Found bridge: %s (%s)\n\n", bridge.NormalizedID, bridge.IP)
	return bridge.IP, bridge.Port, nil
}
