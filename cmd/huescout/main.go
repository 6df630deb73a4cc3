// Huescout is a discovery utility for Philips Hue bridges.
//
// It finds Hue-compatible bridges on the local network by trying several
// discovery methods in order of speed (mDNS/SSDP multicast, the meethue
// cloud lookup, previously seen addresses, and a subnet sweep), and can
// display the open configuration surface a bridge exposes before pairing.
//
// Usage:
//
//	huescout [command] [flags]
//
// Running without arguments launches the interactive finder.
// See 'huescout --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verhoek/huescout/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "huescout",
	Short: "Philips Hue bridge discovery utility",
	Long: `A standalone utility for finding Philips Hue bridges on your network.

Tries several discovery methods in order of speed and stops at the first
one that finds a bridge: multicast (mDNS + SSDP), the meethue cloud
lookup, addresses where bridges were seen before, and finally a sweep of
the local subnet.

If no command is specified, the interactive finder will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the interactive finder when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("huescout %s (commit: %s)\n", version.Version, version.Commit)
	},
}
