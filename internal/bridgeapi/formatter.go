package bridgeapi

import (
	"fmt"
	"strings"
)

// FormatDetailed returns a multi-section format with all bridge information
func (c *Config) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Bridge Information ===\n")
	b.WriteString(fmt.Sprintf("Name:        %s\n", c.Name))
	b.WriteString(fmt.Sprintf("Bridge ID:   %s\n", c.BridgeID))
	b.WriteString(fmt.Sprintf("Model:       %s\n", c.ModelID))
	b.WriteString(fmt.Sprintf("MAC Address: %s\n", c.Mac))
	b.WriteString("\n")

	b.WriteString("=== Software ===\n")
	b.WriteString(fmt.Sprintf("Firmware:    %s\n", c.SWVersion))
	b.WriteString(fmt.Sprintf("API Version: %s\n", c.APIVersion))
	if c.DatastoreVersion != "" {
		b.WriteString(fmt.Sprintf("Datastore:   %s\n", c.DatastoreVersion))
	}

	if c.FactoryNew || c.ReplacesBridgeID != "" {
		b.WriteString("\n=== Provisioning ===\n")
		if c.FactoryNew {
			b.WriteString("Factory New: yes (never configured)\n")
		}
		if c.ReplacesBridgeID != "" {
			b.WriteString(fmt.Sprintf("Replaces:    %s (restored from backup)\n", c.ReplacesBridgeID))
		}
	}

	return b.String()
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (c *Config) FormatCompact() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Bridge:   %s (%s)\n", c.Name, c.BridgeID))
	b.WriteString(fmt.Sprintf("Model:    %s\n", c.ModelID))
	b.WriteString(fmt.Sprintf("Firmware: %s (API %s)\n", c.SWVersion, c.APIVersion))

	return b.String()
}
