// Package config provides user configuration management for huescout.
//
// This package manages a YAML-based configuration file that remembers
// bridges from previous scans (nickname, last address, last seen) and
// application preferences. The configuration follows OS-specific
// conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/huescout/config.yaml or $HOME/.config/huescout/config.yaml
//   - macOS: $HOME/.config/huescout/config.yaml
//   - Windows: %LOCALAPPDATA%\huescout\config.yaml
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Remember a bridge confirmed by a scan
//	registry.RecordBridge("ECB5FAFFFE23F6A7", "192.168.1.23", 80)
//	registry.SetBridgeNickname("ECB5FAFFFE23F6A7", "Living Room")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
