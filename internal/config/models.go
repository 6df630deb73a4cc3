package config

import (
	"sort"
	"time"
)

// Registry represents the entire user configuration file.
// This stores metadata for bridges seen in previous scans and application
// preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Bridges     map[string]*Bridge `yaml:"bridges,omitempty"` // Keyed by normalized bridge ID
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Bridge represents the remembered state of a single bridge.
// This is keyed by the bridge's normalized ID in the Registry.
type Bridge struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last known IP address
	LastPort int       `yaml:"last_port,omitempty"` // Last known HTTP port
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last time a scan confirmed this bridge
	ModelID  string    `yaml:"model_id,omitempty"`  // Hardware model (e.g., "BSB002")
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DiscoverTimeout int  `yaml:"discover_timeout"` // Overall scan timeout in seconds
	CloudLookup     bool `yaml:"cloud_lookup"`     // Allow the N-UPnP directory query
	SubnetScan      bool `yaml:"subnet_scan"`      // Allow the exhaustive subnet sweep
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Bridges: make(map[string]*Bridge),
		Preferences: &Preferences{
			DiscoverTimeout: 40,
			CloudLookup:     true,
			SubnetScan:      true,
		},
	}
}

// GetBridge retrieves bridge metadata by normalized ID.
// Returns nil if the bridge doesn't exist in the registry.
func (r *Registry) GetBridge(id string) *Bridge {
	return r.Bridges[id]
}

// EnsureBridge ensures a bridge entry exists in the registry.
// If the bridge doesn't exist, creates a new empty entry.
// Returns the bridge entry (existing or newly created).
func (r *Registry) EnsureBridge(id string) *Bridge {
	if r.Bridges == nil {
		r.Bridges = make(map[string]*Bridge)
	}

	if bridge, exists := r.Bridges[id]; exists {
		return bridge
	}

	bridge := &Bridge{}
	r.Bridges[id] = bridge
	return bridge
}

// RecordBridge updates the last seen timestamp and address for a bridge.
// Called after a scan confirms the bridge at the given address.
func (r *Registry) RecordBridge(id, ip string, port int) {
	bridge := r.EnsureBridge(id)
	bridge.LastSeen = time.Now()
	bridge.LastIP = ip
	bridge.LastPort = port
}

// SetBridgeNickname sets a user-friendly nickname for a bridge.
func (r *Registry) SetBridgeNickname(id, nickname string) {
	bridge := r.EnsureBridge(id)
	bridge.Nickname = nickname
}

// KnownAddresses returns the last known addresses of all remembered
// bridges, most recently seen first. These seed the address list probe.
func (r *Registry) KnownAddresses() []string {
	type seen struct {
		addr string
		at   time.Time
	}

	var entries []seen
	for _, bridge := range r.Bridges {
		if bridge.LastIP == "" {
			continue
		}
		entries = append(entries, seen{addr: bridge.LastIP, at: bridge.LastSeen})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].at.After(entries[j].at)
	})

	addrs := make([]string, 0, len(entries))
	for _, e := range entries {
		addrs = append(addrs, e.addr)
	}
	return addrs
}

// DisplayName returns the nickname if set, otherwise a fallback.
func (b *Bridge) DisplayName(fallback string) string {
	if b != nil && b.Nickname != "" {
		return b.Nickname
	}
	return fallback
}
