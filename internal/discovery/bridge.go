package discovery

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultPort is the default HTTP port for Hue-compatible bridges
const DefaultPort = 80

// Bridge represents a discovered Hue-compatible bridge on the network
type Bridge struct {
	// ID is the bridge identifier exactly as reported by the network.
	// Different probes may report the same bridge with different casing
	// or separators (e.g., "ecb5:fa:12:34" vs "ECB5FA1234").
	ID string

	// NormalizedID is ID uppercased with punctuation stripped.
	// It is the deduplication key: two records with equal NormalizedID
	// refer to the same physical bridge.
	NormalizedID string

	// Name is an optional human-readable bridge name
	Name string

	// IP is the address at which the bridge was reached
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Source is the name of the probe that produced this record
	Source string

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time
}

// idSeparators matches everything that is not a letter or digit
var idSeparators = regexp.MustCompile(`[^0-9A-Za-z]+`)

// NormalizeID canonicalizes a raw bridge identifier: uppercase, punctuation
// stripped. Records from different probes normalize to the same key.
func NormalizeID(id string) string {
	return strings.ToUpper(idSeparators.ReplaceAllString(id, ""))
}

// String returns a human-readable string representation of the bridge
func (b Bridge) String() string {
	name := b.Name
	if name == "" {
		name = "Hue Bridge"
	}
	return fmt.Sprintf("%s %s at %s:%d", name, b.NormalizedID, b.IP, b.Port)
}

// BaseURL returns the HTTP base URL for the bridge
func (b Bridge) BaseURL() string {
	port := b.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("http://%s:%d", b.IP, port)
}

// Dedupe normalizes and deduplicates a list of bridge records.
// Each record gets its NormalizedID assigned; records sharing a
// normalized ID are merged with first-seen wins. Records with an
// empty ID are kept as-is (they cannot be safely merged).
func Dedupe(records []Bridge) []Bridge {
	if len(records) == 0 {
		return []Bridge{}
	}

	seen := make(map[string]bool, len(records))
	out := make([]Bridge, 0, len(records))

	for _, rec := range records {
		rec.NormalizedID = NormalizeID(rec.ID)
		if rec.NormalizedID != "" {
			if seen[rec.NormalizedID] {
				continue
			}
			seen[rec.NormalizedID] = true
		}
		if rec.Port == 0 {
			rec.Port = DefaultPort
		}
		out = append(out, rec)
	}

	return out
}
