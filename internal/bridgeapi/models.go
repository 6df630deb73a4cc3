package bridgeapi

import (
	"encoding/json"
	"fmt"
)

// Config represents the unauthenticated bridge configuration returned by
// GET /api/config. Every Hue-compatible bridge (genuine, diyHue, deCONZ)
// serves this endpoint without credentials; the authenticated config
// carries more fields but is out of reach before pairing.
type Config struct {
	// Name is the user-assigned bridge name (e.g., "Philips hue")
	Name string `json:"name"`

	// BridgeID is the unique bridge identifier, derived from the MAC
	// address (e.g., "ECB5FAFFFE123456")
	BridgeID string `json:"bridgeid"`

	// ModelID identifies the hardware generation (e.g., "BSB002")
	ModelID string `json:"modelid"`

	// SWVersion is the firmware version (e.g., "1967054020")
	SWVersion string `json:"swversion"`

	// APIVersion is the local API version (e.g., "1.61.0")
	APIVersion string `json:"apiversion"`

	// Mac is the bridge MAC address
	Mac string `json:"mac"`

	// FactoryNew reports whether the bridge has never been configured
	FactoryNew bool `json:"factorynew"`

	// ReplacesBridgeID is set when this bridge was restored from a
	// backup of another unit
	ReplacesBridgeID string `json:"replacesbridgeid"`

	// DatastoreVersion is the internal datastore schema version
	DatastoreVersion string `json:"datastoreversion"`
}

// ParseConfig parses a /api/config response body
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, NewParseError("failed to parse bridge config response", err)
	}
	return &config, nil
}

// Summary returns a one-line summary of the bridge configuration
func (c *Config) Summary() string {
	return fmt.Sprintf("%s (%s) model %s, firmware %s", c.Name, c.BridgeID, c.ModelID, c.SWVersion)
}

// IsBridge reports whether the parsed response actually identifies a
// bridge. Arbitrary HTTP servers on a scanned subnet may answer with
// valid JSON that simply lacks a bridgeid.
func (c *Config) IsBridge() bool {
	return c != nil && c.BridgeID != ""
}
