package sim

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/verhoek/huescout/internal/bridgeapi"
	"github.com/verhoek/huescout/internal/logging"
)

// newMux builds the HTTP surface the discovery probes talk to
func (s *Simulator) newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/0/config", s.handleConfig)
	mux.HandleFunc("/description.xml", s.handleDescription)
	mux.HandleFunc("/events", s.handleEvents)
	return mux
}

// bridgeConfig assembles the config document served to probes
func (s *Simulator) bridgeConfig() *bridgeapi.Config {
	return &bridgeapi.Config{
		Name:             s.config.Name,
		BridgeID:         s.config.BridgeID,
		ModelID:          s.config.ModelID,
		SWVersion:        s.config.SWVersion,
		APIVersion:       s.config.APIVersion,
		Mac:              s.config.Mac,
		DatastoreVersion: "167",
	}
}

// handleConfig serves the unauthenticated config document. This is the
// endpoint every probe uses to confirm a candidate address is a bridge.
func (s *Simulator) handleConfig(w http.ResponseWriter, r *http.Request) {
	logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path)
	s.hub.publish(Event{Type: EventConfigFetched, RemoteAddr: r.RemoteAddr, Path: r.URL.Path})

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.bridgeConfig()); err != nil {
		logging.Error("Failed to encode config response",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
	}
}

// handleDescription serves the UPnP device description referenced by the
// LOCATION header of SSDP responses.
func (s *Simulator) handleDescription(w http.ResponseWriter, r *http.Request) {
	logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path)
	s.hub.publish(Event{Type: EventDescriptionFetched, RemoteAddr: r.RemoteAddr, Path: r.URL.Path})

	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
    <friendlyName>%s (%s)</friendlyName>
    <manufacturer>Signify</manufacturer>
    <modelName>Philips hue bridge 2015</modelName>
    <modelNumber>%s</modelNumber>
    <serialNumber>%s</serialNumber>
  </device>
</root>
`, s.config.Name, s.config.BridgeID, s.config.ModelID, s.config.BridgeID)
}
