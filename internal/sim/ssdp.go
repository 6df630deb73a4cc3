package sim

import (
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verhoek/huescout/internal/logging"
)

const ssdpGroup = "239.255.255.250:1900"

// ssdpResponder answers M-SEARCH queries on the SSDP multicast group with
// the IpBridge response real bridges send.
type ssdpResponder struct {
	conn     *net.UDPConn
	config   *Config
	hub      *eventHub
	stopChan chan struct{}
}

func newSSDPResponder(config *Config, hub *eventHub) (*ssdpResponder, error) {
	groupAddr, err := net.ResolveUDPAddr("udp4", ssdpGroup)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, groupAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to join SSDP multicast group: %w", err)
	}

	return &ssdpResponder{
		conn:     conn,
		config:   config,
		hub:      hub,
		stopChan: make(chan struct{}),
	}, nil
}

// run reads search requests until stopped
func (r *ssdpResponder) run() {
	logging.Info("SSDP responder listening", zap.String("group", ssdpGroup))

	buf := make([]byte, 2048)
	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		_ = r.conn.SetReadDeadline(time.Now().Add(1 * time.Second))
		n, addr, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			select {
			case <-r.stopChan:
				return
			default:
			}
			logging.Debug("SSDP read error", zap.Error(err))
			continue
		}

		if !isSearchRequest(string(buf[:n])) {
			continue
		}

		logging.Debug("SSDP M-SEARCH received", zap.String("from", addr.String()))
		r.hub.publish(Event{Type: EventSSDPSearch, RemoteAddr: addr.String()})

		response := buildSearchResponse(r.config, localAddrFor(addr))
		if _, err := r.conn.WriteToUDP([]byte(response), addr); err != nil {
			logging.Debug("SSDP response send failed", zap.Error(err))
		}
	}
}

func (r *ssdpResponder) stop() {
	close(r.stopChan)
	_ = r.conn.Close()
}

// isSearchRequest reports whether a datagram is an SSDP discovery search
func isSearchRequest(payload string) bool {
	if !strings.HasPrefix(payload, "M-SEARCH") {
		return false
	}
	return strings.Contains(strings.ToLower(payload), "ssdp:discover")
}

// buildSearchResponse renders the unicast answer a bridge sends to a
// search. The SERVER token and hue-bridgeid header are what discovery
// clients match on.
func buildSearchResponse(config *Config, localIP string) string {
	location := fmt.Sprintf("http://%s:%d/description.xml", localIP, config.Port)
	return "HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=100\r\n" +
		"EXT:\r\n" +
		"LOCATION: " + location + "\r\n" +
		"SERVER: Hue/1.0 UPnP/1.0 IpBridge/" + config.APIVersion + "\r\n" +
		"hue-bridgeid: " + config.BridgeID + "\r\n" +
		"ST: upnp:rootdevice\r\n" +
		"USN: uuid:2f402f80-da50-11e1-9b23-" + strings.ToLower(config.BridgeID) + "::upnp:rootdevice\r\n" +
		"\r\n"
}

// localAddrFor picks the local IPv4 address that routes to the peer, so
// the LOCATION URL is reachable from the searcher's network.
func localAddrFor(peer *net.UDPAddr) string {
	conn, err := net.Dial("udp4", peer.String())
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	if local, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return local.IP.String()
	}
	return "127.0.0.1"
}
