package probes

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"

	"github.com/verhoek/huescout/internal/discovery"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name       string
		entry      *zeroconf.ServiceEntry
		wantNil    bool
		wantID     string
		wantName   string
		wantIP     string
		wantPort   int
		wantSource string
	}{
		{
			name: "typical bridge announcement",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Philips Hue - 23F6A7"},
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.23")},
				Port:          443,
				Text:          []string{"bridgeid=ecb5fafffe23f6a7", "modelid=BSB002"},
			},
			wantID:     "ecb5fafffe23f6a7",
			wantName:   "Philips Hue - 23F6A7",
			wantIP:     "192.168.1.23",
			wantPort:   443,
			wantSource: SourceMDNS,
		},
		{
			name: "uppercase TXT key",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
				Port:     80,
				Text:     []string{"BridgeID=ECB5FAFFFE23F6A7"},
			},
			wantID:     "ECB5FAFFFE23F6A7",
			wantIP:     "10.0.0.5",
			wantPort:   80,
			wantSource: SourceMDNS,
		},
		{
			name: "no bridgeid record",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.6")},
				Port:     80,
				Text:     []string{"modelid=BSB002"},
			},
			wantID:     "",
			wantIP:     "10.0.0.6",
			wantPort:   80,
			wantSource: SourceMDNS,
		},
		{
			name: "IPv6 fallback",
			entry: &zeroconf.ServiceEntry{
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
				Port:     80,
			},
			wantIP:     "fe80::1",
			wantPort:   80,
			wantSource: SourceMDNS,
		},
		{
			name: "zero port gets default",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.23")},
			},
			wantIP:     "192.168.1.23",
			wantPort:   discovery.DefaultPort,
			wantSource: SourceMDNS,
		},
		{
			name:    "no address",
			entry:   &zeroconf.ServiceEntry{Port: 80},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := parseServiceEntry(tt.entry)
			if tt.wantNil {
				if bridge != nil {
					t.Fatalf("parseServiceEntry() = %+v, want nil", bridge)
				}
				return
			}
			if bridge == nil {
				t.Fatal("parseServiceEntry() = nil, want bridge")
			}
			if bridge.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", bridge.ID, tt.wantID)
			}
			if bridge.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", bridge.Name, tt.wantName)
			}
			if bridge.IP != tt.wantIP {
				t.Errorf("IP = %q, want %q", bridge.IP, tt.wantIP)
			}
			if bridge.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", bridge.Port, tt.wantPort)
			}
			if bridge.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", bridge.Source, tt.wantSource)
			}
			if bridge.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt not set")
			}
		})
	}
}

func TestLooksLikeHueResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{
			name: "hue bridge description",
			response: "HTTP/1.1 200 OK\r\n" +
				"SERVER: Hue/1.0 UPnP/1.0 IpBridge/1.67.0\r\n\r\n",
			want: true,
		},
		{
			name: "philips marker only",
			response: "HTTP/1.1 200 OK\r\n" +
				"LOCATION: http://192.168.1.23/philips/description.xml\r\n\r\n",
			want: true,
		},
		{
			name:     "lowercase markers",
			response: "server: ipbridge/1.24.0",
			want:     true,
		},
		{
			name: "unrelated device",
			response: "HTTP/1.1 200 OK\r\n" +
				"SERVER: Linux/4.9 UPnP/1.0 Sonos/57.3\r\n\r\n",
			want: false,
		},
		{
			name:     "empty payload",
			response: "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeHueResponse(tt.response); got != tt.want {
				t.Errorf("looksLikeHueResponse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMulticastProbe_Name(t *testing.T) {
	if got := NewMulticastProbe().Name(); got != "multicast" {
		t.Errorf("Name() = %q, want multicast", got)
	}
}
