package probes

import "testing"

func TestExpandSubnet(t *testing.T) {
	hosts := expandSubnet("192.168.1")

	if len(hosts) != 254 {
		t.Fatalf("expandSubnet() returned %d hosts, want 254", len(hosts))
	}
	if hosts[0] != "192.168.1.1" {
		t.Errorf("first host = %q, want 192.168.1.1", hosts[0])
	}
	if hosts[253] != "192.168.1.254" {
		t.Errorf("last host = %q, want 192.168.1.254", hosts[253])
	}
}

func TestLocalSubnets(t *testing.T) {
	// Result depends on the machine; assert shape only
	for _, prefix := range localSubnets() {
		hosts := expandSubnet(prefix)
		if len(hosts) != 254 {
			t.Errorf("subnet %q expanded to %d hosts, want 254", prefix, len(hosts))
		}
	}
}

func TestSubnetProbe_Name(t *testing.T) {
	if got := NewSubnetProbe().Name(); got != "subnet-scan" {
		t.Errorf("Name() = %q, want subnet-scan", got)
	}
}

func TestSubnetProbe_Defaults(t *testing.T) {
	probe := NewSubnetProbe()
	if probe.Concurrency != DefaultSubnetConcurrency {
		t.Errorf("Concurrency = %d, want %d", probe.Concurrency, DefaultSubnetConcurrency)
	}
}
