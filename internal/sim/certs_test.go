package sim

import (
	"crypto/x509"
	"strings"
	"testing"
	"time"
)

func TestGenerateBridgeCert(t *testing.T) {
	cert, err := GenerateBridgeCert("ECB5FAFFFE23F6A7")
	if err != nil {
		t.Fatalf("GenerateBridgeCert() error = %v", err)
	}

	if cert.Certificate.Subject.CommonName != "ecb5fafffe23f6a7" {
		t.Errorf("CN = %q, want lowercase bridge ID", cert.Certificate.Subject.CommonName)
	}

	// Self-signed: issuer equals subject
	if cert.Certificate.Issuer.CommonName != cert.Certificate.Subject.CommonName {
		t.Errorf("issuer CN = %q, want self-signed", cert.Certificate.Issuer.CommonName)
	}

	if cert.Certificate.IsCA {
		t.Error("bridge certificate should not be a CA")
	}

	var hasServerAuth bool
	for _, usage := range cert.Certificate.ExtKeyUsage {
		if usage == x509.ExtKeyUsageServerAuth {
			hasServerAuth = true
		}
	}
	if !hasServerAuth {
		t.Error("certificate missing serverAuth extended key usage")
	}

	wantAfter := time.Now().AddDate(0, 0, certValidDays-1)
	if cert.Certificate.NotAfter.Before(wantAfter) {
		t.Errorf("NotAfter = %v, want roughly %d days out", cert.Certificate.NotAfter, certValidDays)
	}

	if !strings.Contains(string(cert.CertPEM), "BEGIN CERTIFICATE") {
		t.Error("CertPEM is not PEM encoded")
	}
	if !strings.Contains(string(cert.KeyPEM), "BEGIN RSA PRIVATE KEY") {
		t.Error("KeyPEM is not PEM encoded")
	}
}

func TestNewTLSConfig(t *testing.T) {
	cert, err := GenerateBridgeCert("ECB5FAFFFE23F6A7")
	if err != nil {
		t.Fatalf("GenerateBridgeCert() error = %v", err)
	}

	tlsConfig, err := NewTLSConfig(cert)
	if err != nil {
		t.Fatalf("NewTLSConfig() error = %v", err)
	}

	if len(tlsConfig.Certificates) != 1 {
		t.Errorf("Certificates count = %d, want 1", len(tlsConfig.Certificates))
	}
	if tlsConfig.MinVersion < 0x0303 { // TLS 1.2
		t.Errorf("MinVersion = %x, want at least TLS 1.2", tlsConfig.MinVersion)
	}
}
