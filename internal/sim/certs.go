package sim

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// certValidDays matches the long-lived self-signed certificates real
// bridges ship with
const certValidDays = 3650

// BridgeCert represents a generated self-signed bridge certificate
type BridgeCert struct {
	// CertPEM is the certificate in PEM format
	CertPEM []byte
	// KeyPEM is the private key in PEM format
	KeyPEM []byte
	// Certificate is the parsed x509 certificate
	Certificate *x509.Certificate
	// PrivateKey is the RSA private key
	PrivateKey *rsa.PrivateKey
}

// GenerateBridgeCert generates a self-signed certificate with the bridge
// ID as common name, mirroring the certificates real bridges present.
// Discovery clients talk to bridges with verification disabled, so a
// self-signed certificate is exactly what they expect.
func GenerateBridgeCert(bridgeID string) (*BridgeCert, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial: %w", err)
	}

	// Real bridges use the lowercase bridge ID as CN
	commonName := strings.ToLower(bridgeID)

	notBefore := time.Now()
	notAfter := notBefore.AddDate(0, 0, certValidDays)

	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Country:      []string{"NL"},
			Organization: []string{"Philips Hue"},
			CommonName:   commonName,
		},
		NotBefore: notBefore,
		NotAfter:  notAfter,

		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},

		DNSNames: []string{commonName, "localhost"},

		BasicConstraintsValid: true,
		IsCA:                  false,
	}

	// Self-signed: template is its own issuer
	certDER, err := x509.CreateCertificate(
		rand.Reader,
		&template,
		&template,
		&privateKey.PublicKey,
		privateKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: certDER,
	})

	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	return &BridgeCert{
		CertPEM:     certPEM,
		KeyPEM:      keyPEM,
		Certificate: cert,
		PrivateKey:  privateKey,
	}, nil
}

// NewTLSConfig builds a TLS configuration serving the bridge certificate
func NewTLSConfig(cert *BridgeCert) (*tls.Config, error) {
	pair, err := tls.X509KeyPair(cert.CertPEM, cert.KeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to load key pair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
