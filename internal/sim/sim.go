package sim

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/verhoek/huescout/internal/logging"
)

// Config holds the simulator configuration
type Config struct {
	Host      string
	Port      int
	HTTPSPort int // 0 disables the HTTPS listener

	BridgeID   string
	Name       string
	ModelID    string
	SWVersion  string
	APIVersion string
	Mac        string

	LogLevel string

	DisableMDNS bool // Skip the _hue._tcp advertisement
	DisableSSDP bool // Skip the SSDP responder
}

// applyDefaults fills unset identity fields with a plausible bridge
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 80
	}
	if c.BridgeID == "" {
		c.BridgeID = "ECB5FAFFFE000001"
	}
	if c.Name == "" {
		c.Name = "Simulated Bridge"
	}
	if c.ModelID == "" {
		c.ModelID = "BSB002"
	}
	if c.SWVersion == "" {
		c.SWVersion = "1967054020"
	}
	if c.APIVersion == "" {
		c.APIVersion = "1.67.0"
	}
	if c.Mac == "" {
		c.Mac = "ec:b5:fa:00:00:01"
	}
}

// Simulator represents a running bridge simulator
type Simulator struct {
	config *Config
	hub    *eventHub

	httpServer  *http.Server
	httpsServer *http.Server
	mdns        *zeroconf.Server
	ssdp        *ssdpResponder

	wg sync.WaitGroup
}

// New creates a new Simulator instance
func New(config *Config) (*Simulator, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	config.applyDefaults()

	sim := &Simulator{
		config: config,
		hub:    newEventHub(),
	}
	return sim, nil
}

// Start starts the simulator and blocks until shutdown
func (s *Simulator) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	mux := s.newMux()

	logging.Info("Starting bridge simulator",
		zap.String("addr", addr),
		zap.String("bridge_id", s.config.BridgeID),
		zap.String("name", s.config.Name),
	)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{Handler: mux}

	errChan := make(chan error, 2)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	if s.config.HTTPSPort > 0 {
		if err := s.startHTTPS(mux, errChan); err != nil {
			return err
		}
	}

	if !s.config.DisableMDNS {
		if err := s.startMDNS(); err != nil {
			// Advertisement failure is not fatal; direct address checks
			// still work
			logging.Warn("mDNS advertisement unavailable", zap.Error(err))
		}
	}

	if !s.config.DisableSSDP {
		responder, err := newSSDPResponder(s.config, s.hub)
		if err != nil {
			logging.Warn("SSDP responder unavailable", zap.Error(err))
		} else {
			s.ssdp = responder
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				responder.run()
			}()
		}
	}

	logging.Info("Simulator answering discovery probes",
		zap.String("addr", addr),
		zap.Bool("mdns", s.mdns != nil),
		zap.Bool("ssdp", s.ssdp != nil),
		zap.Bool("https", s.httpsServer != nil),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping simulator...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// startHTTPS brings up the TLS listener with a freshly generated
// self-signed certificate, the way real bridges terminate TLS.
func (s *Simulator) startHTTPS(mux http.Handler, errChan chan<- error) error {
	cert, err := GenerateBridgeCert(s.config.BridgeID)
	if err != nil {
		return fmt.Errorf("failed to generate bridge certificate: %w", err)
	}

	tlsConfig, err := NewTLSConfig(cert)
	if err != nil {
		return fmt.Errorf("failed to build TLS config: %w", err)
	}

	httpsAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.HTTPSPort)
	tlsListener, err := net.Listen("tcp", httpsAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", httpsAddr, err)
	}

	logging.Info("HTTPS listener up",
		zap.String("addr", httpsAddr),
		zap.String("cert_cn", cert.Certificate.Subject.CommonName),
		zap.Time("not_after", cert.Certificate.NotAfter),
	)

	s.httpsServer = &http.Server{Handler: mux, TLSConfig: tlsConfig}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		tlsLn := tls.NewListener(tlsListener, tlsConfig)
		if err := s.httpsServer.Serve(tlsLn); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	return nil
}

// startMDNS advertises the bridge as a _hue._tcp service
func (s *Simulator) startMDNS() error {
	txt := []string{
		"bridgeid=" + s.config.BridgeID,
		"modelid=" + s.config.ModelID,
	}
	server, err := zeroconf.Register(
		s.config.Name,
		"_hue._tcp",
		"local.",
		s.config.Port,
		txt,
		nil,
	)
	if err != nil {
		return err
	}
	s.mdns = server
	logging.Info("mDNS advertisement registered",
		zap.String("instance", s.config.Name),
		zap.Int("port", s.config.Port),
	)
	return nil
}

// Shutdown gracefully shuts down the simulator
func (s *Simulator) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down simulator...")

	if s.mdns != nil {
		s.mdns.Shutdown()
	}
	if s.ssdp != nil {
		s.ssdp.stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Shutdown(ctx)
	}
	if s.httpsServer != nil {
		_ = s.httpsServer.Shutdown(ctx)
	}
	s.hub.close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("Simulator stopped")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return nil
}
