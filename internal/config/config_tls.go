package config

import (
	"crypto/tls"
	"fmt"
)

// TLS modes. The editor binds loopback by default, so TLS stays disabled
// unless the server is deliberately exposed.
const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
)

// ValidateTLSConfig validates the TLS configuration.
func (c *Config) ValidateTLSConfig() error {
	if err := validateTLSMode(c.Server.TLS); err != nil {
		return err
	}
	return validateTLSVersion(c.Server.TLS)
}

// validateTLSMode validates the TLS mode and associated requirements.
func validateTLSMode(t TLSConfig) error {
	switch t.Mode {
	case TLSModeDisabled:
		return nil // No validation needed for disabled mode
	case TLSModeServer:
		if t.CertFile == "" || t.KeyFile == "" {
			return fmt.Errorf("TLS certificate and key files are required for server mode")
		}
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", t.Mode)
	}
}

// validateTLSVersion validates the TLS version configuration.
func validateTLSVersion(t TLSConfig) error {
	switch t.MinVersion {
	case "", "1.2", "1.3":
		return nil // Valid versions (empty defaults to 1.2)
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", t.MinVersion)
	}
}

// Enabled reports whether the server should terminate TLS.
func (t TLSConfig) Enabled() bool {
	return t.Mode != "" && t.Mode != TLSModeDisabled
}

// BuildTLSConfig constructs a *tls.Config from the configured certificate
// files. Returns nil when TLS is disabled.
func (t TLSConfig) BuildTLSConfig() (*tls.Config, error) {
	if !t.Enabled() {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}

	minVersion := uint16(tls.VersionTLS12)
	if t.MinVersion == "1.3" {
		minVersion = tls.VersionTLS13
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}, nil
}
