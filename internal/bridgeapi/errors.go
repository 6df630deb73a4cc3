package bridgeapi

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (host unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the bridge refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates an HTTP-level error (non-200 status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a parsing error (malformed JSON, invalid response)
	ErrTypeParse
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// BridgeError represents an error that occurred while talking to a bridge
type BridgeError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	BridgeIP       string              // Bridge IP address (for context)
	Retryable      bool                // Whether the error is retryable
}

// Error implements the error interface
func (e *BridgeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *BridgeError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes an error and returns a more specific error type
func ClassifyNetworkError(err error, bridgeIP string) *BridgeError {
	if err == nil {
		return nil
	}

	// Check for timeout errors
	if os.IsTimeout(err) {
		return &BridgeError{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			BridgeIP:       bridgeIP,
			Retryable:      true,
		}
	}

	// Check for DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &BridgeError{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			BridgeIP:       bridgeIP,
			Retryable:      false,
		}
	}

	// Check for connection refused / unreachable
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &BridgeError{
				Type:           ErrTypeConnectionRefused,
				Message:        "Bridge refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				BridgeIP:       bridgeIP,
				Retryable:      true,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &BridgeError{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				BridgeIP:       bridgeIP,
				Retryable:      true,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &BridgeError{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				BridgeIP:       bridgeIP,
				Retryable:      true,
			}
		}
	}

	// Check for URL errors
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Recursively classify the underlying error
		return ClassifyNetworkError(urlErr.Err, bridgeIP)
	}

	// Generic network error
	return &BridgeError{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		BridgeIP:       bridgeIP,
		Retryable:      true,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *BridgeError {
	classified := ClassifyNetworkError(err, "")
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &BridgeError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *BridgeError {
	retryable := statusCode >= 500 // Server errors are retryable
	return &BridgeError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *BridgeError {
	return &BridgeError{
		Type:      ErrTypeParse,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// IsNetworkError checks if an error is a network error (including timeout,
// connection refused, DNS, etc.)
func IsNetworkError(err error) bool {
	if bridgeErr, ok := err.(*BridgeError); ok {
		return bridgeErr.Type == ErrTypeNetwork ||
			bridgeErr.Type == ErrTypeTimeout ||
			bridgeErr.Type == ErrTypeConnectionRefused ||
			bridgeErr.Type == ErrTypeDNS
	}
	return false
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	if bridgeErr, ok := err.(*BridgeError); ok {
		return bridgeErr.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	bridgeErr, ok := err.(*BridgeError)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch bridgeErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The bridge did not respond in time.",
			"Troubleshooting:",
			"  • Check that the bridge is powered on",
			"  • Verify your computer is on the same network as the bridge",
			"  • Try increasing the timeout duration",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The bridge refused the connection.",
			"Troubleshooting:",
			"  • The address may belong to another device, not a bridge",
			"  • Verify the port number (bridges serve HTTP on port 80)",
			"  • Try rescanning to get a fresh address",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the bridge hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of hostname",
			"  • Check your network DNS settings",
			"  • Verify you're on the same network as the bridge",
		}, "\n")

	case ErrTypeNetwork:
		hint := []string{"Network communication failed."}

		switch bridgeErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			hint = append(hint, "The bridge is not reachable on the network.",
				"Troubleshooting:",
				"  • Verify the bridge IP address is correct",
				"  • Check that you're on the same network as the bridge",
				"  • Bridges get new addresses after a router restart - try rescanning",
				"  • Try pinging the bridge: ping "+bridgeErr.BridgeIP)

		case NetworkErrorNetworkUnreachable:
			hint = append(hint, "Your computer cannot reach the bridge's network.",
				"Troubleshooting:",
				"  • Check your network adapter settings",
				"  • Verify WiFi or Ethernet is connected",
				"  • VPN software can hide the local network - try disconnecting")

		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the bridge is powered on (all three lights lit)",
				"  • Ensure you're connected to the correct network")
		}

		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		if bridgeErr.StatusCode >= 500 {
			return strings.Join([]string{
				fmt.Sprintf("The bridge returned an error (HTTP %d).", bridgeErr.StatusCode),
				"Troubleshooting:",
				"  • Try power-cycling the bridge",
				"  • Check if a firmware update is available in the Hue app",
			}, "\n")
		}
		return fmt.Sprintf("The bridge returned HTTP error %d. Check the request parameters.", bridgeErr.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"Failed to parse the bridge's response.",
			"The address may belong to a different device that happens to",
			"serve HTTP. Try rescanning, or verify the address in a browser:",
			"http://<bridge-ip>/api/config should return JSON with a bridgeid.",
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	bridgeErr, ok := err.(*BridgeError)
	if !ok {
		return err.Error()
	}

	switch bridgeErr.Type {
	case ErrTypeTimeout:
		return "Bridge not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Connection refused - is this really a bridge?"
	case ErrTypeDNS:
		return "Cannot resolve bridge hostname"
	case ErrTypeNetwork:
		switch bridgeErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Bridge unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check your connection"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Bridge error (HTTP %d)", bridgeErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse bridge response"
	default:
		return bridgeErr.Message
	}
}
