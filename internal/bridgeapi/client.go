package bridgeapi

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// IdentifyTimeout bounds one address check during discovery probing.
	// Subnet scans issue hundreds of these; they must fail fast.
	IdentifyTimeout = 1 * time.Second

	// maxConfigBody caps how much of a response is read when checking
	// whether an address is a bridge
	maxConfigBody = 4096
)

// Client represents an HTTP client for communicating with a bridge
type Client struct {
	// BaseURL is the base URL for the bridge (e.g., "http://192.168.1.10:80")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool
}

// NewClient creates a new bridge API client
// ip: Bridge IP address (e.g., "192.168.1.10")
// port: Bridge HTTP port (typically 80)
func NewClient(ip string, port int) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", ip, port))
}

// NewClientWithURL creates a new client with a full base URL
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:               baseURL,
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// GetConfig retrieves the unauthenticated bridge configuration from
// /api/config, retrying transient failures with exponential backoff.
func (c *Client) GetConfig(ctx context.Context) (*Config, error) {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(currentDelay):
			case <-ctx.Done():
				return nil, NewNetworkError("request cancelled", ctx.Err())
			}

			// Exponential backoff
			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		config, err := c.getConfigAttempt(ctx)
		if err == nil {
			return config, nil
		}

		lastErr = err

		// Don't retry non-retryable errors
		if !IsRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// getConfigAttempt performs a single attempt to retrieve the configuration
func (c *Client) getConfigAttempt(ctx context.Context) (*Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/config", nil)
	if err != nil {
		return nil, NewNetworkError("failed to create GET request", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("GET request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	return ParseConfig(body)
}

// insecureHTTPSClient accepts the self-signed certificates that bridges
// serve on 443. Identification only reads public config data, so
// certificate validation buys nothing here.
var insecureHTTPSClient = &http.Client{
	Timeout: IdentifyTimeout,
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	},
}

var identifyHTTPClient = &http.Client{Timeout: IdentifyTimeout}

// Identify checks whether the host at ip is a Hue-compatible bridge.
// It tries the plain HTTP config endpoint first, then the HTTPS variant
// older firmware requires. Returns the parsed config and true on a match.
//
// Unlike GetConfig this never retries and fails fast: it is the per-address
// building block of the heuristic and subnet discovery probes.
func Identify(ctx context.Context, ip string) (*Config, bool) {
	urls := []string{
		fmt.Sprintf("http://%s/api/config", ip),
		fmt.Sprintf("https://%s/api/0/config", ip),
	}

	for i, url := range urls {
		if ctx.Err() != nil {
			return nil, false
		}

		client := identifyHTTPClient
		if i == 1 {
			client = insecureHTTPSClient
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxConfigBody))
		_ = resp.Body.Close()
		if err != nil {
			continue
		}

		config, err := ParseConfig(body)
		if err != nil {
			continue
		}
		if config.IsBridge() {
			return config, true
		}
	}

	return nil, false
}
