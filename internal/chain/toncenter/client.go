// Package toncenter provides a toncenter HTTP API v2 client for balance
// queries.
package toncenter

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrz1836/tonsigil/internal/chain"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

const (
	// httpTimeout is the default HTTP request timeout.
	httpTimeout = 15 * time.Second

	// maxResponseBody is the maximum response body size to read (1 MB).
	maxResponseBody = 1 << 20

	apiKeyHeader = "X-API-Key"
)

// ErrAPIError indicates toncenter answered with a non-retryable error.
var ErrAPIError = &sigilerr.SigilError{
	Code:     "TONCENTER_API_ERROR",
	Message:  "toncenter API returned an error",
	ExitCode: sigilerr.ExitGeneral,
}

// Logger receives request diagnostics.
type Logger interface {
	Debug(format string, args ...any)
}

// apiResponse is the toncenter v2 envelope.
type apiResponse struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	Code   int             `json:"code"`
}

// Client queries one toncenter endpoint.
type Client struct {
	network     chain.Network
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *chain.RateLimiter
	retry       chain.RetryConfig
	logger      Logger
}

// ClientOptions configures the client. Zero values select defaults.
type ClientOptions struct {
	// BaseURL overrides the network's default endpoint.
	BaseURL string
	// APIKey is sent in the X-API-Key header when set.
	APIKey string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	// RateLimiter overrides the limiter derived from the API key.
	RateLimiter *chain.RateLimiter
	// Retry overrides chain.DefaultRetryConfig.
	Retry *chain.RetryConfig
	// Logger receives retry and request diagnostics.
	Logger Logger
}

// NewClient creates a client for network.
func NewClient(network chain.Network, opts *ClientOptions) (*Client, error) {
	if !network.IsValid() {
		return nil, sigilerr.WithDetails(sigilerr.ErrUnknownNetwork, map[string]string{
			"network": network.String(),
		})
	}

	c := &Client{
		network: network,
		baseURL: network.DefaultAPI(),
		httpClient: &http.Client{
			Timeout: httpTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		retry: chain.DefaultRetryConfig(),
	}

	if opts != nil {
		if opts.BaseURL != "" {
			c.baseURL = opts.BaseURL
		}
		c.apiKey = opts.APIKey
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
		c.rateLimiter = opts.RateLimiter
		if opts.Retry != nil {
			c.retry = *opts.Retry
		}
		c.logger = opts.Logger
	}

	if _, err := url.ParseRequestURI(c.baseURL); err != nil {
		return nil, sigilerr.WithDetails(sigilerr.ErrConfigInvalid, map[string]string{
			"endpoint": c.baseURL,
		})
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")

	if c.rateLimiter == nil {
		perSecond := float64(chain.DefaultRatePerSecond)
		if c.apiKey != "" {
			perSecond = chain.DefaultKeyedRatePerSecond
		}
		c.rateLimiter = chain.NewRateLimiter(perSecond, chain.DefaultBurst)
	}

	return c, nil
}

// Network returns the network this client talks to.
func (c *Client) Network() chain.Network {
	return c.network
}

// BaseURL returns the endpoint in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) debug(format string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(format, args...)
	}
}

// doRequest performs one GET and returns the raw result field.
// Retryable failures are marked with the chain retry sentinels.
func (c *Client) doRequest(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	if err := c.rateLimiter.Wait(ctx, c.baseURL); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/v2/%s?%s", c.baseURL, method, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq) //nolint:gosec // G704: URL is built from validated config
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: %w", chain.ErrTimeout, err)
		}
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, chain.WrapRetryable(fmt.Errorf("reading response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		wait := chain.ParseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, chain.WithRetryAfter(sigilerr.WithDetails(chain.ErrRateLimited, map[string]string{
			"status":      fmt.Sprintf("%d", resp.StatusCode),
			"retry_after": wait.String(),
		}), wait)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, chain.WrapRetryable(sigilerr.WithDetails(ErrAPIError, map[string]string{
			"status": fmt.Sprintf("%d", resp.StatusCode),
		}))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, sigilerr.WithDetails(ErrAPIError, map[string]string{
			"status": fmt.Sprintf("%d", resp.StatusCode),
			"body":   truncateBody(string(body), 256),
		})
	}

	if resp.StatusCode != http.StatusOK || !apiResp.OK {
		return nil, sigilerr.WithDetails(ErrAPIError, map[string]string{
			"status":  fmt.Sprintf("%d", resp.StatusCode),
			"message": truncateBody(apiResp.Error, 256),
		})
	}

	return apiResp.Result, nil
}

// truncateBody truncates a string to maxLen characters.
func truncateBody(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
