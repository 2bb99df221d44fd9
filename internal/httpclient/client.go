// Package httpclient provides the HTTP client used to talk to remote catalog servers.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests.
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize is the maximum allowed response size (32MB). Catalog
	// info payloads are small; anything bigger is a misbehaving server.
	MaxResponseSize = 32 * 1024 * 1024

	// UserAgent is the user agent string for HTTP requests.
	UserAgent = "lakecat/1.0"
)

// Client is an interface for HTTP operations.
type Client interface {
	// Get performs an HTTP GET request and returns the response body.
	Get(ctx context.Context, url string) ([]byte, error)
}

// DefaultClient is the default HTTP client implementation.
type DefaultClient struct {
	client *http.Client
}

// NewDefaultClient creates a new default HTTP client with the specified timeout.
// If timeout is 0, uses DefaultTimeout.
func NewDefaultClient(timeout time.Duration) Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &DefaultClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs an HTTP GET request.
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/cbor")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, url, resp.Status)
	}

	if resp.ContentLength > MaxResponseSize {
		return nil, fmt.Errorf("response size %d bytes exceeds maximum allowed size of %d bytes",
			resp.ContentLength, MaxResponseSize)
	}

	// Read with a hard cap; +1 so an over-limit body is detectable.
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response size exceeds maximum allowed size of %d bytes", MaxResponseSize)
	}

	return body, nil
}
