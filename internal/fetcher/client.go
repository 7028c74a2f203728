package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBodySize = 10 << 20 // 10MB

const defaultIdleConnTimeout = 60 * time.Second

// StatusError reports a page request that completed with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d from %s", e.StatusCode, e.URL)
}

// Response holds the result of a page request made by [Client].
type Response struct {
	// Body contains the HTTP response body, limited to 10MB.
	// nil when Error is set.
	Body []byte

	// StatusCode is the HTTP status code (e.g., 200, 404, 500).
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the total time taken for the request.
	Latency time.Duration

	// Error contains any error that occurred during the request. Non-2xx
	// statuses are reported as a *StatusError.
	Error error
}

// Client is an HTTP client wrapper for fetching status pages.
//
// Client uses per-request timeouts via context rather than a global timeout.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new [Client]. If httpClient is nil, a client with a
// keep-alive transport and no global timeout is used.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				IdleConnTimeout: defaultIdleConnTimeout,
			},
		}
	}
	return &Client{httpClient: httpClient}
}

// Fetch performs a single GET request and returns a structured [Response].
//
// The timeout is applied via context cancellation. Headers are set verbatim.
// Fetch never retries; it always returns a Response, with failures captured
// in the Error field.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string, timeout time.Duration) Response {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      &StatusError{URL: url, StatusCode: resp.StatusCode},
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times and on a nil Client. After Close, the client
// remains usable.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}
