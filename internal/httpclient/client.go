// Package httpclient builds the HTTP clients used for outbound calls to
// the stock-photo API and web page sources.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// RateLimitedTransport wraps a RoundTripper with a client-side rate limit so
// outbound API calls stay under the provider's quota.
type RateLimitedTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

// RoundTrip waits for the limiter before forwarding the request.
func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.base.RoundTrip(req)
}

// NewRateLimitedClient creates a client allowing one request per interval
// with the given burst.
func NewRateLimitedClient(timeout, interval time.Duration, burst int) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &RateLimitedTransport{
			limiter: rate.NewLimiter(rate.Every(interval), burst),
			base:    http.DefaultTransport,
		},
	}
}

// Get issues a GET request with headers applied.
func Get(ctx context.Context, client *http.Client, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return client.Do(req)
}
