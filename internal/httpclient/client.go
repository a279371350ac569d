package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// Fetcher wraps an HTTP client with a per-host rate limiter and a default
// user agent. The URL and sitemap readers share one fetcher so crawl rate
// stays bounded per target host.
type Fetcher struct {
	client    *http.Client
	userAgent string
	rps       float64
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
}

// NewFetcher creates a fetcher limited to requestsPerSecond per host.
// A non-positive rate disables limiting.
func NewFetcher(client *http.Client, userAgent string, requestsPerSecond float64) *Fetcher {
	if client == nil {
		client = NewDefaultHTTPClient(30 * time.Second)
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		rps:       requestsPerSecond,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (f *Fetcher) limiterFor(host string) *rate.Limiter {
	if f.rps <= 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	limiter, ok := f.limiters[host]
	if !ok {
		burst := int(f.rps)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(f.rps), burst)
		f.limiters[host] = limiter
	}
	return limiter
}

// Get fetches a URL and returns the response body. Non-2xx statuses are
// returned as errors carrying the status code.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	if limiter := f.limiterFor(parsed.Host); limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, rawURL)
	}

	return body, nil
}

// PostJSON posts a JSON payload and decodes nothing; it returns the raw
// response body. Non-2xx statuses are errors that include a body excerpt.
func PostJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := string(body)
		if len(excerpt) > 256 {
			excerpt = excerpt[:256]
		}
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, endpoint, excerpt)
	}

	return body, nil
}
