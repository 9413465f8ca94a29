package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/utitree/pkg/cache"
	"github.com/matzehuels/utitree/pkg/observability"
)

const (
	httpTimeout   = 30 * time.Second
	retryAttempts = 3
	retryDelay    = time.Second
)

var (
	// ErrNotFound is returned for a 404 response.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// unexpected status codes).
	ErrNetwork = errors.New("network error")
)

// Client fetches documents over HTTP with retry and a byte cache in front.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithHeaders sets headers applied to every request.
func WithHeaders(h map[string]string) Option { return func(c *Client) { c.headers = h } }

// WithRetry overrides the retry attempts and initial backoff.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// WithKeyer overrides how URLs map to cache keys.
func WithKeyer(k cache.Keyer) Option { return func(c *Client) { c.keyer = k } }

// NewClient creates a Client caching responses in ch for ttl.
// A nil cache disables caching.
func NewClient(ch cache.Cache, ttl time.Duration, opts ...Option) *Client {
	if ch == nil {
		ch = cache.NewNullCache()
	}
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    ch,
		keyer:    cache.NewDefaultKeyer(),
		ttl:      ttl,
		attempts: retryAttempts,
		delay:    retryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the body at url. Unless refresh is set, a cached copy is
// returned when present; the second result reports a cache hit. Fresh
// bodies are stored back in the cache, and a failing cache write does not
// fail the fetch.
func (c *Client) Fetch(ctx context.Context, url string, refresh bool) ([]byte, bool, error) {
	key := c.keyer.PageKey(url)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "page")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "page")
	}

	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "page", len(body))
	}
	return body, false, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
