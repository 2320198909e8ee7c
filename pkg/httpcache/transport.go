package httpcache

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
)

// HTTPClient is the part of http.Client we need.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CachedHTTPClient wraps an HTTP client, serving repeated GETs from the cache.
type CachedHTTPClient struct {
	cache      *Cache
	httpClient HTTPClient
	logger     *slog.Logger
}

// NewCachedHTTPClient creates a caching wrapper around httpClient.
func NewCachedHTTPClient(cache *Cache, httpClient HTTPClient, logger *slog.Logger) *CachedHTTPClient {
	return &CachedHTTPClient{cache: cache, httpClient: httpClient, logger: logger}
}

// Do performs the request, consulting the cache for GETs. Only 200 responses
// are cached. Non-GET requests pass straight through.
func (c *CachedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.cache == nil || req.Method != http.MethodGet {
		return c.httpClient.Do(req.WithContext(ctx))
	}

	url := req.URL.String()
	if data, found := c.cache.Get(url); found {
		c.logger.Debug("cache hit", "url", url)
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(data)),
			Header:     make(http.Header),
			Request:    req,
		}
		resp.Header.Set("X-From-Cache", "true")
		return resp, nil
	}

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
		if err != nil {
			return nil, err
		}
		c.cache.Set(url, body)
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}
