// Package http implements the transport session used by the resource
// graph: it prepares and sends one HTTP request per verb dispatch, with
// retries for transient failures, bearer-token authentication, optional
// interceptors, and an optional ETag response cache.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/hyperwalk-io/hyperwalk/internal/auth"
	"github.com/hyperwalk-io/hyperwalk/internal/constants"
	"github.com/hyperwalk-io/hyperwalk/pkg/hyper"
)

// Client implements hyper.Session on top of go-retryablehttp.
type Client struct {
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	logger       hyper.Logger
	debug        bool
	userAgent    string
	cache        hyper.Cache
	cacheTTL     time.Duration
	interceptors *hyper.InterceptorChain
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger hyper.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes retry behavior for transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithCache enables ETag conditional caching of GET responses.
func WithCache(cache hyper.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithCacheTTL sets how long cached responses stay fresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithInterceptors installs an interceptor chain run around every request.
func WithInterceptors(chain *hyper.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new transport session. tokenManager may be nil for
// unauthenticated APIs.
func NewClient(tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	// When retries are exhausted the last response still comes back to
	// the caller: mapping a lingering 5xx onto the error taxonomy is the
	// resource layer's job, not the transport's.
	retryClient.ErrorHandler = func(resp *http.Response, err error, numTries int) (*http.Response, error) {
		if resp != nil {
			return resp, nil
		}

		return nil, err
	}

	client := &Client{
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    "hyperwalk/1.0",
		cacheTTL:     constants.DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do implements hyper.Session. It sends one request and returns the raw
// status code and body; status mapping belongs to the caller.
func (c *Client) Do(ctx context.Context, req *hyper.Request) (*hyper.Response, error) {
	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	fullURL := req.URL
	if len(req.Query) > 0 {
		separator := "?"
		if containsQuery(fullURL) {
			separator = "&"
		}

		fullURL += separator + req.Query.Encode()
	}

	var cached *hyper.CacheEntry

	if c.cache != nil && req.Method == http.MethodGet {
		entry, err := c.cache.Get(ctx, fullURL)
		if err == nil {
			if !entry.Expired() {
				return &hyper.Response{
					StatusCode: constants.HTTPStatusOK,
					Body:       entry.Data,
				}, nil
			}

			if entry.ETag != "" {
				cached = entry
			}
		}
	}

	httpReq, err := c.buildRequest(ctx, req, fullURL, cached)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &hyper.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if cached != nil && httpResp.StatusCode == constants.HTTPStatusNotModified {
		resp.StatusCode = constants.HTTPStatusOK
		resp.Body = cached.Data

		cached.ExpiresAt = time.Now().Add(c.cacheTTL)
		_ = c.cache.Set(ctx, fullURL, cached)
	} else if c.cache != nil && req.Method == http.MethodGet && httpResp.StatusCode == constants.HTTPStatusOK {
		if etag := httpResp.Header.Get("ETag"); etag != "" {
			_ = c.cache.Set(ctx, fullURL, &hyper.CacheEntry{
				Data:      body,
				ETag:      etag,
				ExpiresAt: time.Now().Add(c.cacheTTL),
			})
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": resp.StatusCode,
		})
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
		if err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// buildRequest assembles the retryable request: JSON body, default
// headers, bearer token, and the conditional If-None-Match header when
// revalidating a cached response.
func (c *Client) buildRequest(ctx context.Context, req *hyper.Request, fullURL string, cached *hyper.CacheEntry) (*retryablehttp.Request, error) {
	var rawBody []byte

	if req.Body != nil {
		switch body := req.Body.(type) {
		case []byte:
			rawBody = body
		default:
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("marshaling request body: %w", err)
			}

			rawBody = encoded
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if rawBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if cached != nil {
		httpReq.Header.Set("If-None-Match", cached.ETag)
	}

	return httpReq, nil
}

// containsQuery reports whether the URL already carries a query string.
func containsQuery(url string) bool {
	for _, r := range url {
		if r == '?' {
			return true
		}
	}

	return false
}
