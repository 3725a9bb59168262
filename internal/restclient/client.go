// Package restclient is the JSON over HTTPS client shared by the Nextcloud
// and WordPress clients. Retries of transient failures are handled by
// go-retryablehttp, request pacing by a token bucket.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Options configure a Client
type Options struct {
	BaseURL   string
	Username  string
	Password  string
	Timeout   time.Duration
	Retries   int
	RateLimit float64
	Headers   map[string]string
	Query     url.Values
	Logger    *slog.Logger
}

// Client performs authenticated JSON requests against one base URL
type Client struct {
	baseURL  string
	username string
	password string
	headers  map[string]string
	query    url.Values
	http     *retryablehttp.Client
	limiter  *rate.Limiter
}

// New creates a Client
func New(opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.Retries
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rc.Logger = logger

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		username: opts.Username,
		password: opts.Password,
		headers:  opts.Headers,
		query:    opts.Query,
		http:     rc,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// SetRetryWait changes the backoff bounds between retries
func (c *Client) SetRetryWait(minWait, maxWait time.Duration) {
	c.http.RetryWaitMin = minWait
	c.http.RetryWaitMax = maxWait
}

// URL builds the absolute url of an endpoint
func (c *Client) URL(endpoint string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")

	merged := url.Values{}
	for k, v := range c.query {
		merged[k] = v
	}
	for k, v := range query {
		merged[k] = v
	}
	if len(merged) > 0 {
		u += "?" + merged.Encode()
	}
	return u
}

// GetJSON decodes the response of a GET request into out
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, query, nil, out)
}

// PostJSON sends body as JSON and decodes the response into out if out is not nil
func (c *Client) PostJSON(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, nil, body, out)
}

// Do performs a request. Non-2xx responses yield a *StatusError, bodies that
// do not decode into out a *DecodeError.
func (c *Client) Do(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	u := c.URL(endpoint, query)
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	slog.Debug("API request", "method", method, "url", u)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response of %s %s: %w", method, u, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, URL: u, StatusCode: resp.StatusCode, Body: data}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{URL: u, StatusCode: resp.StatusCode, Body: data, Err: err}
	}
	return nil
}
