package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout is used when Options.Timeout is zero.
const DefaultTimeout = 90 * time.Second

// Options configures a Client.
type Options struct {
	// Auth is applied to every request. Nil means NoAuth.
	Auth Authenticator
	// Timeout bounds each request.
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing calls. Zero or less disables throttling.
	RequestsPerSecond float64
	// ContentType is sent with JSON request bodies. Defaults to application/json.
	ContentType string
	// UserAgent is sent with every request when set.
	UserAgent string
	// HTTPClient overrides the underlying client, mostly for tests.
	HTTPClient *http.Client
}

// Client provides HTTP client functionality with authentication and throttling.
type Client struct {
	http        *http.Client
	auth        Authenticator
	limiter     *rate.Limiter
	contentType string
	userAgent   string
}

// New creates a new transport client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	auth := opts.Auth
	if auth == nil {
		auth = &NoAuth{}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	return &Client{
		http:        httpClient,
		auth:        auth,
		limiter:     limiter,
		contentType: contentType,
		userAgent:   opts.UserAgent,
	}
}

// Do performs an HTTP request after waiting for the rate limiter and applying authentication.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	c.auth.Apply(req)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.http.Do(req.WithContext(ctx))
}

// JSON sends body (if any) encoded as JSON and decodes a 2xx response into target (if any).
func (c *Client) JSON(ctx context.Context, method, url string, body, target any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request %s %s: %w", method, url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", c.contentType)
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	return DecodeResponse(resp, target)
}

// Download fetches url and returns its body. Authentication is not applied.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request GET %s: %w", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Method: http.MethodGet, URL: url, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// DecodeResponse decodes a JSON response into target and closes the body.
// Non-2xx responses become *APIError. A nil target only checks the status.
func DecodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		if resp.Request != nil {
			apiErr.Method = resp.Request.Method
			apiErr.URL = resp.Request.URL.String()
		}
		return apiErr
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
