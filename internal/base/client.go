// Package base provides shared HTTP client infrastructure for the Confluence REST API.
package base

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/olgasafonova/confluence-upload/metrics"
	"github.com/olgasafonova/confluence-upload/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultTimeout for API requests
	DefaultTimeout = 30 * time.Second

	// MaxConcurrentRequests keeps network calls strictly sequential,
	// even when several MCP tool calls run at once.
	MaxConcurrentRequests = 1

	// MaxResponseSize caps how much of a response body is read
	MaxResponseSize = 10 << 20

	// DefaultUserAgent identifies the uploader to the content service
	DefaultUserAgent = "confluence-upload/1.0"
)

// Client provides common HTTP client infrastructure: basic auth, JSON
// encoding, request serialization, metrics and tracing. It never retries.
type Client struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	Semaphore  chan struct{}
	UserAgent  string

	username string
	password string
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.HTTPClient = c
	}
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(client *Client) {
		client.Logger = l
	}
}

// WithBasicAuth sets the credentials sent with every request
func WithBasicAuth(username, password string) ClientOption {
	return func(client *Client) {
		client.username = username
		client.password = password
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(client *Client) {
		client.UserAgent = ua
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		if d > 0 {
			client.HTTPClient.Timeout = d
		}
	}
}

// NewClient creates a new base client with default settings
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		HTTPClient: newHTTPClient(DefaultTimeout),
		Logger:     slog.Default(),
		Semaphore:  make(chan struct{}, MaxConcurrentRequests),
		UserAgent:  DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// HasCredentials reports whether basic auth credentials are set
func (c *Client) HasCredentials() bool {
	return c.username != "" && c.password != ""
}

// AcquireSlot blocks until a request slot is available or context is canceled
func (c *Client) AcquireSlot(ctx context.Context) error {
	select {
	case c.Semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context canceled while waiting for request slot: %w", ctx.Err())
	}
}

// ReleaseSlot releases a request slot
func (c *Client) ReleaseSlot() {
	<-c.Semaphore
}

// RequestConfig configures a single HTTP request
type RequestConfig struct {
	Method    string // defaults to GET
	URL       string
	Body      any    // JSON-encoded when non-nil
	Operation string // metrics and span label ("find", "create", "delete")
}

// DoRequest performs one HTTP request. It returns the response body and
// status code for any response, leaving status interpretation to the caller.
// An error means no response was received.
func (c *Client) DoRequest(ctx context.Context, cfg RequestConfig) ([]byte, int, error) {
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := tracing.StartSpan(ctx, "confluence.api."+cfg.Operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("confluence.api.operation", cfg.Operation),
	)

	if err := c.AcquireSlot(ctx); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	defer c.ReleaseSlot()

	var reader io.Reader
	if cfg.Body != nil {
		payload, err := json.Marshal(cfg.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.URL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.UserAgent)
	if c.HasCredentials() {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(cfg.Operation, time.Since(start).Seconds(), false, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.Logger.Debug("API request failed",
			"operation", cfg.Operation,
			"method", method,
			"error", err)
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}

	body, err := readAndClose(resp)
	duration := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordAPICall(cfg.Operation, duration, false, resp.StatusCode)
		span.RecordError(err)
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	metrics.RecordAPICall(cfg.Operation, duration, success, resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if !success {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}

	c.Logger.Debug("API request completed",
		"operation", cfg.Operation,
		"method", method,
		"status", resp.StatusCode,
		"duration_ms", int64(duration*1000))

	return body, resp.StatusCode, nil
}

// readAndClose reads the response body up to MaxResponseSize and closes it
func readAndClose(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	_ = resp.Body.Close()
	return body, err
}

// Truncate shortens s to at most maxLen bytes, adding "..." if truncated.
// The cut backs off to a rune boundary.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// newHTTPClient creates an HTTP client with optimized transport settings
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
