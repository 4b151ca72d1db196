// Package grocery is an HTTP client for the grocery service API.
package grocery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"grocery-report/internal/locale"
	"grocery-report/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

const loginPath = "/services/frontend-service/login"

var (
	// ErrNotFound is returned when the service answers 404.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the session cannot be established.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is a non-retryable HTTP error response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client talks to the grocery service over HTTPS using a cookie session.
type Client struct {
	baseURL        string
	client         *http.Client
	maxRetries     int
	retryDelay     time.Duration
	maxDelay       time.Duration
	backoffMult    float64
	username       string
	password       string
	acceptLanguage string
	logger         *zap.Logger
	metrics        *observability.Metrics

	sessionMu sync.Mutex
	loggedIn  bool
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client. A cookie jar is added when missing.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithCredentials enables login before the first request and re-login on 401.
func WithCredentials(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithAcceptLanguage overrides the Accept-Language header derived from the base URL.
func WithAcceptLanguage(v string) ClientOption {
	return func(c *Client) {
		c.acceptLanguage = v
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the storefront at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = locale.DefaultBaseURL
	}
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         &http.Client{Timeout: DefaultTimeout},
		maxRetries:     DefaultMaxRetries,
		retryDelay:     DefaultRetryDelay,
		maxDelay:       DefaultMaxDelay,
		backoffMult:    DefaultBackoffMult,
		acceptLanguage: locale.AcceptLanguage(baseURL),
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client.Jar == nil {
		jar, _ := cookiejar.New(nil)
		c.client.Jar = jar
	}
	return c
}

// BaseURL returns the storefront base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login establishes a session with the configured credentials.
// It is a no-op without credentials.
func (c *Client) Login(ctx context.Context) error {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	return c.loginLocked(ctx)
}

func (c *Client) loginLocked(ctx context.Context) error {
	if c.username == "" {
		return nil
	}
	body, err := json.Marshal(map[string]string{
		"email":    c.username,
		"password": c.password,
		"name":     "",
	})
	if err != nil {
		return fmt.Errorf("marshal login: %w", err)
	}

	status, respBody, err := c.send(ctx, http.MethodPost, loginPath, body)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if status != http.StatusOK {
		c.loggedIn = false
		return fmt.Errorf("login: %w (status %d: %s)", ErrUnauthorized, status, truncate(respBody))
	}
	c.loggedIn = true
	c.logger.Debug("session established", zap.String("base_url", c.baseURL))
	return nil
}

func (c *Client) ensureSession(ctx context.Context, force bool) error {
	if c.username == "" {
		return nil
	}
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	if c.loggedIn && !force {
		return nil
	}
	return c.loginLocked(ctx)
}

// call performs a request with retries and exponential backoff and decodes
// the response into result. Transport errors, 429 and 5xx are retried.
func (c *Client) call(ctx context.Context, endpoint, method, path string, reqBody, result interface{}) error {
	start := time.Now()
	err := c.callWithRetry(ctx, method, path, reqBody, result)
	c.metrics.RecordAPICall(endpoint, time.Since(start).Seconds(), err)
	if err != nil && !errors.Is(err, ErrNotFound) {
		c.logger.Debug("api call failed",
			zap.String("endpoint", endpoint),
			zap.String("path", path),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) callWithRetry(ctx context.Context, method, path string, reqBody, result interface{}) error {
	if err := c.ensureSession(ctx, false); err != nil {
		return err
	}

	var body []byte
	if reqBody != nil {
		var err error
		body, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	delay := c.retryDelay
	relogged := false
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		status, respBody, err := c.send(ctx, method, path, body)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}

		switch {
		case status == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		case status >= 500:
			lastErr = &StatusError{Code: status, Body: truncate(respBody)}
			continue
		case status == http.StatusUnauthorized:
			if c.username == "" || relogged {
				return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
			}
			relogged = true
			if err := c.ensureSession(ctx, true); err != nil {
				return err
			}
			attempt-- // re-login does not consume a retry
			continue
		case status == http.StatusNotFound:
			return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
		case status < 200 || status >= 300:
			return &StatusError{Code: status, Body: truncate(respBody)}
		}

		if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("decode %s response: %w", path, err)
			}
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// send performs a single HTTP round trip.
func (c *Client) send(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.acceptLanguage)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// getJSON fetches path and decodes it into a new T. A null or empty body yields nil.
func getJSON[T any](ctx context.Context, c *Client, endpoint, path string) (*T, error) {
	var raw json.RawMessage
	if err := c.call(ctx, endpoint, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &v, nil
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
