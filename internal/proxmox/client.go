package proxmox

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// maxBackoff caps the exponential backoff delay between retry attempts.
const maxBackoff = 30 * time.Second

// jitterFraction is the upper bound of the uniform jitter added to each
// backoff delay, as a fraction of the computed delay.
const jitterFraction = 0.3

// Endpoint identifies a single API call: method, path relative to the API
// root, and an optional form-encoded body.
type Endpoint struct {
	Method string
	Path   string
	Body   url.Values
}

// String renders the endpoint for logs and error context. The body is
// deliberately omitted; it may carry credentials or user data.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s %s", e.Method, e.Path)
}

// API is the surface tool handlers depend on. Production code uses *Client;
// tests substitute fakes.
type API interface {
	Get(ctx context.Context, path string) (any, error)
	Post(ctx context.Context, path string, body url.Values) (any, error)
	Put(ctx context.Context, path string, body url.Values) (any, error)
	Delete(ctx context.Context, path string) (any, error)
	WaitForTask(ctx context.Context, ref TaskRef, maxWait time.Duration) (*TaskStatus, error)
}

// Client is the resilient Proxmox VE API client. Every call flows through
// the same pipeline: rate limiter admission, HTTP exchange, response
// classification, envelope normalization, and retry with exponential
// backoff for transient failures.
//
// A Client is safe for concurrent use.
type Client struct {
	config  *Config
	http    *http.Client
	limiter *Limiter
	logger  *slog.Logger
	metrics *Metrics
	baseURL string

	// pollInterval and now are injectable for tests.
	pollInterval time.Duration
	now          func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the structured logger used for request lifecycle events.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics sets the metrics sink recording request outcomes.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests to
// point the client at an httptest server.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL overrides the API root derived from the config.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) { c.baseURL = base }
}

// WithPollInterval overrides the task polling cadence.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.pollInterval = d }
}

// NewClient builds a Client from a validated config.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- operator opt-in for self-signed clusters
	}

	c := &Client{
		config: cfg,
		// Per-attempt deadlines come from the request context; the
		// http.Client itself carries no timeout.
		http:         &http.Client{Transport: transport},
		limiter:      NewLimiter(cfg.RateLimit, cfg.RateWindow),
		logger:       slog.Default(),
		baseURL:      cfg.BaseURL(),
		pollInterval: defaultPollInterval,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get performs a GET request through the pipeline.
func (c *Client) Get(ctx context.Context, path string) (any, error) {
	return c.Do(ctx, Endpoint{Method: http.MethodGet, Path: path})
}

// Post performs a POST request through the pipeline.
func (c *Client) Post(ctx context.Context, path string, body url.Values) (any, error) {
	return c.Do(ctx, Endpoint{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request through the pipeline.
func (c *Client) Put(ctx context.Context, path string, body url.Values) (any, error) {
	return c.Do(ctx, Endpoint{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request through the pipeline.
func (c *Client) Delete(ctx context.Context, path string) (any, error) {
	return c.Do(ctx, Endpoint{Method: http.MethodDelete, Path: path})
}

// Do runs one logical API call through the full pipeline. The configured
// MaxRetries is the total attempt budget; terminal errors (authentication,
// permission) short-circuit the loop on first occurrence. When the budget is
// exhausted the last failure is wrapped as a Connection error naming the
// endpoint.
func (c *Client) Do(ctx context.Context, ep Endpoint) (any, error) {
	requestID := uuid.NewString()
	log := c.logger.With(
		slog.String("request_id", requestID),
		slog.String("endpoint", ep.String()),
	)

	attempts := c.config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	start := c.now()
	var lastErr *Error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(c.config.BaseDelay, attempt-1)
			log.Debug("retrying request",
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay),
			)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, classifyTransport(ctx.Err(), ep)
			case <-timer.C:
			}
		}

		if err := c.limiter.Admit(ctx); err != nil {
			return nil, classifyTransport(err, ep)
		}

		result, err := c.attempt(ctx, ep)
		if err == nil {
			c.metrics.RecordRequest(ep.Method, "success", c.now().Sub(start))
			log.Debug("request succeeded", slog.Int("attempt", attempt+1))
			return result, nil
		}

		lastErr = asError(err)
		if lastErr.Terminal() {
			c.metrics.RecordRequest(ep.Method, string(lastErr.Kind), c.now().Sub(start))
			log.Warn("request failed, not retryable",
				slog.String("kind", string(lastErr.Kind)),
				slog.String("error", lastErr.Message),
			)
			return nil, lastErr
		}
		log.Warn("request attempt failed",
			slog.Int("attempt", attempt+1),
			slog.String("kind", string(lastErr.Kind)),
			slog.String("error", lastErr.Message),
		)
	}

	c.metrics.RecordRequest(ep.Method, "exhausted", c.now().Sub(start))
	return nil, NewConnectionError(
		fmt.Sprintf("request failed after %d attempts: %s", attempts, ep.Path),
		lastErr,
	).WithContext("endpoint", ep.String()).WithContext("attempts", attempts)
}

// attempt performs a single HTTP exchange and classifies its outcome.
func (c *Client) attempt(ctx context.Context, ep Endpoint) (any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var reqBody io.Reader
	if len(ep.Body) > 0 {
		reqBody = bytes.NewBufferString(ep.Body.Encode())
	}

	req, err := http.NewRequestWithContext(attemptCtx, ep.Method, c.baseURL+ep.Path, reqBody)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid request for %s: %v", ep.Path, err))
	}
	req.Header.Set("Authorization", c.config.authorization())
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(err, ep)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err, ep)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyResponse(resp.StatusCode, body, ep)
	}
	return normalize(body)
}

// GetInto performs a GET request and decodes the normalized payload into v.
func (c *Client) GetInto(ctx context.Context, path string, v any) error {
	result, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	return decodeInto(result, v)
}

// decodeInto round-trips a normalized payload into a typed structure.
func decodeInto(payload any, v any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return NewAPIError("failed to re-encode response payload", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return NewAPIError("unexpected response payload shape", err)
	}
	return nil
}

// backoffDelay computes the delay before retry attempt n (zero-based):
// min(base * 2^n, 30s) plus a uniform jitter of up to 30% of the delay.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	delay := base << uint(attempt)
	if delay > maxBackoff || delay <= 0 {
		delay = maxBackoff
	}
	jitter := time.Duration(rand.Float64() * jitterFraction * float64(delay))
	return delay + jitter
}
