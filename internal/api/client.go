// Package api is the transport client for the compound/pathway service.
// It returns raw records and raw failures; interpretation belongs to the
// normalize package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Defaults applied when callers pass a non-positive value.
const (
	DefaultSuggestionLimit = 10
	DefaultMaxSteps        = 5
	DefaultTimeout         = 30 * time.Second
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// Config holds configuration for the client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // Optional, defaults to 30s
	HTTPClient *http.Client  // Optional, overrides Timeout
	Logger     *zap.Logger   // Optional, defaults to a no-op logger
}

// Client issues one HTTP round trip per call. It holds no state beyond its
// configuration and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a new Client.
func New(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: config.Timeout}
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: config.HTTPClient,
		logger:     config.Logger,
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// DecodeError reports a 2xx response whose body could not be decoded.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// HealthCheck calls GET /health.
func (c *Client) HealthCheck(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCompounds calls GET /compounds/. An empty search lists everything.
func (c *Client) ListCompounds(ctx context.Context, search string) ([]RawCompound, error) {
	var q url.Values
	if search != "" {
		q = url.Values{"search": {search}}
	}
	var out []RawCompound
	if err := c.do(ctx, "list compounds", http.MethodGet, "/compounds/", q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []RawCompound{}
	}
	return out, nil
}

// GetCompound calls GET /compounds/{formula}.
func (c *Client) GetCompound(ctx context.Context, formula string) (*RawCompound, error) {
	var out RawCompound
	path := "/compounds/" + url.PathEscape(formula)
	if err := c.do(ctx, "get compound", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSuggestions calls GET /compounds/suggestions/. The server enforces limit;
// only non-positive values are replaced by the default.
func (c *Client) GetSuggestions(ctx context.Context, prefix string, limit int) ([]RawCompound, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	q := url.Values{
		"prefix": {prefix},
		"limit":  {strconv.Itoa(limit)},
	}
	var out []RawCompound
	if err := c.do(ctx, "suggestions", http.MethodGet, "/compounds/suggestions/", q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []RawCompound{}
	}
	return out, nil
}

// FindPaths calls GET /paths/. An empty result means no path was found.
func (c *Client) FindPaths(ctx context.Context, start, end string, maxSteps int) ([]RawPath, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	q := url.Values{
		"start":     {start},
		"end":       {end},
		"max_steps": {strconv.Itoa(maxSteps)},
	}
	var out []RawPath
	if err := c.do(ctx, "find paths", http.MethodGet, "/paths/", q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []RawPath{}
	}
	return out, nil
}

// CreateCompound calls POST /compounds/.
func (c *Client) CreateCompound(ctx context.Context, in NewCompound) (*RawCompound, error) {
	var out RawCompound
	if err := c.do(ctx, "create compound", http.MethodPost, "/compounds/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateReaction calls POST /reactions/ and returns the identifier the
// service assigned.
func (c *Client) CreateReaction(ctx context.Context, in NewReaction) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "create reaction", http.MethodPost, "/reactions/", nil, in, &raw); err != nil {
		return "", err
	}

	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, nil
	}
	// Some deployments wrap the identifier in an object.
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.ID == "" {
		return "", &DecodeError{Op: "create reaction", Err: fmt.Errorf("unexpected body %s", truncate(string(raw), 200))}
	}
	return obj.ID, nil
}

// do performs one request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("op", op),
			zap.String("url", u),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	c.logger.Debug("request done",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: truncate(string(data), 512)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
