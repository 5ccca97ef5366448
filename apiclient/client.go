package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andrewpaige1/studydesk/logger"
)

// DefaultBaseURL is used when no API base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// Client issues single-attempt JSON calls against a base URL. Failures are
// normalised into *Error; there is no retry and no client-side timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	log        *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		headers:    http.Header{},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("client", "APIClient", "base_url", c.baseURL)
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// RequestOption adjusts a single outgoing request.
type RequestOption func(*http.Request)

// WithBearer sets an Authorization bearer token on one request.
func WithBearer(token string) RequestOption {
	return func(r *http.Request) {
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out, opts)
}

// Post sends body as JSON. A nil body sends an empty request.
func (c *Client) Post(ctx context.Context, path string, body any, out any, opts ...RequestOption) error {
	if body == nil {
		return c.do(ctx, http.MethodPost, path, nil, "", out, opts)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("apiclient: encode %s body: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(raw), "application/json", out, opts)
}

// PostForm sends a multipart form.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out any, opts ...RequestOption) error {
	if form == nil {
		form = NewForm()
	}
	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("apiclient: encode %s form: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, body, contentType, out, opts)
}

func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out, opts)
}

// Patch sends params as the query string of a bodiless PATCH.
func (c *Client) Patch(ctx context.Context, path string, params url.Values, out any, opts ...RequestOption) error {
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + params.Encode()
	}
	return c.do(ctx, http.MethodPatch, path, nil, "", out, opts)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any, opts []RequestOption) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("apiclient: build %s %s: %w", method, path, err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("apiclient: decode %s %s: %w", method, path, err)
	}
	return nil
}
