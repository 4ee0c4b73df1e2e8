package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/albertocavalcante/go-syncpack/label"
)

// DefaultURL is the public npm registry.
const DefaultURL = "https://registry.npmjs.org"

// Client configuration defaults.
const (
	DefaultMaxIdleConns        = 50
	DefaultMaxIdleConnsPerHost = 20
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultRequestTimeout      = 15 * time.Second
)

// StatusError is returned when the registry answers with a status other
// than 200.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// Client fetches and validates packuments from an npm registry.
type Client struct {
	baseURL string
	client  *http.Client
	token   string

	// Cache for parsed packuments, keyed by package name
	packumentCache sync.Map

	// Options
	validateResponses bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithValidation enables or disables validation of responses.
func WithValidation(enabled bool) ClientOption {
	return func(c *Client) {
		c.validateResponses = enabled
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout sets a custom HTTP request timeout.
// Zero or negative values fall back to the default timeout (15 seconds).
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		} else {
			c.client.Timeout = DefaultRequestTimeout
		}
	}
}

// WithToken sends the token as a bearer credential on every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a client for the given registry URL.
//
// By default, responses are validated. Use WithValidation(false) to accept
// any well-formed packument.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout:   DefaultRequestTimeout,
			Transport: transport,
		},
		validateResponses: true,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the registry base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PackumentURL returns the URL the packument of pkg is served at.
func (c *Client) PackumentURL(pkg label.Package) string {
	return c.baseURL + "/" + pkg.PathEscape()
}

// GetPackument fetches, validates and parses a packument.
// Results are cached by package name.
func (c *Client) GetPackument(ctx context.Context, name string) (*Packument, error) {
	if cached, ok := c.packumentCache.Load(name); ok {
		return cached.(*Packument), nil
	}

	data, err := c.FetchPackument(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch packument for %s: %w", name, err)
	}

	p, err := c.Decode(name, data)
	if err != nil {
		return nil, err
	}

	c.packumentCache.Store(name, p)
	return p, nil
}

// Decode parses packument data, validating it when validation is enabled.
func (c *Client) Decode(name string, data []byte) (*Packument, error) {
	var p Packument
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse packument for %s: %w", name, err)
	}
	if c.validateResponses {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("packument validation failed for %s: %w", name, err)
		}
	}
	return &p, nil
}

// FetchPackument returns the raw packument bytes, bypassing the cache.
func (c *Client) FetchPackument(ctx context.Context, name string) ([]byte, error) {
	pkg, err := label.NewPackage(name)
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, c.PackumentURL(pkg))
}

// ClearCache removes all cached data.
func (c *Client) ClearCache() {
	c.packumentCache.Clear()
}

// fetch performs an HTTP GET and returns the response body.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	return io.ReadAll(resp.Body)
}
