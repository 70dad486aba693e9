// Package mapbox provides a typed client for the Mapbox APIs used by the
// shop finder: Search Box suggest/retrieve, Geocoding v5 forward search,
// Directions v5 and Isochrone v1.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// BaseURL is the root of the Mapbox API
	BaseURL = "https://api.mapbox.com"

	// DefaultUserAgent is the default User-Agent string
	DefaultUserAgent = "inkmap/0.1.0"

	// suggestLimit is the candidate count requested from the suggest endpoint
	suggestLimit = 15
)

// httpClient is the shared HTTP client with connection pooling.
var httpClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: 30 * time.Second,
}

// Client issues requests to the Mapbox APIs. Every call requires an access
// token; when the token is empty each method fails with ErrNoAccessToken
// before any network I/O, so a misconfigured deployment never sends
// unauthenticated requests.
type Client struct {
	token     string
	baseURL   string
	userAgent string
	logger    *slog.Logger
	cache     *responseCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Used by tests to point the client at
// a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUserAgent sets the User-Agent string sent with each request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a Mapbox API client with the given access token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:     token,
		baseURL:   BaseURL,
		userAgent: DefaultUserAgent,
		logger:    slog.Default(),
		cache:     newResponseCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSessionToken returns an opaque token correlating a suggest call with
// its subsequent retrieve calls. Mapbox billing and ranking assume one
// token per logical search session.
func NewSessionToken() string {
	return uuid.NewString()
}

// checkToken returns ErrNoAccessToken when no credential is configured.
func (c *Client) checkToken() error {
	if c.token == "" {
		return ErrNoAccessToken
	}
	return nil
}

// getJSON performs a rate-limited GET against the given service and decodes
// the JSON response body into out. Responses are cached by URL when
// cacheable is true.
func (c *Client) getJSON(ctx context.Context, service, reqURL string, cacheable bool, out any) error {
	if err := c.checkToken(); err != nil {
		return err
	}

	if cacheable {
		if body, ok := c.cache.get(reqURL); ok {
			return json.Unmarshal(body, out)
		}
	}

	if err := WaitForService(ctx, service); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return &APIError{Service: service, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return &APIError{Service: service, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("mapbox request failed",
			"service", service,
			"status", resp.StatusCode)
		return &APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Service: service, StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("malformed response: %v", err)}
	}

	if cacheable {
		c.cache.set(reqURL, body)
	}
	return nil
}
