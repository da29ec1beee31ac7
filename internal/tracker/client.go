package tracker

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is a client for a TestRail-compatible test-management API.
// All endpoints live under {baseURL}/index.php?/api/v2/.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

// New creates a Client for the given tracker instance. Credentials are sent
// as a basic Authorization header on every request; the password is expected
// to be an API key, not an account password.
func New(baseURL, username, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("tracker: baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	auth := base64.StdEncoding.EncodeToString([]byte(username + ":" + apiKey))

	return &Client{
		baseURL:    baseURL,
		authHeader: "Basic " + auth,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

// endpoint builds the full URL for an API method, e.g. "add_run/7".
func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/index.php?/api/v2/%s", c.baseURL, method)
}

// doJSON executes an API call and decodes the JSON response into dst.
// body, when non-nil, is marshaled as the JSON request payload. If the
// response has an error status, it returns an *APIError.
func (c *Client) doJSON(ctx context.Context, httpMethod, apiMethod, operation string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	url := c.endpoint(apiMethod)
	req, err := http.NewRequestWithContext(ctx, httpMethod, url, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.Header.Set("Authorization", c.authHeader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "API request", "operation", operation, "method", httpMethod, "api", apiMethod)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "API response", "operation", operation, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var errRS ErrorResponse
		if json.Unmarshal(respBody, &errRS) == nil && errRS.Error != "" {
			return newAPIError(operation, resp.StatusCode, errRS.Error)
		}
		msg := string(respBody)
		if msg == "" {
			msg = resp.Status
		}
		return newAPIError(operation, resp.StatusCode, msg)
	}

	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("%s: decode response: %w", operation, err)
		}
	}
	return nil
}

// GetProject returns a project by ID. Used by the CLI to verify
// connectivity and that the configured credentials have API access.
func (c *Client) GetProject(ctx context.Context, projectID int) (*Project, error) {
	var p Project
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("get_project/%d", projectID), "get project", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
