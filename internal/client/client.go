// Package client provides an HTTP client for the etymon server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/raphaelgruber/etymon/internal/metrics"
	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/raphaelgruber/etymon/internal/service"
)

// ErrServer marks a non-2xx response from the server.
var ErrServer = errors.New("server error")

// Client fetches etymologies from a remote etymon server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check that Client implements service.Fetcher.
var _ service.Fetcher = (*Client)(nil)

// New creates a new client.
// If baseURL is empty, uses ETYMON_SERVER_URL env var or defaults to localhost:8484.
// Timeout can be configured via ETYMON_CLIENT_TIMEOUT env var (default 2m for slow model responses).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("ETYMON_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8484"
	}

	timeout := 2 * time.Minute
	if t := os.Getenv("ETYMON_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// errorResponse mirrors the server's error body.
type errorResponse struct {
	Error string `json:"error"`
}

// get sends a GET request and decodes a JSON response into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return fmt.Errorf("%w: %s: %s", ErrServer, resp.Status, e.Error)
		}
		return fmt.Errorf("%w: %s - %s", ErrServer, resp.Status, strings.TrimSpace(string(body)))
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// Fetch returns the etymology of word in language from the server.
func (c *Client) Fetch(ctx context.Context, word, language string) (*models.EtymologyData, error) {
	params := url.Values{}
	params.Set("word", word)
	if language != "" {
		params.Set("language", language)
	}

	var data models.EtymologyData
	if err := c.get(ctx, "/api/etymology", params, &data); err != nil {
		return nil, fmt.Errorf("fetch etymology: %w", err)
	}
	return &data, nil
}

// Languages returns the languages offered by the server.
func (c *Client) Languages(ctx context.Context) ([]string, error) {
	var langs []string
	if err := c.get(ctx, "/api/languages", nil, &langs); err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return langs, nil
}

// Schema returns the output contract the server sends to the model.
func (c *Client) Schema(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/schema", nil, &raw); err != nil {
		return nil, fmt.Errorf("get schema: %w", err)
	}
	return raw, nil
}

// Stats returns the server's runtime statistics.
func (c *Client) Stats(ctx context.Context) (*metrics.Snapshot, error) {
	var snap metrics.Snapshot
	if err := c.get(ctx, "/api/stats", nil, &snap); err != nil {
		return nil, fmt.Errorf("get server stats: %w", err)
	}
	return &snap, nil
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	if err := c.get(ctx, "/health", nil, nil); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}
