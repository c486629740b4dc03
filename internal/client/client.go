// Package client is an HTTP client for the proxy API, used by the
// proxyctl CLI and by integration tests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/guscost-opensea/unleash-proxy/internal/unleash"
)

// Client talks to a running proxy. BaseURL must include the proxy base
// path (e.g. "http://localhost:3000/proxy").
type Client struct {
	BaseURL     string
	Token       string
	TokenHeader string
	HTTPClient  *http.Client
}

// NewClient creates a new proxy API client using the default Authorization
// token header.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:     baseURL,
		Token:       token,
		TokenHeader: "Authorization",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.Token != "" {
		req.Header.Set(c.TokenHeader, c.Token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(bodyBytes))
}

// Health checks the proxy health endpoint. A not-ready proxy is an error.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// EnabledToggles fetches the toggles enabled for the given context
// parameters (passed through as query parameters).
func (c *Client) EnabledToggles(ctx context.Context, params map[string]string) ([]unleash.ToggleStatus, error) {
	u, err := url.Parse(c.BaseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	for key, value := range params {
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var result struct {
		Toggles []unleash.ToggleStatus `json:"toggles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Toggles, nil
}

// DefinedToggles looks up the status of the named toggles for a JSON
// context.
func (c *Client) DefinedToggles(ctx context.Context, names []string, ec unleash.Context) ([]unleash.ToggleStatus, error) {
	body, err := json.Marshal(map[string]any{
		"context": ec,
		"toggles": names,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var result struct {
		Toggles []unleash.ToggleStatus `json:"toggles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Toggles, nil
}

// FeatureDefinitions exports the raw toggle definitions. Requires a
// server-side token.
func (c *Client) FeatureDefinitions(ctx context.Context) ([]unleash.FeatureDefinition, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/client/features", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var result struct {
		Version  int                         `json:"version"`
		Features []unleash.FeatureDefinition `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Features, nil
}

// ReportMetrics posts a client metrics payload.
func (c *Client) ReportMetrics(ctx context.Context, m unleash.ClientMetrics) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/client/metrics", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}
