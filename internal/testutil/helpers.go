package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/guscost-opensea/unleash-proxy/internal/config"
	"github.com/guscost-opensea/unleash-proxy/internal/proxy"
	"github.com/guscost-opensea/unleash-proxy/internal/unleash"
)

// TestConfig returns a config suitable for in-process tests.
func TestConfig(clientKeys, serverTokens []string) *config.Config {
	return &config.Config{
		AppEnv:           "dev",
		HTTPAddr:         ":0",
		MetricsAddr:      ":0",
		ProxyBasePath:    "/proxy",
		TokenHeader:      "Authorization",
		ClientKeys:       clientKeys,
		ServerSideTokens: serverTokens,
	}
}

// NewTestServer creates a proxy server backed by a ready static client.
func NewTestServer(t *testing.T, clientKeys, serverTokens []string, features ...unleash.FeatureDefinition) (*proxy.Server, *unleash.StaticClient) {
	t.Helper()
	c := unleash.NewStaticClient(features...)
	c.MarkReady()
	server := proxy.NewServer(c, TestConfig(clientKeys, serverTokens), zerolog.New(io.Discard))
	return server, c
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
