package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guscost-opensea/unleash-proxy/internal/testutil"
	"github.com/guscost-opensea/unleash-proxy/internal/unleash"
)

func startProxy(t *testing.T) (*httptest.Server, *unleash.StaticClient) {
	t.Helper()
	srv, upstream := testutil.NewTestServer(t,
		[]string{"client-key"},
		[]string{"server-token"},
		unleash.FeatureDefinition{Name: "featureA", Enabled: true},
		unleash.FeatureDefinition{Name: "featureB", Enabled: false},
	)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, upstream
}

func TestClient_Health(t *testing.T) {
	ts, _ := startProxy(t)
	c := NewClient(ts.URL+"/proxy", "")

	if err := c.Health(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_EnabledToggles(t *testing.T) {
	ts, _ := startProxy(t)
	c := NewClient(ts.URL+"/proxy", "client-key")

	toggles, err := c.EnabledToggles(context.Background(), map[string]string{"userId": "42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toggles) != 1 || toggles[0].Name != "featureA" {
		t.Errorf("unexpected toggles: %+v", toggles)
	}
}

func TestClient_EnabledToggles_Unauthorized(t *testing.T) {
	ts, _ := startProxy(t)
	c := NewClient(ts.URL+"/proxy", "wrong-key")

	_, err := c.EnabledToggles(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for bad token")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestClient_DefinedToggles(t *testing.T) {
	ts, _ := startProxy(t)
	c := NewClient(ts.URL+"/proxy", "client-key")

	toggles, err := c.DefinedToggles(context.Background(), []string{"featureB"}, unleash.Context{UserID: "42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toggles) != 1 || toggles[0].Name != "featureB" || toggles[0].Enabled {
		t.Errorf("unexpected toggles: %+v", toggles)
	}
}

func TestClient_FeatureDefinitions(t *testing.T) {
	ts, _ := startProxy(t)

	// Client key is not enough.
	c := NewClient(ts.URL+"/proxy", "client-key")
	if _, err := c.FeatureDefinitions(context.Background()); err == nil {
		t.Error("expected error with client-only token")
	}

	c = NewClient(ts.URL+"/proxy", "server-token")
	features, err := c.FeatureDefinitions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(features) != 2 {
		t.Errorf("expected 2 features, got %d", len(features))
	}
}

func TestClient_ReportMetrics(t *testing.T) {
	ts, upstream := startProxy(t)
	c := NewClient(ts.URL+"/proxy", "client-key")

	m := unleash.ClientMetrics{
		AppName: "web",
		Bucket: unleash.MetricsBucket{
			Start:   time.Now().Add(-time.Minute),
			Stop:    time.Now(),
			Toggles: map[string]unleash.ToggleCounts{"featureA": {Yes: 3}},
		},
	}
	if err := c.ReportMetrics(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts := upstream.MetricsCounts(); counts["featureA"].Yes != 3 {
		t.Errorf("counts = %+v", counts)
	}

	// Malformed payloads surface the validator's 400.
	if err := c.ReportMetrics(context.Background(), unleash.ClientMetrics{}); err == nil {
		t.Error("expected error for invalid payload")
	}
}

func TestClient_CustomTokenHeader(t *testing.T) {
	ts, _ := startProxy(t)

	c := NewClient(ts.URL+"/proxy", "client-key")
	c.TokenHeader = "X-Other"

	// The proxy reads Authorization, so the token is invisible.
	if _, err := c.EnabledToggles(context.Background(), nil); err == nil {
		t.Error("expected error when token is sent in the wrong header")
	}
}
