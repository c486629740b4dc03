package proxy

import (
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestBuildContext_Fallback(t *testing.T) {
	ec := BuildContext(url.Values{}, "1.2.3.4")

	if ec.RemoteAddress != "1.2.3.4" {
		t.Errorf("expected fallback remote address, got %q", ec.RemoteAddress)
	}
	if ec.Properties != nil {
		t.Errorf("expected no properties, got %v", ec.Properties)
	}
}

func TestBuildContext_QueryWins(t *testing.T) {
	query := url.Values{
		"remoteAddress": {"9.9.9.9"},
		"plan":          {"pro"},
	}

	ec := BuildContext(query, "1.2.3.4")

	if ec.RemoteAddress != "9.9.9.9" {
		t.Errorf("query remoteAddress must win, got %q", ec.RemoteAddress)
	}
	if ec.Properties["plan"] != "pro" {
		t.Errorf("expected plan property, got %v", ec.Properties)
	}
}

func TestBuildContext_EmptyRemoteAddressFallsBack(t *testing.T) {
	query := url.Values{"remoteAddress": {""}}

	ec := BuildContext(query, "1.2.3.4")

	if ec.RemoteAddress != "1.2.3.4" {
		t.Errorf("empty query value must fall back, got %q", ec.RemoteAddress)
	}
}

func TestBuildContext_WellKnownFields(t *testing.T) {
	query := url.Values{
		"userId":      {"user-1"},
		"sessionId":   {"sess-1"},
		"environment": {"prod"},
		"appName":     {"web"},
		"customField": {"custom"},
	}

	ec := BuildContext(query, "1.2.3.4")

	if ec.UserID != "user-1" {
		t.Errorf("UserID = %q", ec.UserID)
	}
	if ec.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", ec.SessionID)
	}
	if ec.Environment != "prod" {
		t.Errorf("Environment = %q", ec.Environment)
	}
	if ec.AppName != "web" {
		t.Errorf("AppName = %q", ec.AppName)
	}
	if ec.Properties["customField"] != "custom" {
		t.Errorf("Properties = %v", ec.Properties)
	}
	if _, leaked := ec.Properties["userId"]; leaked {
		t.Error("well-known fields must not appear in Properties")
	}
}

func TestBuildContext_DoesNotMutateQuery(t *testing.T) {
	query := url.Values{"plan": {"pro"}}

	BuildContext(query, "1.2.3.4")

	if len(query) != 1 || query.Get("plan") != "pro" {
		t.Errorf("query mutated: %v", query)
	}
	if query.Get("remoteAddress") != "" {
		t.Error("fallback must not be written back into the query")
	}
}

func TestPeerAddress(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:51234"
	if got := peerAddress(r); got != "10.0.0.7" {
		t.Errorf("peerAddress = %q, want 10.0.0.7", got)
	}

	// RealIP middleware leaves a bare IP without a port.
	r.RemoteAddr = "10.0.0.7"
	if got := peerAddress(r); got != "10.0.0.7" {
		t.Errorf("peerAddress = %q, want 10.0.0.7", got)
	}
}
