package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.ProxyBasePath != "/proxy" {
		t.Errorf("ProxyBasePath = %q", cfg.ProxyBasePath)
	}
	if cfg.TokenHeader != "Authorization" {
		t.Errorf("TokenHeader = %q", cfg.TokenHeader)
	}
	if len(cfg.ClientKeys) != 1 || cfg.ClientKeys[0] != defaultClientKey {
		t.Errorf("ClientKeys = %v", cfg.ClientKeys)
	}
	if cfg.InstanceID == "" {
		t.Error("InstanceID should be generated when unset")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROXY_CLIENT_KEYS", "key-1, key-2,")
	t.Setenv("PROXY_SECRETS", "secret-1")
	t.Setenv("PROXY_TOKEN_HEADER", "X-API-Key")
	t.Setenv("PROXY_INSTANCE_ID", "fixed-id")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.ClientKeys) != 2 || cfg.ClientKeys[0] != "key-1" || cfg.ClientKeys[1] != "key-2" {
		t.Errorf("ClientKeys = %v", cfg.ClientKeys)
	}
	if len(cfg.ServerSideTokens) != 1 || cfg.ServerSideTokens[0] != "secret-1" {
		t.Errorf("ServerSideTokens = %v", cfg.ServerSideTokens)
	}
	if cfg.TokenHeader != "X-API-Key" {
		t.Errorf("TokenHeader = %q", cfg.TokenHeader)
	}
	if cfg.InstanceID != "fixed-id" {
		t.Errorf("InstanceID = %q", cfg.InstanceID)
	}
}

func validConfig() *Config {
	return &Config{
		AppEnv:        "dev",
		HTTPAddr:      ":3000",
		MetricsAddr:   ":9090",
		ProxyBasePath: "/proxy",
		TokenHeader:   "Authorization",
		ClientKeys:    []string{"key-1"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty http addr", func(c *Config) { c.HTTPAddr = "" }, "PROXY_HTTP_ADDR"},
		{"empty metrics addr", func(c *Config) { c.MetricsAddr = "" }, "METRICS_ADDR"},
		{"bad base path", func(c *Config) { c.ProxyBasePath = "proxy" }, "PROXY_BASE_PATH"},
		{"empty token header", func(c *Config) { c.TokenHeader = "" }, "PROXY_TOKEN_HEADER"},
		{"no client keys", func(c *Config) { c.ClientKeys = nil }, "PROXY_CLIENT_KEYS"},
		{"negative rate limit", func(c *Config) { c.RateLimitPerIP = -1 }, "RATE_LIMIT_PER_IP"},
		{"default key in prod", func(c *Config) {
			c.AppEnv = "prod"
			c.ClientKeys = []string{defaultClientKey}
		}, "PROXY_CLIENT_KEYS"},
		{"default key in dev is fine", func(c *Config) {
			c.ClientKeys = []string{defaultClientKey}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			verr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
			if !strings.Contains(verr.Error(), tt.wantField) {
				t.Errorf("Error() should mention the field: %q", verr.Error())
			}
		})
	}
}

func TestSplitTokens(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a,b", 2},
		{" a , b ", 2},
		{"a,,b,", 2},
	}

	for _, tt := range tests {
		if got := splitTokens(tt.raw); len(got) != tt.want {
			t.Errorf("splitTokens(%q) = %v, want %d tokens", tt.raw, got, tt.want)
		}
	}
}
