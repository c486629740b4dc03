// Package config provides application configuration loading from environment variables and .env files.
// It uses viper for flexible configuration management with sensible defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds all proxy configuration loaded from environment variables or .env file.
// Configuration priority: environment variables > .env file > defaults.
type Config struct {
	AppEnv           string   // Application environment (dev, staging, prod)
	HTTPAddr         string   // HTTP server bind address (e.g., ":3000")
	MetricsAddr      string   // Prometheus exposition bind address
	ProxyBasePath    string   // Route prefix the proxy surface is mounted under
	TokenHeader      string   // HTTP header carrying the caller's token
	ClientKeys       []string // Tokens authorizing the toggle-reading endpoints
	ServerSideTokens []string // Tokens authorizing definition export and metrics
	AppName          string   // Application name reported upstream
	InstanceID       string   // Instance identifier, generated when unset
	BootstrapFile    string   // Optional JSON file seeding the static client
	LogLevel         string   // zerolog level (trace, debug, info, warn, error)
	LogPretty        bool     // Console writer instead of JSON logs
	RateLimitPerIP   int      // Requests per minute per client IP, 0 disables
}

const defaultClientKey = "proxy-client-key"

// Load reads configuration from environment variables and .env file (if present).
// Environment variables take precedence over .env file values.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env") // Optional; silently ignored if file doesn't exist
	_ = v.ReadInConfig()    // Ignore error - .env is optional
	v.AutomaticEnv()        // Read from environment variables

	setConfigDefaults(v)

	instanceID := v.GetString("PROXY_INSTANCE_ID")
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	return &Config{
		AppEnv:           v.GetString("APP_ENV"),
		HTTPAddr:         v.GetString("PROXY_HTTP_ADDR"),
		MetricsAddr:      v.GetString("METRICS_ADDR"),
		ProxyBasePath:    v.GetString("PROXY_BASE_PATH"),
		TokenHeader:      v.GetString("PROXY_TOKEN_HEADER"),
		ClientKeys:       splitTokens(v.GetString("PROXY_CLIENT_KEYS")),
		ServerSideTokens: splitTokens(v.GetString("PROXY_SECRETS")),
		AppName:          v.GetString("PROXY_APP_NAME"),
		InstanceID:       instanceID,
		BootstrapFile:    v.GetString("PROXY_BOOTSTRAP_FILE"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogPretty:        v.GetBool("LOG_PRETTY"),
		RateLimitPerIP:   v.GetInt("RATE_LIMIT_PER_IP"),
	}, nil
}

// setConfigDefaults sets default values for all configuration options.
// These defaults are suitable for local development but should be overridden in production.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PROXY_HTTP_ADDR", ":3000")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("PROXY_BASE_PATH", "/proxy")
	v.SetDefault("PROXY_TOKEN_HEADER", "Authorization")
	v.SetDefault("PROXY_CLIENT_KEYS", defaultClientKey) // Change in production!
	v.SetDefault("PROXY_SECRETS", "")
	v.SetDefault("PROXY_APP_NAME", "unleash-proxy")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("RATE_LIMIT_PER_IP", 0)
}

// splitTokens parses a comma-separated token list, dropping empty entries.
func splitTokens(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// ValidationError represents a configuration validation error with details about what failed.
type ValidationError struct {
	Field   string // Name of the configuration field
	Message string // Human-readable error message
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate checks that the configuration is suitable for serving traffic.
// It is intended to be called at startup to fail fast on misconfiguration.
//
// In production (APP_ENV prod/production) the default client key is
// rejected.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return ValidationError{
			Field:   "PROXY_HTTP_ADDR",
			Message: "HTTP server address cannot be empty",
		}
	}

	if c.MetricsAddr == "" {
		return ValidationError{
			Field:   "METRICS_ADDR",
			Message: "metrics server address cannot be empty",
		}
	}

	if !strings.HasPrefix(c.ProxyBasePath, "/") {
		return ValidationError{
			Field:   "PROXY_BASE_PATH",
			Message: fmt.Sprintf("base path must start with '/', got '%s'", c.ProxyBasePath),
		}
	}

	if c.TokenHeader == "" {
		return ValidationError{
			Field:   "PROXY_TOKEN_HEADER",
			Message: "token header name cannot be empty",
		}
	}

	if len(c.ClientKeys) == 0 {
		return ValidationError{
			Field:   "PROXY_CLIENT_KEYS",
			Message: "at least one client key is required",
		}
	}

	if c.RateLimitPerIP < 0 {
		return ValidationError{
			Field:   "RATE_LIMIT_PER_IP",
			Message: "rate limit cannot be negative",
		}
	}

	if c.AppEnv == "prod" || c.AppEnv == "production" {
		for _, key := range c.ClientKeys {
			if key == defaultClientKey {
				return ValidationError{
					Field:   "PROXY_CLIENT_KEYS",
					Message: fmt.Sprintf("default client key '%s' is not allowed in production", defaultClientKey),
				}
			}
		}
	}

	return nil
}
