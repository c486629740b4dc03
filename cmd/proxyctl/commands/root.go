package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURL string
	token   string
	format  string
	quiet   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "proxyctl",
	Short: "CLI tool for talking to a running feature-flag proxy",
	Long: `Proxyctl is a command-line tool for inspecting a running proxy instance.

It exercises the same endpoints client SDKs use: health, enabled-toggle
evaluation, defined-toggle lookup, feature-definition export, and client
metrics reporting.

Examples:
  proxyctl health
  proxyctl toggles --ctx userId=42 --ctx plan=pro
  proxyctl lookup featureA featureB --ctx userId=42
  proxyctl features --format json
  proxyctl report metrics.json`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// effectiveBaseURL resolves the proxy URL from the flag or environment.
func effectiveBaseURL() string {
	if baseURL != "" {
		return baseURL
	}
	if env := os.Getenv("PROXY_URL"); env != "" {
		return env
	}
	return "http://localhost:3000/proxy"
}

// effectiveToken resolves the token from the flag or environment.
func effectiveToken() string {
	if token != "" {
		return token
	}
	return os.Getenv("PROXY_TOKEN")
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the proxy, including the base path (default http://localhost:3000/proxy, env PROXY_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Token sent in the proxy's token header (env PROXY_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
}
