package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guscost-opensea/unleash-proxy/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the proxy is ready",
	Long: `Check the proxy health endpoint.

Exits non-zero if the proxy is unreachable or not yet ready.

Examples:
  proxyctl health
  proxyctl health --base-url http://flags.internal:3000/proxy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(effectiveBaseURL(), effectiveToken())

		if err := c.Health(context.Background()); err != nil {
			return fmt.Errorf("proxy is not healthy: %w", err)
		}

		if !quiet {
			fmt.Println("ok")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
