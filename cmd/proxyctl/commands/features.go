package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guscost-opensea/unleash-proxy/internal/cli"
	"github.com/guscost-opensea/unleash-proxy/internal/client"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Export the raw feature definitions",
	Long: `Export the raw feature-toggle definitions the proxy serves to
server-side SDKs. Requires a server-side token.

Examples:
  proxyctl features --token my-server-token
  proxyctl features --token my-server-token --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(effectiveBaseURL(), effectiveToken())

		features, err := c.FeatureDefinitions(context.Background())
		if err != nil {
			return fmt.Errorf("failed to export features: %w", err)
		}

		if !quiet {
			if len(features) == 0 {
				fmt.Println("No features defined")
				return nil
			}
			return cli.PrintFeatures(features, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}
