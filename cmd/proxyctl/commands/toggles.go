package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guscost-opensea/unleash-proxy/internal/cli"
	"github.com/guscost-opensea/unleash-proxy/internal/client"
)

var togglesCtx []string

var togglesCmd = &cobra.Command{
	Use:   "toggles",
	Short: "List the toggles enabled for a context",
	Long: `Evaluate the enabled toggles for a context built from --ctx pairs.

Examples:
  proxyctl toggles --ctx userId=42
  proxyctl toggles --ctx userId=42 --ctx plan=pro --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseContextPairs(togglesCtx)
		if err != nil {
			return err
		}

		c := client.NewClient(effectiveBaseURL(), effectiveToken())

		toggles, err := c.EnabledToggles(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to fetch toggles: %w", err)
		}

		if !quiet {
			if len(toggles) == 0 {
				fmt.Println("No toggles enabled")
				return nil
			}
			return cli.PrintToggles(toggles, cli.OutputFormat(format))
		}
		return nil
	},
}

// parseContextPairs turns "key=value" flags into context parameters.
func parseContextPairs(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid context pair %q: expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

func init() {
	rootCmd.AddCommand(togglesCmd)

	togglesCmd.Flags().StringArrayVar(&togglesCtx, "ctx", nil, "Context field as key=value (repeatable)")
}
