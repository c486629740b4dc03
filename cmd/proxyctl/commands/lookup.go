package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guscost-opensea/unleash-proxy/internal/cli"
	"github.com/guscost-opensea/unleash-proxy/internal/client"
	"github.com/guscost-opensea/unleash-proxy/internal/unleash"
)

var lookupCtx []string

var lookupCmd = &cobra.Command{
	Use:   "lookup [toggle...]",
	Short: "Look up the status of named toggles",
	Long: `Look up the status of the named toggles for a context built from
--ctx pairs. Names without a definition are skipped.

Examples:
  proxyctl lookup featureA featureB --ctx userId=42
  proxyctl lookup featureA --format yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseContextPairs(lookupCtx)
		if err != nil {
			return err
		}

		ec := unleash.Context{Properties: map[string]string{}}
		for key, value := range params {
			switch key {
			case "userId":
				ec.UserID = value
			case "sessionId":
				ec.SessionID = value
			case "remoteAddress":
				ec.RemoteAddress = value
			case "environment":
				ec.Environment = value
			case "appName":
				ec.AppName = value
			default:
				ec.Properties[key] = value
			}
		}

		c := client.NewClient(effectiveBaseURL(), effectiveToken())

		toggles, err := c.DefinedToggles(context.Background(), args, ec)
		if err != nil {
			return fmt.Errorf("failed to look up toggles: %w", err)
		}

		if !quiet {
			if len(toggles) == 0 {
				fmt.Println("No toggles defined")
				return nil
			}
			return cli.PrintToggles(toggles, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringArrayVar(&lookupCtx, "ctx", nil, "Context field as key=value (repeatable)")
}
