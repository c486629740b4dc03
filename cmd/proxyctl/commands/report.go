package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guscost-opensea/unleash-proxy/internal/client"
	"github.com/guscost-opensea/unleash-proxy/internal/unleash"
)

var reportCmd = &cobra.Command{
	Use:   "report <metrics.json>",
	Short: "Send a client metrics payload from a file",
	Long: `Read a client metrics payload from a JSON file and post it to the
proxy's metrics endpoint. The proxy validates the payload and rejects
malformed ones with field-level errors.

Examples:
  proxyctl report metrics.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read metrics file: %w", err)
		}

		var m unleash.ClientMetrics
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("failed to parse metrics file %s: %w", args[0], err)
		}

		c := client.NewClient(effectiveBaseURL(), effectiveToken())

		if err := c.ReportMetrics(context.Background(), m); err != nil {
			return fmt.Errorf("failed to report metrics: %w", err)
		}

		if !quiet {
			fmt.Println("Metrics accepted")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
