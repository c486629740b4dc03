package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/guscost-opensea/unleash-proxy/internal/unleash"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintToggles outputs toggle statuses in the specified format
func PrintToggles(toggles []unleash.ToggleStatus, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(map[string][]unleash.ToggleStatus{"toggles": toggles})
	case FormatYAML:
		return printYAML(toggles)
	case FormatTable:
		return printToggleTable(toggles)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintFeatures outputs feature definitions in the specified format
func PrintFeatures(features []unleash.FeatureDefinition, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(map[string]any{"version": 2, "features": features})
	case FormatYAML:
		return printYAML(features)
	case FormatTable:
		return printFeatureTable(features)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printToggleTable(toggles []unleash.ToggleStatus) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Enabled", "Variant")

	for _, t := range toggles {
		variant := "-"
		if t.Variant != nil {
			variant = t.Variant.Name
		}
		table.Append(t.Name, fmt.Sprintf("%t", t.Enabled), variant)
	}

	return table.Render()
}

func printFeatureTable(features []unleash.FeatureDefinition) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Type", "Enabled", "Stale", "Project", "Strategies")

	for _, f := range features {
		table.Append(
			f.Name,
			f.Type,
			fmt.Sprintf("%t", f.Enabled),
			fmt.Sprintf("%t", f.Stale),
			f.Project,
			fmt.Sprintf("%d", len(f.Strategies)),
		)
	}

	return table.Render()
}
