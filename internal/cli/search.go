package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (c *CLI) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search operations by summary and print the resolved entries",
		Long: `Search operations whose summary contains the keyword, ignoring case, and
print them with their schemas resolved. Without a keyword every operation is
printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "json" && format != "yaml" {
				return fmt.Errorf("invalid format: %s (valid: json, yaml)", format)
			}

			e, err := c.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			keyword := ""
			if len(args) > 0 {
				keyword = args[0]
			}

			entries, err := e.engine.SearchBySummary(cmd.Context(), keyword)
			if err != nil {
				return err
			}

			data, err := formatOutput(entries, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringP("format", "f", "json", "Output format (json or yaml)")

	return cmd
}

// formatOutput renders v as indented JSON or block-style YAML. Both keep
// the key order of the JSON encoding.
func formatOutput(v any, format string) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}
	if format != "yaml" {
		return append(data, '\n'), nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}
	blockStyle(&node)

	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}
	return []byte(sb.String()), nil
}

// blockStyle drops the flow and quoting styles JSON input leaves on nodes.
// The encoder still quotes strings that would otherwise read as another type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
