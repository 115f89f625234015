package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fathurrohman26/apidocs-mcp/pkg/openapi"
)

func (c *CLI) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fetch the docs endpoint and report what it serves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			data, err := e.fetcher.FetchRaw(cmd.Context())
			if err != nil {
				return err
			}

			summary, err := openapi.Inspect(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			title := summary.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(out, "Loaded OpenAPI %s: %s\n", summary.Version, title)
			fmt.Fprintf(out, "  Source: %s\n", e.fetcher.URL())
			fmt.Fprintf(out, "  Paths: %d\n", summary.Paths)
			fmt.Fprintf(out, "  Operations: %d\n", summary.Operations)
			fmt.Fprintf(out, "  Schemas: %d\n", summary.Schemas)
			return nil
		},
	}
}
