package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fathurrohman26/apidocs-mcp/pkg/mcp"
	"github.com/fathurrohman26/apidocs-mcp/pkg/openapi"
)

func (c *CLI) mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server on stdin/stdout and expose the search_apis_summary tool.

The docs endpoint is probed once on startup. An unreachable endpoint is
logged and the server starts anyway; every tool call fetches the document
again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			e.probe(ctx)

			server := mcp.NewServer(e.engine,
				mcp.WithVersion(c.info.version),
				mcp.WithLogger(e.logger),
			)
			e.logger.Info("mcp server started", zap.String("docs_url", e.fetcher.URL()))
			return server.Run(ctx)
		},
	}

	return cmd
}

// probe checks that the docs endpoint answers with an OpenAPI 3 document.
// Failures are logged only.
func (e *env) probe(ctx context.Context) {
	logger := e.logger.With(zap.String("docs_url", e.fetcher.URL()))

	data, err := e.fetcher.FetchRaw(ctx)
	if err != nil {
		logger.Warn("api docs unreachable, starting anyway", zap.Error(err))
		return
	}

	summary, err := openapi.Inspect(data)
	if err != nil {
		logger.Warn("api docs are not a usable OpenAPI document, starting anyway", zap.Error(err))
		return
	}

	logger.Info("api docs loaded",
		zap.String("openapi_version", summary.Version),
		zap.Int("paths", summary.Paths),
		zap.Int("operations", summary.Operations),
		zap.Int("schemas", summary.Schemas),
	)
}
