package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fathurrohman26/apidocs-mcp/internal/config"
	"github.com/fathurrohman26/apidocs-mcp/internal/logging"
	"github.com/fathurrohman26/apidocs-mcp/pkg/fetcher"
	"github.com/fathurrohman26/apidocs-mcp/pkg/resolve"
	"github.com/fathurrohman26/apidocs-mcp/pkg/search"
)

type CLI struct {
	info struct {
		version string
		commit  string
		date    string
	}
}

type Option func(*CLI)

func New(opts ...Option) *CLI {
	cli := &CLI{}
	cli.info.version = "dev"
	cli.info.commit = "none"
	cli.info.date = "unknown"
	for _, opt := range opts {
		opt(cli)
	}

	return cli
}

func WithVersionInfo(version, commit, date string) Option {
	return func(c *CLI) {
		if version != "" {
			c.info.version = version
		}
		if commit != "" {
			c.info.commit = commit
		}
		if date != "" {
			c.info.date = date
		}
	}
}

// Run executes the command line until it finishes or the process is
// interrupted.
func (c *CLI) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.RootCmd().ExecuteContext(ctx)
}

func (c *CLI) RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "apidocs-mcp",
		Short:         "Search a live OpenAPI document by summary, over MCP or from the shell",
		Version:       c.info.version,
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetVersionTemplate(c.Version() + "\n")

	config.BindFlags(root)
	root.AddCommand(
		c.mcpCmd(),
		c.searchCmd(),
		c.checkCmd(),
		c.versionCmd(),
	)

	return root
}

func (c *CLI) Version() string {
	return fmt.Sprintf("apidocs-mcp version %s (commit: %s, built: %s)", c.info.version, c.info.commit, c.info.date)
}

func (c *CLI) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), c.Version())
			return err
		},
	}
}

// env is what every command needs after flags are parsed.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	fetcher *fetcher.Fetcher
	engine  *search.Engine
}

func (c *CLI) setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	f := fetcher.New(fetcher.Config{
		URL:     cfg.Docs.URL,
		Timeout: cfg.Docs.Timeout(),
	}, logger)

	engine := search.New(f, search.Options{
		Resolve: resolve.Options{
			EnvelopePrefix: cfg.Search.EnvelopePrefix,
			MaxDepth:       cfg.Search.MaxDepth,
		},
		Concurrency: cfg.Search.Concurrency,
	}, logger)

	return &env{cfg: cfg, logger: logger, fetcher: f, engine: engine}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
}
