// Package mcp exposes the API docs search over the Model Context Protocol.
// It lets AI assistants look up backend operations by summary and get their
// request and response structures back with schema references resolved.
package mcp

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/fathurrohman26/apidocs-mcp/pkg/search"
)

// Server identity reported during the MCP handshake.
const (
	ServerName           = "api-docs-mcp"
	DefaultServerVersion = "1.0.0"
)

// ToolSearchAPIsSummary is the name of the search tool.
const ToolSearchAPIsSummary = "search_apis_summary"

// Searcher runs a summary search against the live document.
type Searcher interface {
	SearchBySummary(ctx context.Context, keyword string) ([]search.Entry, error)
}

// Server wraps the MCP server with the search engine behind its tools.
type Server struct {
	mcpServer *server.MCPServer
	searcher  Searcher
	logger    *zap.Logger
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	version string
	logger  *zap.Logger
}

// WithVersion sets the version reported to clients.
func WithVersion(v string) Option {
	return func(o *serverOptions) {
		if v != "" {
			o.version = v
		}
	}
}

// WithLogger sets the logger used for tool failures and transport errors.
func WithLogger(l *zap.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new MCP server answering tool calls with searcher.
func NewServer(searcher Searcher, opts ...Option) *Server {
	o := serverOptions{
		version: DefaultServerVersion,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		searcher: searcher,
		logger:   o.logger.With(zap.String("component", "mcp")),
	}

	s.mcpServer = server.NewMCPServer(
		ServerName,
		o.version,
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// Run serves MCP over stdin and stdout until ctx is done or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over the given streams. Transport errors go to the
// logger, never to out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))
	return stdio.Listen(ctx, in, out)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(ToolSearchAPIsSummary,
			mcp.WithDescription("Search backend API operations whose summary contains the keyword (case-insensitive) and return their parameters, request body and responses with schema references resolved."),
			mcp.WithString("keyword",
				mcp.Required(),
				mcp.Description("Keyword matched against operation summaries, e.g. 'user' or '用户'. An empty keyword returns every operation."),
			),
		),
		s.handleSearchAPIsSummary,
	)
}

// handleSearchAPIsSummary returns the matched entries as indented JSON. A
// failed search is reported as an {"error": ...} text payload rather than a
// tool error so clients can show the cause.
func (s *Server) handleSearchAPIsSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword, err := req.RequireString("keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries, err := s.searcher.SearchBySummary(ctx, keyword)
	if err != nil {
		s.logger.Error("tool call failed",
			zap.String("tool", ToolSearchAPIsSummary),
			zap.String("keyword", keyword),
			zap.Error(err),
		)
		return errorResult(err), nil
	}

	output, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		s.logger.Error("encoding search result", zap.Error(err))
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}

func errorResult(err error) *mcp.CallToolResult {
	output, _ := json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
	return mcp.NewToolResultText(string(output))
}
