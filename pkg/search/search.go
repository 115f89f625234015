// Package search filters the operations of a live OpenAPI document by
// summary and resolves the matches into self-contained entries.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fathurrohman26/apidocs-mcp/pkg/openapi"
	"github.com/fathurrohman26/apidocs-mcp/pkg/resolve"
)

// Source provides a freshly fetched document.
type Source interface {
	Fetch(ctx context.Context) (*openapi.Document, error)
}

// Entry is one matched operation. The operation view is flattened next to
// the path and method when encoded.
type Entry struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	openapi.OperationView
}

// Options tune the engine.
type Options struct {
	Resolve resolve.Options
	// Concurrency is the number of matched operations resolved at once.
	// Values below 2 resolve sequentially.
	Concurrency int
}

// DefaultOptions returns sequential resolution with default resolver settings.
func DefaultOptions() Options {
	return Options{
		Resolve:     resolve.DefaultOptions(),
		Concurrency: 1,
	}
}

// Engine runs summary searches. It keeps no state between calls.
type Engine struct {
	source Source
	opts   Options
	logger *zap.Logger
}

// New creates an Engine reading documents from source.
func New(source Source, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Engine{
		source: source,
		opts:   opts,
		logger: logger.With(zap.String("component", "search")),
	}
}

type match struct {
	path   string
	method string
	op     *openapi.Operation
}

// SearchBySummary fetches the document and returns every operation whose
// summary contains keyword, ignoring case. An empty keyword matches all
// operations. Entries follow path order, then method order. The result is
// never nil on success. Errors are logged at debug level only; reporting
// them is up to the caller.
func (e *Engine) SearchBySummary(ctx context.Context, keyword string) ([]Entry, error) {
	doc, err := e.source.Fetch(ctx)
	if err != nil {
		e.logger.Debug("search failed", zap.String("keyword", keyword), zap.Error(err))
		return nil, err
	}

	matches := filter(doc, keyword)
	r := resolve.New(doc.Registry(), e.opts.Resolve)

	entries, err := e.resolveAll(ctx, r, matches)
	if err != nil {
		e.logger.Debug("search aborted", zap.String("keyword", keyword), zap.Error(err))
		return nil, err
	}

	e.logger.Debug("search completed",
		zap.String("keyword", keyword),
		zap.Int("operations", doc.CountOperations()),
		zap.Int("matches", len(entries)),
	)
	return entries, nil
}

// filter selects the operations whose summary contains keyword.
func filter(doc *openapi.Document, keyword string) []match {
	needle := strings.ToLower(keyword)
	var matches []match
	doc.Visit(func(path, method string, op *openapi.Operation) bool {
		summary := ""
		if op != nil {
			summary = op.Summary
		}
		if strings.Contains(strings.ToLower(summary), needle) {
			matches = append(matches, match{path: path, method: method, op: op})
		}
		return true
	})
	return matches
}

func (e *Engine) resolveAll(ctx context.Context, r *resolve.Resolver, matches []match) ([]Entry, error) {
	entries := make([]Entry, len(matches))

	if e.opts.Concurrency < 2 || len(matches) < 2 {
		for i, m := range matches {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			entries[i] = newEntry(r, m)
		}
		return entries, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, m := range matches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = newEntry(r, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func newEntry(r *resolve.Resolver, m match) Entry {
	return Entry{
		Path:          m.path,
		Method:        strings.ToUpper(m.method),
		OperationView: r.Operation(m.op),
	}
}
