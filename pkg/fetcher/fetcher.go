// Package fetcher retrieves the remote OpenAPI aggregate document.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fathurrohman26/apidocs-mcp/pkg/openapi"
)

// Defaults used when no configuration is supplied.
const (
	DefaultURL     = "http://localhost:8080/v3/api-docs/all"
	DefaultTimeout = 30000 * time.Millisecond
)

// ErrUnexpectedStatus is wrapped by FetchError when the endpoint answers
// with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// FetchError reports a failed document retrieval.
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch api docs from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config configures the document endpoint.
type Config struct {
	URL     string
	Timeout time.Duration
	// Client overrides the HTTP client, mostly for tests.
	Client *http.Client
}

// Fetcher performs single-attempt GETs against the document endpoint.
type Fetcher struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// New creates a Fetcher. Empty settings fall back to DefaultURL and
// DefaultTimeout; a nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		client:  cfg.Client,
		logger:  logger.With(zap.String("component", "fetcher")),
	}
}

// URL returns the endpoint the fetcher reads from.
func (f *Fetcher) URL() string {
	return f.url
}

// FetchRaw downloads the document body. The configured timeout bounds the
// whole exchange, body included.
func (f *Fetcher) FetchRaw(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{
			URL:        f.url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: f.url, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	f.logger.Debug("api docs fetched",
		zap.String("url", f.url),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

// Fetch downloads and decodes the document. A body that is not a JSON
// document is reported as a FetchError as well.
func (f *Fetcher) Fetch(ctx context.Context) (*openapi.Document, error) {
	data, err := f.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := openapi.Parse(data)
	if err != nil {
		return nil, &FetchError{URL: f.url, StatusCode: http.StatusOK, Err: err}
	}
	return doc, nil
}
