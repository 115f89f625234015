package openapi

import (
	"fmt"
	"strings"

	"github.com/pb33f/libopenapi"
)

// Summary describes a fetched document at a glance.
type Summary struct {
	Version    string `json:"openapi_version"`
	Title      string `json:"title,omitempty"`
	Paths      int    `json:"path_count"`
	Operations int    `json:"operation_count"`
	Schemas    int    `json:"schema_count"`
}

// Inspect detects the OpenAPI version of raw document bytes with libopenapi
// and counts what the search engine will see. Only 3.x documents are accepted.
func Inspect(data []byte) (*Summary, error) {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	version := doc.GetVersion()
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("unsupported OpenAPI version: %q (only 3.x supported)", version)
	}

	parsed, err := Parse(data)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Version:    version,
		Operations: parsed.CountOperations(),
		Schemas:    len(parsed.Registry()),
	}
	if parsed.Info != nil {
		summary.Title = parsed.Info.Title
	}
	if parsed.Paths != nil {
		summary.Paths = parsed.Paths.Len()
	}
	return summary, nil
}
