// Package openapi holds the ordered document model the search engine works on
// and the simplified views it produces.
package openapi

import (
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Document is the subset of an OpenAPI 3 document needed to search operations
// and resolve their schemas. Paths and operations keep document order.
// https://spec.openapis.org/oas/v3.0.3#openapi-object
type Document struct {
	OpenAPI    string                                    `json:"openapi,omitempty"`
	Info       *Info                                     `json:"info,omitempty"`
	Paths      *orderedmap.OrderedMap[string, *PathItem] `json:"paths,omitempty"`
	Components *Components                               `json:"components,omitempty"`
}

// Info provides metadata about the API.
type Info struct {
	Title       string `json:"title,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// Components holds the reusable schema registry.
type Components struct {
	Schemas *orderedmap.OrderedMap[string, *Schema] `json:"schemas,omitempty"`
}

// Registry maps component schema names to their definitions.
type Registry map[string]*Schema

// Lookup returns the definition registered under name.
func (r Registry) Lookup(name string) (*Schema, bool) {
	s, ok := r[name]
	return s, ok && s != nil
}

// Parse decodes a JSON OpenAPI document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse api docs: %w", err)
	}
	return &doc, nil
}

// Registry returns the component schemas keyed by name. It is empty, never
// nil, when the document declares none.
func (d *Document) Registry() Registry {
	reg := make(Registry)
	if d == nil || d.Components == nil || d.Components.Schemas == nil {
		return reg
	}
	for pair := d.Components.Schemas.Oldest(); pair != nil; pair = pair.Next() {
		reg[pair.Key] = pair.Value
	}
	return reg
}

// Visit calls fn for every operation in path order, then method order within
// a path. Iteration stops early when fn returns false.
func (d *Document) Visit(fn func(path, method string, op *Operation) bool) {
	if d == nil || d.Paths == nil {
		return
	}
	for pair := d.Paths.Oldest(); pair != nil; pair = pair.Next() {
		item := pair.Value
		if item == nil || item.Operations == nil {
			continue
		}
		for op := item.Operations.Oldest(); op != nil; op = op.Next() {
			if !fn(pair.Key, op.Key, op.Value) {
				return
			}
		}
	}
}

// CountOperations returns the number of operations across all paths.
func (d *Document) CountOperations() int {
	count := 0
	d.Visit(func(string, string, *Operation) bool {
		count++
		return true
	})
	return count
}

// httpMethods are the path item members that hold operations.
var httpMethods = map[string]bool{
	"get":     true,
	"put":     true,
	"post":    true,
	"delete":  true,
	"options": true,
	"head":    true,
	"patch":   true,
	"trace":   true,
	"query":   true, // OpenAPI 3.2
}

// IsHTTPMethod reports whether a path item member name is an operation.
func IsHTTPMethod(name string) bool {
	return httpMethods[strings.ToLower(name)]
}

// PathItem holds the operations of a single path, keyed by method name as
// written in the document.
// https://spec.openapis.org/oas/v3.0.3#path-item-object
type PathItem struct {
	Operations *orderedmap.OrderedMap[string, *Operation]
}

// UnmarshalJSON keeps only the HTTP method members of a path item; shared
// members such as "parameters" or "servers" are not operations.
func (p *PathItem) UnmarshalJSON(data []byte) error {
	p.Operations = orderedmap.New[string, *Operation]()

	attrs, err := decodeAttributes(data)
	if err != nil {
		return nil
	}
	for pair := attrs.Oldest(); pair != nil; pair = pair.Next() {
		if !IsHTTPMethod(pair.Key) || !isObject(pair.Value) {
			continue
		}
		var op Operation
		if err := json.Unmarshal(pair.Value, &op); err != nil {
			continue
		}
		p.Operations.Set(pair.Key, &op)
	}
	return nil
}

// Operation describes a single API operation on a path.
// https://spec.openapis.org/oas/v3.0.3#operation-object
type Operation struct {
	Summary     string
	Description string
	OperationID string
	Tags        []string
	Parameters  []*Parameter // nil when not declared
	RequestBody *RequestBody
	Responses   *orderedmap.OrderedMap[string, *Response]
}

// UnmarshalJSON decodes an operation leniently.
func (o *Operation) UnmarshalJSON(data []byte) error {
	*o = Operation{}

	attrs, err := decodeAttributes(data)
	if err != nil {
		return nil
	}
	field(attrs, "summary", &o.Summary)
	field(attrs, "description", &o.Description)
	field(attrs, "operationId", &o.OperationID)
	field(attrs, "tags", &o.Tags)
	field(attrs, "requestBody", &o.RequestBody)
	field(attrs, "responses", &o.Responses)

	var params []json.RawMessage
	if field(attrs, "parameters", &params) {
		o.Parameters = make([]*Parameter, 0, len(params))
		for _, raw := range params {
			var param Parameter
			if err := json.Unmarshal(raw, &param); err != nil {
				continue
			}
			o.Parameters = append(o.Parameters, &param)
		}
	}
	return nil
}

// Parameter describes a single operation parameter.
// https://spec.openapis.org/oas/v3.0.3#parameter-object
type Parameter struct {
	Name        string
	In          string
	Description string
	Required    bool // any truthy JSON value
	Schema      *Schema
}

// UnmarshalJSON decodes a parameter leniently.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	*p = Parameter{}

	attrs, err := decodeAttributes(data)
	if err != nil {
		return nil
	}
	field(attrs, "name", &p.Name)
	field(attrs, "in", &p.In)
	field(attrs, "description", &p.Description)
	p.Required = Truthy(rawField(attrs, "required"))
	field(attrs, "schema", &p.Schema)
	return nil
}

// RequestBody describes a single request body.
// https://spec.openapis.org/oas/v3.0.3#request-body-object
type RequestBody struct {
	Description string
	Required    bool
	Content     *orderedmap.OrderedMap[string, *MediaType]
}

// UnmarshalJSON decodes a request body leniently.
func (r *RequestBody) UnmarshalJSON(data []byte) error {
	*r = RequestBody{}

	attrs, err := decodeAttributes(data)
	if err != nil {
		return nil
	}
	field(attrs, "description", &r.Description)
	r.Required = Truthy(rawField(attrs, "required"))
	field(attrs, "content", &r.Content)
	return nil
}

// Response describes a single response from an API operation.
// https://spec.openapis.org/oas/v3.0.3#response-object
type Response struct {
	Description string
	Content     *orderedmap.OrderedMap[string, *MediaType]
}

// UnmarshalJSON decodes a response leniently.
func (r *Response) UnmarshalJSON(data []byte) error {
	*r = Response{}

	attrs, err := decodeAttributes(data)
	if err != nil {
		return nil
	}
	field(attrs, "description", &r.Description)
	field(attrs, "content", &r.Content)
	return nil
}

// MediaType provides the schema for one content type.
// https://spec.openapis.org/oas/v3.0.3#media-type-object
type MediaType struct {
	Schema *Schema
}

// UnmarshalJSON decodes a media type leniently.
func (m *MediaType) UnmarshalJSON(data []byte) error {
	*m = MediaType{}

	attrs, err := decodeAttributes(data)
	if err != nil {
		return nil
	}
	field(attrs, "schema", &m.Schema)
	return nil
}
