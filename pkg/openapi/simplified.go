package openapi

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SimplifiedSchema is the flattened, bounded view of a schema node used for
// display. Field order matches the order keys are emitted in.
type SimplifiedSchema struct {
	Type           SchemaType                                `json:"type,omitempty"`
	Format         string                                    `json:"format,omitempty"`
	Description    string                                    `json:"description,omitempty"`
	Example        json.RawMessage                           `json:"example,omitempty"`
	Default        json.RawMessage                           `json:"default,omitempty"`
	Enum           json.RawMessage                           `json:"enum,omitempty"`
	Properties     *orderedmap.OrderedMap[string, *Property] `json:"properties,omitempty"`
	Items          *SimplifiedSchema                         `json:"items,omitempty"`
	IsCommonResult bool                                      `json:"isCommonResult,omitempty"`
	Required       []string                                  `json:"required,omitzero"`
}

// NewProperties creates an empty, ordered property set.
func NewProperties() *orderedmap.OrderedMap[string, *Property] {
	return orderedmap.New[string, *Property]()
}

// Property is one entry of a simplified schema's properties. It holds either
// a nested simplified schema or the declaration's attributes copied verbatim.
type Property struct {
	Schema     *SimplifiedSchema
	Attributes *Attributes
}

// SimplifiedProperty wraps a simplified schema as a property.
func SimplifiedProperty(s *SimplifiedSchema) *Property {
	return &Property{Schema: s}
}

// VerbatimProperty wraps raw declaration attributes as a property.
func VerbatimProperty(attrs *Attributes) *Property {
	return &Property{Attributes: attrs}
}

// IsVerbatim reports whether the property carries raw attributes.
func (p *Property) IsVerbatim() bool {
	return p != nil && p.Attributes != nil
}

// Attribute decodes one verbatim attribute into dst.
func (p *Property) Attribute(key string, dst any) bool {
	if !p.IsVerbatim() {
		return false
	}
	return field(p.Attributes, key, dst)
}

// MarshalJSON emits whichever variant the property holds.
func (p *Property) MarshalJSON() ([]byte, error) {
	switch {
	case p == nil:
		return []byte("{}"), nil
	case p.Attributes != nil:
		return p.Attributes.MarshalJSON()
	case p.Schema != nil:
		return json.Marshal(p.Schema)
	default:
		return []byte("{}"), nil
	}
}

// ParameterView is the flattened form of an operation parameter.
type ParameterView struct {
	Name        string            `json:"name"`
	In          string            `json:"in"`
	Description string            `json:"description"`
	Required    bool              `json:"required"`
	Schema      *SimplifiedSchema `json:"schema"`
}

// MediaTypeView carries the resolved schema of one content type.
type MediaTypeView struct {
	Schema *SimplifiedSchema `json:"schema"`
}

// RequestBodyView is the flattened form of a request body.
type RequestBodyView struct {
	Description string                                        `json:"description"`
	Required    bool                                          `json:"required"`
	Content     *orderedmap.OrderedMap[string, MediaTypeView] `json:"content"`
}

// ResponseView is the flattened form of one response.
type ResponseView struct {
	Description string                                        `json:"description"`
	Content     *orderedmap.OrderedMap[string, MediaTypeView] `json:"content,omitempty"`
}

// OperationView is an operation with every schema simplified.
type OperationView struct {
	Summary     string                                       `json:"summary"`
	Description string                                       `json:"description"`
	OperationID string                                       `json:"operationId"`
	Tags        []string                                     `json:"tags"`
	Parameters  []ParameterView                              `json:"parameters,omitzero"`
	RequestBody *RequestBodyView                             `json:"requestBody,omitempty"`
	Responses   *orderedmap.OrderedMap[string, ResponseView] `json:"responses,omitempty"`
}
