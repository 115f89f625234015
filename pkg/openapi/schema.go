package openapi

import (
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SchemaRefPrefix is the JSON pointer prefix of component schema references.
const SchemaRefPrefix = "#/components/schemas/"

// Kind tells which variant a schema node holds.
type Kind int

const (
	// KindAbsent is a missing schema node.
	KindAbsent Kind = iota
	// KindDirect is an inline schema with its own type and attributes.
	KindDirect
	// KindReference is a $ref pointing into the component registry.
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindReference:
		return "reference"
	default:
		return "absent"
	}
}

// Schema is a schema node as it appears in the document.
// https://spec.openapis.org/oas/v3.0.3#schema-object
//
// Only the attributes the resolver looks at are decoded into fields; all of
// them, known or not, are kept in Attributes in document order.
type Schema struct {
	Ref         string
	Type        SchemaType
	Format      string
	Description string

	// Example and Default keep the literal JSON, null included.
	Example json.RawMessage
	Default json.RawMessage
	Enum    json.RawMessage

	Items      *Schema
	Properties *orderedmap.OrderedMap[string, *Schema]
	Required   []string

	Attributes *Attributes
}

// UnmarshalJSON decodes a schema node leniently: members of an unexpected
// JSON type are dropped, and a non-object node becomes an empty schema.
func (s *Schema) UnmarshalJSON(data []byte) error {
	*s = Schema{}

	attrs, err := decodeAttributes(data)
	if err != nil {
		s.Attributes = NewAttributes()
		return nil
	}
	s.Attributes = attrs

	field(attrs, "$ref", &s.Ref)
	field(attrs, "type", &s.Type)
	field(attrs, "format", &s.Format)
	field(attrs, "description", &s.Description)
	field(attrs, "items", &s.Items)
	field(attrs, "properties", &s.Properties)
	field(attrs, "required", &s.Required)

	s.Example = rawField(attrs, "example")
	s.Default = rawField(attrs, "default")
	if enum := rawField(attrs, "enum"); !isNull(enum) {
		s.Enum = enum
	}
	return nil
}

// MarshalJSON writes the node back exactly as it was read.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s.Attributes == nil {
		return []byte("{}"), nil
	}
	return s.Attributes.MarshalJSON()
}

// Kind reports which variant the node is. A nil node is absent.
func (s *Schema) Kind() Kind {
	switch {
	case s == nil:
		return KindAbsent
	case s.Ref != "":
		return KindReference
	default:
		return KindDirect
	}
}

// RefName returns the last segment of the node's $ref, or "" for non-references.
func (s *Schema) RefName() string {
	if s.Kind() != KindReference {
		return ""
	}
	return RefName(s.Ref)
}

// IsArray reports whether the node is declared with the single type "array".
func (s *Schema) IsArray() bool {
	return s != nil && s.Type.Single() == TypeArray
}

// IsObject reports whether the node is declared with the single type "object".
func (s *Schema) IsObject() bool {
	return s != nil && s.Type.Single() == TypeObject
}

// Property returns the named property declaration, if any.
func (s *Schema) Property(name string) (*Schema, bool) {
	if s == nil || s.Properties == nil {
		return nil, false
	}
	return s.Properties.Get(name)
}

// RefName extracts the schema name from a reference such as
// "#/components/schemas/User".
func RefName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// SchemaType represents the type field which can be a single type or array of types.
type SchemaType []string

// Type constants for schema types.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeNull    = "null"
)

// NewSchemaType creates a new SchemaType from a single type string.
func NewSchemaType(t string) SchemaType {
	return SchemaType{t}
}

// Single returns the type when exactly one is declared, otherwise "".
func (s SchemaType) Single() string {
	if len(s) != 1 {
		return ""
	}
	return s[0]
}

// IsZero reports whether no usable type is declared. An empty string counts
// as no type.
func (s SchemaType) IsZero() bool {
	return len(s) == 0 || (len(s) == 1 && s[0] == "")
}

// MarshalJSON implements json.Marshaler.
// For OpenAPI 3.0 compatibility, a single type is marshaled as a string.
func (s SchemaType) MarshalJSON() ([]byte, error) {
	switch len(s) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(s[0])
	default:
		// Multiple types (OpenAPI 3.1+)
		return json.Marshal([]string(s))
	}
}

// UnmarshalJSON implements json.Unmarshaler.
// Handles both string (OpenAPI 3.0) and array (OpenAPI 3.1+) formats.
func (s *SchemaType) UnmarshalJSON(data []byte) error {
	// Try string first (OpenAPI 3.0 format)
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = SchemaType{str}
		return nil
	}

	// Try array (OpenAPI 3.1+ format)
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	*s = arr
	return nil
}
