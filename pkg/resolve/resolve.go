// Package resolve turns OpenAPI schema nodes into bounded, simplified views.
//
// Two strategies exist. Simplify is shallow: it copies a node's primitive
// attributes and never follows $ref. Resolver.Resolve is deep: it follows
// references into the component registry with these rules, in order:
//
//  1. A reference is replaced by its definition. Ordinary definitions expose
//     their properties verbatim, with nested references reduced to a refName.
//     Envelope definitions (name starts with the envelope prefix) expose code
//     and msg shallowly and resolve data one level further.
//  2. An array with items resolves its items.
//  3. An object with properties simplifies each property shallowly.
//  4. Anything else is simplified shallowly.
//
// Rules 1 and 2 recurse; recursion stops at the configured maximum depth.
package resolve

import (
	"encoding/json"
	"strings"

	"github.com/fathurrohman26/apidocs-mcp/pkg/openapi"
)

// Defaults for Options.
const (
	DefaultEnvelopePrefix = "CommonResult"
	DefaultMaxDepth       = 32
)

// Options tune the deep resolver.
type Options struct {
	// EnvelopePrefix marks generic response wrappers such as
	// CommonResultUser. An empty prefix disables envelope handling.
	EnvelopePrefix string
	// MaxDepth bounds reference and array recursion. Values <= 0 use
	// DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		EnvelopePrefix: DefaultEnvelopePrefix,
		MaxDepth:       DefaultMaxDepth,
	}
}

// Resolver resolves schema nodes against one document's registry. It holds
// no mutable state and is safe for concurrent use.
type Resolver struct {
	schemas        openapi.Registry
	envelopePrefix string
	maxDepth       int
}

// New creates a Resolver over schemas.
func New(schemas openapi.Registry, opts Options) *Resolver {
	if schemas == nil {
		schemas = openapi.Registry{}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Resolver{
		schemas:        schemas,
		envelopePrefix: opts.EnvelopePrefix,
		maxDepth:       opts.MaxDepth,
	}
}

// Simplify keeps type, format, description, example, default and enum of a
// node. It never follows $ref and never fills properties or items. A nil
// node yields an empty schema.
func Simplify(s *openapi.Schema) *openapi.SimplifiedSchema {
	out := &openapi.SimplifiedSchema{}
	if s == nil {
		return out
	}
	out.Type = s.Type
	out.Format = s.Format
	out.Description = s.Description
	out.Example = s.Example
	out.Default = s.Default
	out.Enum = s.Enum
	return out
}

// Resolve produces the deep, reference-resolved view of a node.
func (r *Resolver) Resolve(s *openapi.Schema) *openapi.SimplifiedSchema {
	return r.resolve(s, 0)
}

func (r *Resolver) resolve(s *openapi.Schema, depth int) *openapi.SimplifiedSchema {
	if depth > r.maxDepth {
		if s.Kind() == openapi.KindReference {
			return &openapi.SimplifiedSchema{
				Type:        openapi.NewSchemaType(openapi.TypeObject),
				Description: "resolution depth exceeded: " + s.Ref,
			}
		}
		return Simplify(s)
	}

	switch {
	case s.Kind() == openapi.KindReference:
		return r.resolveRef(s, depth)
	case s.IsArray() && s.Items != nil:
		return &openapi.SimplifiedSchema{
			Type:  openapi.NewSchemaType(openapi.TypeArray),
			Items: r.resolve(s.Items, depth+1),
		}
	case s.IsObject() && s.Properties != nil:
		return simplifyObject(s)
	default:
		return Simplify(s)
	}
}

// simplifyObject handles an inline object: its properties are simplified
// shallowly, so references below it are not followed.
func simplifyObject(s *openapi.Schema) *openapi.SimplifiedSchema {
	out := &openapi.SimplifiedSchema{
		Type:       openapi.NewSchemaType(openapi.TypeObject),
		Properties: openapi.NewProperties(),
		Required:   s.Required,
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		out.Properties.Set(pair.Key, openapi.SimplifiedProperty(Simplify(pair.Value)))
	}
	return out
}

func (r *Resolver) resolveRef(s *openapi.Schema, depth int) *openapi.SimplifiedSchema {
	name := s.RefName()
	def, ok := r.schemas.Lookup(name)
	if !ok {
		return &openapi.SimplifiedSchema{
			Type:        openapi.NewSchemaType(openapi.TypeObject),
			Description: "reference not found: " + s.Ref,
		}
	}

	out := &openapi.SimplifiedSchema{
		Type:        def.Type,
		Description: def.Description,
		Properties:  openapi.NewProperties(),
	}
	if out.Type.IsZero() {
		out.Type = openapi.NewSchemaType(openapi.TypeObject)
	}
	if out.Description == "" {
		out.Description = name + "'s data structure"
	}

	if r.isEnvelope(name) {
		out.IsCommonResult = true
		r.resolveEnvelope(def, out, depth)
	} else {
		exposeProperties(def, out)
	}

	if def.Required != nil {
		out.Required = def.Required
	}
	return out
}

func (r *Resolver) isEnvelope(name string) bool {
	return r.envelopePrefix != "" && strings.HasPrefix(name, r.envelopePrefix)
}

// resolveEnvelope fills the code, msg and data members of a response
// wrapper. code and msg are always present once the wrapper declares
// properties, even when they are not declared themselves.
func (r *Resolver) resolveEnvelope(def *openapi.Schema, out *openapi.SimplifiedSchema, depth int) {
	if def.Properties == nil {
		return
	}

	code, _ := def.Property("code")
	out.Properties.Set("code", openapi.SimplifiedProperty(Simplify(code)))
	msg, _ := def.Property("msg")
	out.Properties.Set("msg", openapi.SimplifiedProperty(Simplify(msg)))

	data, ok := def.Property("data")
	if !ok || data == nil {
		return
	}

	var resolved *openapi.SimplifiedSchema
	switch {
	case data.Kind() == openapi.KindReference:
		resolved = r.resolve(data, depth+1)
	case data.IsArray() && data.Items.Kind() == openapi.KindReference:
		resolved = &openapi.SimplifiedSchema{
			Type:  openapi.NewSchemaType(openapi.TypeArray),
			Items: r.resolve(data.Items, depth+1),
		}
	default:
		resolved = Simplify(data)
	}
	out.Properties.Set("data", openapi.SimplifiedProperty(resolved))
}

// exposeProperties copies each declared property verbatim, one level deep.
// Referenced properties get a refName and are not expanded.
func exposeProperties(def *openapi.Schema, out *openapi.SimplifiedSchema) {
	if def.Properties == nil {
		return
	}
	for pair := def.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := pair.Value
		attrs := copyAttributes(prop)

		if desc, ok := attrs.Get("description"); !ok || !openapi.Truthy(desc) {
			attrs.Set("description", quote(pair.Key+" field"))
		}
		if prop.Kind() == openapi.KindReference {
			attrs.Set("refName", quote(prop.RefName()))
		}
		out.Properties.Set(pair.Key, openapi.VerbatimProperty(attrs))
	}
}

func copyAttributes(s *openapi.Schema) *openapi.Attributes {
	attrs := openapi.NewAttributes()
	if s == nil || s.Attributes == nil {
		return attrs
	}
	for pair := s.Attributes.Oldest(); pair != nil; pair = pair.Next() {
		attrs.Set(pair.Key, pair.Value)
	}
	return attrs
}

func quote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
