package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderedDoc = `{
	"openapi": "3.0.1",
	"info": {"title": "Test API", "version": "1.0.0"},
	"paths": {
		"/z/last-declared-first": {
			"post": {"summary": "create z"},
			"get": {"summary": "list z"}
		},
		"/a": {
			"parameters": [{"name": "shared", "in": "query"}],
			"summary": "path level summary",
			"delete": {"summary": "delete a", "tags": ["a"]}
		}
	},
	"components": {
		"schemas": {
			"User": {"type": "object", "properties": {"id": {"type": "integer"}}}
		}
	}
}`

func TestParse_PreservesDocumentOrder(t *testing.T) {
	doc, err := Parse([]byte(orderedDoc))
	require.NoError(t, err)

	var visited []string
	doc.Visit(func(path, method string, op *Operation) bool {
		visited = append(visited, method+" "+path+" "+op.Summary)
		return true
	})

	assert.Equal(t, []string{
		"post /z/last-declared-first create z",
		"get /z/last-declared-first list z",
		"delete /a delete a",
	}, visited)
	assert.Equal(t, 3, doc.CountOperations())
}

func TestParse_VisitStopsEarly(t *testing.T) {
	doc, err := Parse([]byte(orderedDoc))
	require.NoError(t, err)

	calls := 0
	doc.Visit(func(string, string, *Operation) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestParse_LenientFields(t *testing.T) {
	doc, err := Parse([]byte(`{
		"paths": {
			"/broken": {
				"get": {
					"summary": 42,
					"tags": "not-a-list",
					"parameters": [{"name": "id", "in": "path", "required": "yes"}, 7],
					"responses": {"200": {"description": "OK"}}
				}
			}
		}
	}`))
	require.NoError(t, err)

	var op *Operation
	doc.Visit(func(_, _ string, o *Operation) bool {
		op = o
		return false
	})
	require.NotNil(t, op)
	assert.Empty(t, op.Summary)
	assert.Nil(t, op.Tags)
	require.Len(t, op.Parameters, 2)
	assert.Equal(t, "id", op.Parameters[0].Name)
	assert.True(t, op.Parameters[0].Required)
	assert.Empty(t, op.Parameters[1].Name)

	resp, ok := op.Responses.Get("200")
	require.True(t, ok)
	assert.Equal(t, "OK", resp.Description)
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", false},
		{`null`, false},
		{`false`, false},
		{`""`, false},
		{`0`, false},
		{`0.0`, false},
		{`-0`, false},
		{`0e0`, false},
		{` 0 `, false},
		{`true`, true},
		{`"x"`, true},
		{`"0"`, true},
		{`1`, true},
		{`-0.5`, true},
		{`1e400`, true},
		{`{}`, true},
		{`[]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(json.RawMessage(tt.raw)))
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"paths":`))
	assert.Error(t, err)
}

func TestDocument_RegistryEmptyWhenAbsent(t *testing.T) {
	doc, err := Parse([]byte(`{"openapi": "3.0.0"}`))
	require.NoError(t, err)

	reg := doc.Registry()
	require.NotNil(t, reg)
	assert.Empty(t, reg)

	_, ok := reg.Lookup("User")
	assert.False(t, ok)
}

func TestSchema_Kind(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Kind
	}{
		{"reference", `{"$ref": "#/components/schemas/User"}`, KindReference},
		{"direct", `{"type": "string"}`, KindDirect},
		{"empty object", `{}`, KindDirect},
		{"non-string ref is ignored", `{"$ref": 1, "type": "integer"}`, KindDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s *Schema
			require.NoError(t, json.Unmarshal([]byte(tt.json), &s))
			assert.Equal(t, tt.want, s.Kind())
		})
	}

	var absent *Schema
	assert.Equal(t, KindAbsent, absent.Kind())
	assert.Equal(t, "absent", absent.Kind().String())
}

func TestSchema_KeepsAttributesVerbatim(t *testing.T) {
	raw := `{"type":"string","maxLength":32,"x-internal":true,"example":null}`

	var s Schema
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, "null", string(s.Example))
	assert.Nil(t, s.Default)

	out, err := json.Marshal(&s)
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

func TestSchema_NestedProperties(t *testing.T) {
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(`{
		"type": "object",
		"required": ["b"],
		"properties": {
			"b": {"type": "string"},
			"a": {"type": "array", "items": {"$ref": "#/components/schemas/Tag"}}
		}
	}`), &s))

	assert.True(t, s.IsObject())
	assert.Equal(t, []string{"b"}, s.Required)
	assert.Equal(t, "b", s.Properties.Oldest().Key)

	a, ok := s.Property("a")
	require.True(t, ok)
	assert.True(t, a.IsArray())
	assert.Equal(t, "Tag", a.Items.RefName())
}

func TestRefName(t *testing.T) {
	assert.Equal(t, "User", RefName("#/components/schemas/User"))
	assert.Equal(t, "User", RefName("User"))
	assert.Equal(t, "", RefName("#/components/schemas/"))
}

func TestSchemaType_JSON(t *testing.T) {
	tests := []struct {
		in     string
		single string
		out    string
	}{
		{`"string"`, "string", `"string"`},
		{`["string","null"]`, "", `["string","null"]`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var st SchemaType
			require.NoError(t, json.Unmarshal([]byte(tt.in), &st))
			assert.Equal(t, tt.single, st.Single())

			out, err := json.Marshal(st)
			require.NoError(t, err)
			assert.Equal(t, tt.out, string(out))
		})
	}

	assert.True(t, SchemaType{}.IsZero())
	assert.True(t, NewSchemaType("").IsZero())
	assert.False(t, NewSchemaType(TypeObject).IsZero())
}

func TestProperty_MarshalJSON(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("type", json.RawMessage(`"integer"`))
	attrs.Set("format", json.RawMessage(`"int64"`))

	out, err := json.Marshal(VerbatimProperty(attrs))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"integer","format":"int64"}`, string(out))

	out, err = json.Marshal(SimplifiedProperty(&SimplifiedSchema{Type: NewSchemaType(TypeString)}))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"string"}`, string(out))

	var format string
	assert.True(t, VerbatimProperty(attrs).Attribute("format", &format))
	assert.Equal(t, "int64", format)
}

func TestSimplifiedSchema_KeyOrder(t *testing.T) {
	props := NewProperties()
	props.Set("code", SimplifiedProperty(&SimplifiedSchema{Type: NewSchemaType(TypeInteger)}))

	s := &SimplifiedSchema{
		Type:           NewSchemaType(TypeObject),
		Description:    "wrapper",
		Properties:     props,
		IsCommonResult: true,
		Required:       []string{"code"},
	}

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"object","description":"wrapper","properties":{"code":{"type":"integer"}},"isCommonResult":true,"required":["code"]}`,
		string(out))

	empty, err := json.Marshal(&SimplifiedSchema{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestInspect(t *testing.T) {
	summary, err := Inspect([]byte(orderedDoc))
	require.NoError(t, err)

	assert.Equal(t, "3.0.1", summary.Version)
	assert.Equal(t, "Test API", summary.Title)
	assert.Equal(t, 2, summary.Paths)
	assert.Equal(t, 3, summary.Operations)
	assert.Equal(t, 1, summary.Schemas)
}

func TestInspect_RejectsSwagger2(t *testing.T) {
	_, err := Inspect([]byte(`{"swagger": "2.0", "info": {"title": "Old", "version": "1"}, "paths": {}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported OpenAPI version")
}
