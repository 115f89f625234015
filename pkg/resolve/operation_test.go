package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathurrohman26/apidocs-mcp/pkg/openapi"
)

func operationFrom(t *testing.T, raw string) *openapi.Operation {
	t.Helper()
	var op openapi.Operation
	require.NoError(t, op.UnmarshalJSON([]byte(raw)))
	return &op
}

func TestOperation_Full(t *testing.T) {
	r := newResolver(t, DefaultOptions())

	view := r.Operation(operationFrom(t, `{
		"summary": "获取用户",
		"operationId": "getUser",
		"tags": ["用户管理"],
		"parameters": [
			{"name": "id", "in": "path", "required": true, "schema": {"$ref": "#/components/schemas/User"}}
		],
		"responses": {
			"200": {
				"description": "OK",
				"content": {"*/*": {"schema": {"$ref": "#/components/schemas/CommonResultUser"}}}
			},
			"404": {"description": "missing"}
		}
	}`))

	assert.Equal(t, "获取用户", view.Summary)
	assert.Equal(t, "getUser", view.OperationID)
	assert.Equal(t, []string{"用户管理"}, view.Tags)
	assert.Nil(t, view.RequestBody)

	require.Len(t, view.Parameters, 1)
	assert.Equal(t, "id", view.Parameters[0].Name)
	assert.True(t, view.Parameters[0].Required)
	assert.Equal(t, `{}`, marshal(t, view.Parameters[0].Schema), "parameter schemas are never resolved")

	ok200, ok := view.Responses.Get("200")
	require.True(t, ok)
	media, ok := ok200.Content.Get("*/*")
	require.True(t, ok)
	assert.True(t, media.Schema.IsCommonResult)

	notFound, ok := view.Responses.Get("404")
	require.True(t, ok)
	assert.Nil(t, notFound.Content)
	assert.Equal(t, `{"description":"missing"}`, marshal(t, notFound))
}

func TestOperation_RequestBodyContentAlwaysPresent(t *testing.T) {
	r := newResolver(t, DefaultOptions())

	view := r.Operation(operationFrom(t, `{"summary": "s", "requestBody": {"description": "body"}}`))
	require.NotNil(t, view.RequestBody)
	assert.Equal(t,
		`{"summary":"s","description":"","operationId":"","tags":[],"requestBody":{"description":"body","required":false,"content":{}}}`,
		marshal(t, view))
}

func TestOperation_RequestBodyResolved(t *testing.T) {
	r := newResolver(t, DefaultOptions())

	view := r.Operation(operationFrom(t, `{
		"requestBody": {
			"required": true,
			"content": {
				"application/json": {"schema": {"$ref": "#/components/schemas/User"}},
				"text/plain": {}
			}
		}
	}`))

	require.NotNil(t, view.RequestBody)
	assert.True(t, view.RequestBody.Required)

	keys := []string{}
	for pair := view.RequestBody.Content.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"application/json", "text/plain"}, keys)

	jsonBody, _ := view.RequestBody.Content.Get("application/json")
	assert.Equal(t, "User's data structure", jsonBody.Schema.Description)

	plain, _ := view.RequestBody.Content.Get("text/plain")
	assert.Equal(t, `{"schema":{}}`, marshal(t, plain))
}

func TestOperation_EmptyParametersAreKept(t *testing.T) {
	r := newResolver(t, DefaultOptions())

	view := r.Operation(operationFrom(t, `{"summary": "s", "parameters": []}`))
	assert.Equal(t,
		`{"summary":"s","description":"","operationId":"","tags":[],"parameters":[]}`,
		marshal(t, view))

	view = r.Operation(operationFrom(t, `{"summary": "s"}`))
	assert.Nil(t, view.Parameters)
}

func TestOperation_RequiredIsCoerced(t *testing.T) {
	r := newResolver(t, DefaultOptions())

	view := r.Operation(operationFrom(t, `{
		"parameters": [
			{"name": "a", "required": "true"},
			{"name": "b", "required": 1},
			{"name": "c", "required": 0},
			{"name": "d", "required": ""},
			{"name": "e"}
		],
		"requestBody": {"required": "yes"}
	}`))

	require.Len(t, view.Parameters, 5)
	got := map[string]bool{}
	for _, p := range view.Parameters {
		got[p.Name] = p.Required
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": false, "d": false, "e": false}, got)

	require.NotNil(t, view.RequestBody)
	assert.True(t, view.RequestBody.Required)
}

func TestOperation_Nil(t *testing.T) {
	view := New(nil, DefaultOptions()).Operation(nil)
	assert.Equal(t, []string{}, view.Tags)
	assert.Nil(t, view.Responses)
}
