package resolve

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/fathurrohman26/apidocs-mcp/pkg/openapi"
)

// Operation builds the display view of an operation. Parameter schemas are
// simplified shallowly; request and response schemas are resolved deeply.
func (r *Resolver) Operation(op *openapi.Operation) openapi.OperationView {
	view := openapi.OperationView{Tags: []string{}}
	if op == nil {
		return view
	}

	view.Summary = op.Summary
	view.Description = op.Description
	view.OperationID = op.OperationID
	if op.Tags != nil {
		view.Tags = op.Tags
	}

	if op.Parameters != nil {
		view.Parameters = make([]openapi.ParameterView, 0, len(op.Parameters))
		for _, p := range op.Parameters {
			if p == nil {
				continue
			}
			view.Parameters = append(view.Parameters, openapi.ParameterView{
				Name:        p.Name,
				In:          p.In,
				Description: p.Description,
				Required:    p.Required,
				Schema:      Simplify(p.Schema),
			})
		}
	}

	if op.RequestBody != nil {
		view.RequestBody = &openapi.RequestBodyView{
			Description: op.RequestBody.Description,
			Required:    op.RequestBody.Required,
			Content:     r.content(op.RequestBody.Content),
		}
	}

	if op.Responses != nil {
		view.Responses = orderedmap.New[string, openapi.ResponseView]()
		for pair := op.Responses.Oldest(); pair != nil; pair = pair.Next() {
			resp := openapi.ResponseView{}
			if pair.Value != nil {
				resp.Description = pair.Value.Description
				if pair.Value.Content != nil {
					resp.Content = r.content(pair.Value.Content)
				}
			}
			view.Responses.Set(pair.Key, resp)
		}
	}

	return view
}

// content resolves every media type's schema. The result is never nil.
func (r *Resolver) content(in *orderedmap.OrderedMap[string, *openapi.MediaType]) *orderedmap.OrderedMap[string, openapi.MediaTypeView] {
	out := orderedmap.New[string, openapi.MediaTypeView]()
	if in == nil {
		return out
	}
	for pair := in.Oldest(); pair != nil; pair = pair.Next() {
		var schema *openapi.Schema
		if pair.Value != nil {
			schema = pair.Value.Schema
		}
		out.Set(pair.Key, openapi.MediaTypeView{Schema: r.Resolve(schema)})
	}
	return out
}
