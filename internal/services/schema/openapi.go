package schema

import (
	"encoding/json"

	"attractor/internal/core/version"
	perr "attractor/internal/platform/errors"
)

type op struct {
	method, path, summary, tag string
	in, out                    string // component names; empty = none
}

var ops = []op{
	{"get", "/health", "Liveness and uptime", "meta", "", ""},
	{"get", "/ready", "Sink backend readiness", "meta", "", ""},
	{"get", "/version", "Build info", "meta", "", ""},
	{"get", "/modules", "Mounted modules", "meta", "", ""},
	{"get", "/profile", "Active lexicon profile", "analyze", "", "profile"},
	{"post", "/score", "Score one record", "analyze", "record", "score"},
	{"post", "/classify", "Classify aggregate densities into a basin", "analyze", "classify_request", "classify_response"},
	{"post", "/analyze", "Analyze a batch of records", "analyze", "analyze_request", "report"},
	{"get", "/schema", "JSON Schema bundle", "schema", "", ""},
}

// OpenAPI builds an OpenAPI 3.1 document for the /v1 routes. Component schemas
// come from Generate, so the document never drifts from the wire types
func OpenAPI(service string) ([]byte, error) {
	b := Generate()
	components := map[string]any{}
	for _, name := range Names {
		components[name] = b[name]
	}

	paths := map[string]map[string]any{}
	for _, o := range ops {
		data := map[string]any{}
		if o.out != "" {
			data = map[string]any{"$ref": "#/components/schemas/" + o.out}
		}
		item := map[string]any{
			"summary": o.summary,
			"tags":    []string{o.tag},
			"responses": map[string]any{
				"200": jsonContent("ok", map[string]any{
					"allOf": []any{
						map[string]any{"$ref": "#/components/schemas/envelope"},
						map[string]any{"properties": map[string]any{"data": data}},
					},
				}),
				"default": jsonContent("error envelope", map[string]any{"$ref": "#/components/schemas/envelope"}),
			},
		}
		if o.in != "" {
			item["requestBody"] = map[string]any{
				"required": o.path != "/analyze",
				"content": map[string]any{
					"application/json": map[string]any{"schema": map[string]any{"$ref": "#/components/schemas/" + o.in}},
				},
			}
		}
		if paths[o.path] == nil {
			paths[o.path] = map[string]any{}
		}
		paths[o.path][o.method] = item
	}
	paths["/score/stream"] = map[string]any{"get": map[string]any{
		"summary":     "Websocket: each text frame (raw text or a record object) is answered with one frame",
		"tags":        []string{"analyze"},
		"responses":   map[string]any{"101": jsonContent("switching protocols; frames follow", map[string]any{"$ref": "#/components/schemas/frame"})},
		"description": "Upgrade to a websocket. Replies carry seq, kind (result or error) and the envelope fields.",
	}}

	info := version.Info(service)
	doc := map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   "attractor API",
			"version": info.Version,
		},
		"servers":    []any{map[string]any{"url": "/v1"}},
		"paths":      paths,
		"components": map[string]any{"schemas": components},
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode openapi document")
	}
	return out, nil
}

func jsonContent(desc string, schema any) map[string]any {
	return map[string]any{
		"description": desc,
		"content":     map[string]any{"application/json": map[string]any{"schema": schema}},
	}
}
