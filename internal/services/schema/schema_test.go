package schema

import (
	"encoding/json"
	"testing"

	"attractor/internal/platform/testkit"
)

func TestGenerate(t *testing.T) {
	b := Generate()
	if len(b) != len(Names) {
		t.Fatalf("bundle has %d schemas, want %d", len(b), len(Names))
	}
	for _, n := range Names {
		if b[n] == nil {
			t.Fatalf("missing schema %s", n)
		}
	}

	rec := b["record"]
	if len(rec.Required) != 1 || rec.Required[0] != "text" {
		t.Fatalf("record required = %v", rec.Required)
	}
	for _, prop := range []string{"text", "timestamp", "hour", "group_label", "reasoning_effort", "model_name"} {
		if _, ok := rec.Properties.Get(prop); !ok {
			t.Fatalf("record schema lacks %s", prop)
		}
	}

	raw, err := b.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	testkit.MustContain(t, string(raw), `"basin_label"`)
	testkit.MustContain(t, string(raw), `"counting_mode"`)
}

func TestOpenAPI(t *testing.T) {
	raw, err := OpenAPI("attractor-api")
	if err != nil {
		t.Fatalf("OpenAPI: %v", err)
	}
	var doc struct {
		OpenAPI    string                               `json:"openapi"`
		Paths      map[string]map[string]map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.OpenAPI != "3.1.0" || len(doc.Components.Schemas) != len(Names) {
		t.Fatalf("doc = %s components=%d", doc.OpenAPI, len(doc.Components.Schemas))
	}
	for path, method := range map[string]string{"/analyze": "post", "/score": "post", "/profile": "get", "/score/stream": "get", "/health": "get"} {
		if doc.Paths[path][method] == nil {
			t.Fatalf("missing %s %s", method, path)
		}
	}
	if _, ok := doc.Paths["/analyze"]["post"]["requestBody"]; !ok {
		t.Fatalf("analyze has no request body")
	}
}
