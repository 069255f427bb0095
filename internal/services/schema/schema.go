// Package schema publishes JSON Schemas for the wire types and the OpenAPI
// document the swagger UI renders
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"attractor/internal/core/basin"
	"attractor/internal/core/lexicon"
	perr "attractor/internal/platform/errors"
	pnet "attractor/internal/platform/net"
	"attractor/internal/services/analyze/domain"
	analyzehttp "attractor/internal/services/analyze/http"
)

// Names of the bundled schemas, in output order
var Names = []string{"record", "analyze_request", "classify_request", "classify_response", "score", "report", "profile", "envelope", "frame"}

// Bundle maps schema names to schemas
type Bundle map[string]*jsonschema.Schema

func reflectOf[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// Generate reflects every wire type
func Generate() Bundle {
	return Bundle{
		"record":            reflectOf[domain.RecordIn](),
		"analyze_request":   reflectOf[domain.AnalyzeRequest](),
		"classify_request":  reflectOf[basin.Input](),
		"classify_response": reflectOf[analyzehttp.ClassifyResponse](),
		"score":             reflectOf[domain.RecordScore](),
		"report":            reflectOf[domain.Report](),
		"profile":           reflectOf[lexicon.Profile](),
		"envelope":          reflectOf[pnet.Wire](),
		"frame":             reflectOf[pnet.Frame](),
	}
}

// JSON renders the bundle as an indented document
func (b Bundle) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode schema bundle")
	}
	return out, nil
}
