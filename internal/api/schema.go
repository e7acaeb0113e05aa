// internal/api/schema.go
package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const analysisSchema = `{
  "type": "object",
  "properties": {
    "ai_suggestion": {"type": ["string", "null"]},
    "original_surface_area": {"type": ["number", "null"]},
    "modified_surface_area": {"type": ["number", "null"]},
    "tga_data": {"type": ["object", "array", "null"]},
    "tga_results": {"type": ["object", "null"]}
  }
}`

const followUpSchema = `{
  "type": "object",
  "required": ["ai_suggestion"],
  "properties": {
    "ai_suggestion": {"type": "string"}
  }
}`

const historySchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "timestamp": {"type": "string"},
      "user_query": {"type": ["string", "null"]},
      "ai_suggestion": {"type": ["string", "null"]}
    }
  }
}`

var (
	analysisSchemaLoader = gojsonschema.NewStringLoader(analysisSchema)
	followUpSchemaLoader = gojsonschema.NewStringLoader(followUpSchema)
	historySchemaLoader  = gojsonschema.NewStringLoader(historySchema)
)

func schemaFor(op Op) gojsonschema.JSONLoader {
	switch op {
	case OpFollowUp:
		return followUpSchemaLoader
	case OpHistory:
		return historySchemaLoader
	default:
		return analysisSchemaLoader
	}
}

// validateResponse checks a successful response body against the shape
// expected for op.
func validateResponse(op Op, body []byte) error {
	result, err := gojsonschema.Validate(schemaFor(op), gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("unexpected response shape: %s", strings.Join(details, "; "))
}
