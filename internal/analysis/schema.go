package analysis

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// batchResponseSchema checks the envelope shape of an analysis response
// before decoding. Per-candidate completeness (a usable score, a known id) is
// checked after decoding so one malformed entry drops only itself, not the
// batch.
const batchResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["results"],
  "properties": {
    "results": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["candidate_id"],
        "properties": {
          "candidate_id": {"type": "string"},
          "score": {"type": "number"},
          "priority": {"type": "string"},
          "reasoning": {"type": "string"},
          "alignments": {"type": "array", "items": {"type": "string"}},
          "gaps": {"type": "array", "items": {"type": "string"}},
          "competencies": {"type": "array", "items": {"type": "string"}},
          "skills": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

// validateBatchResponse validates a raw response document against the
// envelope schema.
func validateBatchResponse(doc string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(batchResponseSchema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to validate analysis response: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("analysis response failed schema validation: %s: %s", first.Field(), first.Description())
	}
	return nil
}
