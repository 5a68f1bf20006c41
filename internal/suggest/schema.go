// internal/suggest/schema.go
package suggest

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// cardArraySchema is the strict contract a provider's completion must meet:
// a JSON array of card objects, each with a title and description. Tags may
// be an array or a delimited string; the normalizer sorts that out.
var cardArraySchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type":     "object",
		"required": []string{"title", "description"},
		"properties": map[string]interface{}{
			"title":          map[string]interface{}{"type": "string"},
			"description":    map[string]interface{}{"type": "string"},
			"vibeTags":       map[string]interface{}{"type": []string{"array", "string"}},
			"navigationLink": map[string]interface{}{"type": []string{"string", "null"}},
		},
	},
}

func validateCardArray(raw string) error {
	schemaLoader := gojsonschema.NewGoLoader(cardArraySchema)
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("card array validation failed: %v", errs)
	}

	return nil
}
