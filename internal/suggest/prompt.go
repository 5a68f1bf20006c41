// internal/suggest/prompt.go
package suggest

import (
	"fmt"
	"strings"

	"suggestion-engine/internal/models"
)

// maxPromptGeoItems bounds the geo excerpt embedded in the prompt so a
// dense neighborhood cannot blow up token usage.
const maxPromptGeoItems = 12

// GenerationInput carries everything a provider needs to produce cards.
type GenerationInput struct {
	Lat     float64
	Lng     float64
	Mood    string
	Weather *models.Weather
	GeoData []models.GeoDatum
}

func buildPrompt(tenantID string, input GenerationInput) string {
	var parts []string

	parts = append(parts, "You are a local experience curator. Suggest spontaneous activities near the given point.")
	parts = append(parts, fmt.Sprintf("\nLocation: %.4f, %.4f", input.Lat, input.Lng))
	parts = append(parts, fmt.Sprintf("Mood: %s", input.Mood))
	parts = append(parts, fmt.Sprintf("Audience: tenant %s", tenantID))

	if input.Weather != nil {
		parts = append(parts, fmt.Sprintf("Current weather: %.1f degrees, %s", input.Weather.Temp, input.Weather.Description))
	}

	if len(input.GeoData) > 0 {
		excerpt := input.GeoData
		if len(excerpt) > maxPromptGeoItems {
			excerpt = excerpt[:maxPromptGeoItems]
		}
		parts = append(parts, "\nNearby places and events:")
		for _, d := range excerpt {
			line := fmt.Sprintf("- %s (%s)", d.Name, d.Type)
			if d.Description != "" {
				line += ": " + d.Description
			}
			parts = append(parts, line)
		}
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Return ONLY a JSON array, no prose")
	parts = append(parts, `- Each element: {"title": str, "description": str, "vibeTags": [str], "navigationLink": str|null}`)
	parts = append(parts, "- At most 4 vibeTags per card, short and lowercase")
	parts = append(parts, "- Ground suggestions in the listed places when possible")

	return strings.Join(parts, "\n")
}
