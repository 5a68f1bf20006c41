// internal/cards/normalizer.go

// Package cards validates, sanitizes, and deduplicates candidate cards.
// Everything here is deterministic and side-effect free.
package cards

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"suggestion-engine/internal/models"
)

const (
	maxTitleLen       = 120
	maxDescriptionLen = 400
	maxTags           = 4
	maxTagLen         = 32
	displayLimit      = 5
)

const fallbackSourceName = "fallback"

// FallbackContext feeds card synthesis when every provider came up empty.
type FallbackContext struct {
	TenantID string
	Mood     string
	GeoData  []models.GeoDatum
}

// Normalize produces the final card list: sanitized, deduplicated by
// case-insensitive title (first occurrence wins, so provider priority
// order decides ties), never empty, capped at the display limit.
func Normalize(candidates []models.CandidateCard, fb FallbackContext) []models.Card {
	out := make([]models.Card, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, cand := range candidates {
		title := clamp(strings.TrimSpace(cand.Title), maxTitleLen)
		description := clamp(strings.TrimSpace(cand.Description), maxDescriptionLen)
		if title == "" || description == "" {
			continue
		}

		key := strings.ToLower(title)
		if seen[key] {
			continue
		}
		seen[key] = true

		tags := parseTags(cand.VibeTags)
		if len(tags) == 0 {
			tags = defaultTags(fb)
		}

		out = append(out, models.Card{
			Title:          title,
			Description:    description,
			VibeTags:       tags,
			NavigationLink: sanitizeLink(cand.NavigationLink),
			Source:         cand.Source,
		})
	}

	if len(out) == 0 {
		out = synthesize(fb)
	}

	if len(out) > displayLimit {
		out = out[:displayLimit]
	}
	return out
}

// parseTags accepts an array of short strings or a delimiter-separated
// string; anything else parses to nothing.
func parseTags(raw interface{}) []string {
	var candidates []string

	switch v := raw.(type) {
	case []string:
		candidates = v
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				candidates = append(candidates, s)
			}
		}
	case string:
		candidates = strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';' || r == '|' || r == '/'
		})
	}

	tags := make([]string, 0, maxTags)
	for _, t := range candidates {
		t = strings.TrimSpace(t)
		if t == "" || utf8.RuneCountInString(t) > maxTagLen {
			continue
		}
		tags = append(tags, t)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// defaultTags guarantees at least one tag, derived from mood and tenant.
func defaultTags(fb FallbackContext) []string {
	mood := clamp(strings.ToLower(strings.TrimSpace(fb.Mood)), maxTagLen)
	if mood == "" {
		mood = "spontaneous"
	}
	return []string{mood, "local"}
}

// sanitizeLink accepts only absolute http/https URLs.
func sanitizeLink(link string) *string {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil
	}
	return &link
}

// synthesize builds cards straight from geo context, or falls back to the
// hand-authored placeholder set when there is no context at all. The
// result is never empty.
func synthesize(fb FallbackContext) []models.Card {
	if len(fb.GeoData) == 0 {
		return placeholders(fb)
	}

	out := make([]models.Card, 0, displayLimit)
	seen := make(map[string]bool, displayLimit)
	for _, d := range fb.GeoData {
		name := clamp(strings.TrimSpace(d.Name), maxTitleLen)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		description := clamp(strings.TrimSpace(d.Description), maxDescriptionLen)
		if description == "" {
			description = fmt.Sprintf("Check out %s, a nearby %s worth a spontaneous visit.", name, strings.ReplaceAll(d.Type, "_", " "))
		}

		tags := parseTags(d.Tags)
		if len(tags) == 0 {
			tags = defaultTags(fb)
		}

		out = append(out, models.Card{
			Title:          name,
			Description:    description,
			VibeTags:       tags,
			NavigationLink: sanitizeLink(d.URL),
			Source:         d.Source,
		})
		if len(out) == displayLimit {
			break
		}
	}

	if len(out) == 0 {
		return placeholders(fb)
	}
	return out
}

func placeholders(fb FallbackContext) []models.Card {
	tags := defaultTags(fb)
	return []models.Card{
		{
			Title:       "Wander a new neighborhood",
			Description: "Pick a direction you rarely walk and follow it for twenty minutes. Notice one shop, mural, or corner you have never seen before.",
			VibeTags:    tags,
			Source:      fallbackSourceName,
		},
		{
			Title:       "Coffee shop roulette",
			Description: "Find the nearest cafe you have never tried and order whatever the person ahead of you orders.",
			VibeTags:    tags,
			Source:      fallbackSourceName,
		},
		{
			Title:       "Golden hour lookout",
			Description: "Head to the highest accessible point nearby and watch the light change for fifteen minutes, phone away.",
			VibeTags:    tags,
			Source:      fallbackSourceName,
		},
	}
}

// clamp caps s at max bytes without splitting a multi-byte rune, so the
// result is always valid UTF-8.
func clamp(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
