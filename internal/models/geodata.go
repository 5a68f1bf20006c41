// internal/models/geodata.go
package models

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoDatum is the common shape every geo/event source maps into at
// ingestion. Immutable once fetched; lives for one request.
type GeoDatum struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Coordinates Coordinates `json:"coordinates"`
	Description string      `json:"description,omitempty"`
	URL         string      `json:"url,omitempty"`
	Tags        []string    `json:"tags"`
	Source      string      `json:"source"`
}

// Weather is generation context, not a suggestion candidate, so it is kept
// apart from the GeoDatum list.
type Weather struct {
	Temp        float64 `json:"temp"`
	Description string  `json:"description"`
}
