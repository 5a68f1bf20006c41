// internal/models/card.go
package models

// CandidateCard is one suggestion as parsed from a provider, before
// validation. VibeTags is untyped because providers return either an array
// of strings or a single delimited string.
type CandidateCard struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	VibeTags       interface{} `json:"vibeTags"`
	NavigationLink string      `json:"navigationLink"`
	Source         string      `json:"-"`
}

// Card is a validated, sanitized suggestion ready for the response payload.
type Card struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	VibeTags       []string `json:"vibeTags"`
	NavigationLink *string  `json:"navigationLink"`
	Source         string   `json:"-"`
}
