// internal/models/response.go
package models

import "encoding/json"

// Diagnostics tells clients why a list may be thinner than expected:
// which providers were rate-limited and which degradations occurred.
type Diagnostics struct {
	RateLimited map[string]bool
	Errors      []string
}

// MarshalJSON flattens the provider flags into "<provider>RateLimited" keys
// next to the errors list.
func (d Diagnostics) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.RateLimited)+1)
	for provider, limited := range d.RateLimited {
		out[provider+"RateLimited"] = limited
	}
	errs := d.Errors
	if errs == nil {
		errs = []string{}
	}
	out["errors"] = errs
	return json.Marshal(out)
}

// SuggestionResponse is the fully composed payload cached per fingerprint.
type SuggestionResponse struct {
	AICards           []Card         `json:"aiCards"`
	Sources           map[string]int `json:"sources"`
	Weather           *Weather       `json:"weather"`
	CombinedDataCount int            `json:"combinedDataCount"`
	Diagnostics       Diagnostics    `json:"diagnostics"`
}
