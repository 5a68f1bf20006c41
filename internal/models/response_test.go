// internal/models/response_test.go

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsMarshal(t *testing.T) {
	d := Diagnostics{
		RateLimited: map[string]bool{"primary": true, "secondary": false},
		Errors:      []string{"weather: status 502"},
	}

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, true, decoded["primaryRateLimited"])
	assert.Equal(t, false, decoded["secondaryRateLimited"])
	assert.Equal(t, []interface{}{"weather: status 502"}, decoded["errors"])
}

func TestDiagnosticsMarshalEmptyErrors(t *testing.T) {
	raw, err := json.Marshal(Diagnostics{RateLimited: map[string]bool{}})
	require.NoError(t, err)

	// nil errors must serialize as an empty array, never null.
	assert.JSONEq(t, `{"errors": []}`, string(raw))
}
