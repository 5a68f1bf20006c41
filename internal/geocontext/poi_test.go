// internal/geocontext/poi_test.go

package geocontext

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestion-engine/internal/common/config"
	"suggestion-engine/internal/common/database"
)

const poiSearchResponse = `{
	"hits": {
		"hits": [
			{
				"_id": "poi-1",
				"_source": {
					"name": "Old Town Cafe",
					"category": "cafe",
					"description": "Quiet corner cafe",
					"url": "https://oldtown.example.com",
					"tags": ["coffee", "quiet"],
					"location": {"lat": 40.71, "lon": -74.0}
				}
			},
			{
				"_id": "poi-2",
				"_source": {
					"name": "Riverside Lookout",
					"location": {"lat": 40.72, "lon": -74.01}
				}
			}
		]
	}
}`

func newPOITestSource(t *testing.T, handler http.HandlerFunc) *POISource {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	return NewPOISource(es, config.POISourceConfig{Index: "points_of_interest", RadiusKM: 5, MaxResults: 20})
}

func TestPOISourceFetch(t *testing.T) {
	source := newPOITestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "points_of_interest")

		var query map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		assert.Equal(t, float64(20), query["size"])

		w.Write([]byte(poiSearchResponse))
	})

	data, err := source.Fetch(context.Background(), 40.7128, -74.006)
	require.NoError(t, err)
	require.Len(t, data, 2)

	assert.Equal(t, "poi-1", data[0].ID)
	assert.Equal(t, "Old Town Cafe", data[0].Name)
	assert.Equal(t, "cafe", data[0].Type)
	assert.Equal(t, []string{"coffee", "quiet"}, data[0].Tags)
	assert.Equal(t, "poi", data[0].Source)
	assert.Equal(t, 40.71, data[0].Coordinates.Lat)

	// Missing category falls back to the generic type.
	assert.Equal(t, "point_of_interest", data[1].Type)
}

func TestPOISourceSearchError(t *testing.T) {
	source := newPOITestSource(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "index_not_found_exception"}`, http.StatusNotFound)
	})

	_, err := source.Fetch(context.Background(), 40.7128, -74.006)
	assert.Error(t, err)
}

func TestPOISourceEnabled(t *testing.T) {
	assert.False(t, NewPOISource(nil, config.POISourceConfig{Index: "x"}).Enabled())
	assert.False(t, NewPOISource(&database.ElasticsearchClient{}, config.POISourceConfig{}).Enabled())
}
