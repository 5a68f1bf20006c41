// internal/geocontext/poi.go
package geocontext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"suggestion-engine/internal/common/config"
	"suggestion-engine/internal/common/database"
	"suggestion-engine/internal/models"
)

const poiSourceName = "poi"

// POISource queries the points-of-interest index with a geo_distance filter.
type POISource struct {
	es  *database.ElasticsearchClient
	cfg config.POISourceConfig
}

func NewPOISource(es *database.ElasticsearchClient, cfg config.POISourceConfig) *POISource {
	return &POISource{es: es, cfg: cfg}
}

func (s *POISource) Name() string { return poiSourceName }

func (s *POISource) Enabled() bool {
	return s.es != nil && s.cfg.Index != ""
}

type poiHit struct {
	ID     string `json:"_id"`
	Source struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Tags        []string `json:"tags"`
		Location    struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"location"`
	} `json:"_source"`
}

func (s *POISource) Fetch(ctx context.Context, lat, lng float64) ([]models.GeoDatum, error) {
	query := map[string]interface{}{
		"size": s.cfg.MaxResults,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": map[string]interface{}{
					"geo_distance": map[string]interface{}{
						"distance": fmt.Sprintf("%.1fkm", s.cfg.RadiusKM),
						"location": map[string]float64{"lat": lat, "lon": lng},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("encode poi query: %w", err)
	}

	es := s.es.Client
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(s.cfg.Index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("poi search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("poi search error: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []poiHit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode poi response: %w", err)
	}

	data := make([]models.GeoDatum, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		datum := models.GeoDatum{
			ID:          hit.ID,
			Name:        hit.Source.Name,
			Type:        hit.Source.Category,
			Description: hit.Source.Description,
			URL:         hit.Source.URL,
			Tags:        hit.Source.Tags,
			Source:      poiSourceName,
			Coordinates: models.Coordinates{
				Lat: hit.Source.Location.Lat,
				Lng: hit.Source.Location.Lon,
			},
		}
		if datum.Type == "" {
			datum.Type = "point_of_interest"
		}
		data = append(data, datum)
	}

	return data, nil
}
