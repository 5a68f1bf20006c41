// internal/geocontext/events.go
package geocontext

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"suggestion-engine/internal/common/config"
	"suggestion-engine/internal/common/httpclient"
	"suggestion-engine/internal/models"
)

const (
	citybeatSourceName = "citybeat"
	gatherlySourceName = "gatherly"
)

// CitybeatSource is the first event-discovery upstream. It authenticates
// with an api_key query parameter.
type CitybeatSource struct {
	cfg    config.EventSourceConfig
	client *httpclient.Client
}

func NewCitybeatSource(cfg config.EventSourceConfig) *CitybeatSource {
	return &CitybeatSource{
		cfg:    cfg,
		client: httpclient.New(time.Duration(cfg.Timeout) * time.Millisecond),
	}
}

func (s *CitybeatSource) Name() string { return citybeatSourceName }

func (s *CitybeatSource) Enabled() bool {
	return s.cfg.BaseURL != "" && s.cfg.APIKey != ""
}

func (s *CitybeatSource) Fetch(ctx context.Context, lat, lng float64) ([]models.GeoDatum, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lng", fmt.Sprintf("%f", lng))
	params.Set("api_key", s.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.cfg.BaseURL+"/v2/events/nearby?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("citybeat request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("citybeat call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("citybeat status %d", resp.StatusCode)
	}

	var parsed struct {
		Events []struct {
			EventID    string   `json:"event_id"`
			Title      string   `json:"title"`
			Summary    string   `json:"summary"`
			Link       string   `json:"link"`
			Categories []string `json:"categories"`
			Venue      struct {
				Name string  `json:"name"`
				Lat  float64 `json:"lat"`
				Lng  float64 `json:"lng"`
			} `json:"venue"`
		} `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode citybeat response: %w", err)
	}

	data := make([]models.GeoDatum, 0, len(parsed.Events))
	for _, ev := range parsed.Events {
		data = append(data, models.GeoDatum{
			ID:          ev.EventID,
			Name:        ev.Title,
			Type:        "event",
			Description: ev.Summary,
			URL:         ev.Link,
			Tags:        ev.Categories,
			Source:      citybeatSourceName,
			Coordinates: models.Coordinates{Lat: ev.Venue.Lat, Lng: ev.Venue.Lng},
		})
	}
	return data, nil
}

// GatherlySource is the second event-discovery upstream. It authenticates
// with a bearer token and speaks a different schema, mapped here and
// nowhere else.
type GatherlySource struct {
	cfg    config.EventSourceConfig
	client *httpclient.Client
}

func NewGatherlySource(cfg config.EventSourceConfig) *GatherlySource {
	return &GatherlySource{
		cfg:    cfg,
		client: httpclient.New(time.Duration(cfg.Timeout) * time.Millisecond),
	}
}

func (s *GatherlySource) Name() string { return gatherlySourceName }

func (s *GatherlySource) Enabled() bool {
	return s.cfg.BaseURL != "" && s.cfg.APIKey != ""
}

func (s *GatherlySource) Fetch(ctx context.Context, lat, lng float64) ([]models.GeoDatum, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.cfg.BaseURL+"/api/events?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("gatherly request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gatherly call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gatherly status %d", resp.StatusCode)
	}

	var parsed struct {
		Data []struct {
			ID          string   `json:"id"`
			Name        string   `json:"name"`
			Description string   `json:"description"`
			URL         string   `json:"url"`
			Tags        []string `json:"tags"`
			Location    struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"location"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode gatherly response: %w", err)
	}

	data := make([]models.GeoDatum, 0, len(parsed.Data))
	for _, ev := range parsed.Data {
		data = append(data, models.GeoDatum{
			ID:          ev.ID,
			Name:        ev.Name,
			Type:        "event",
			Description: ev.Description,
			URL:         ev.URL,
			Tags:        ev.Tags,
			Source:      gatherlySourceName,
			Coordinates: models.Coordinates{Lat: ev.Location.Latitude, Lng: ev.Location.Longitude},
		})
	}
	return data, nil
}
