// internal/geocontext/weather.go
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

const weatherSourceName = "weather"

// HTTPWeatherSource fetches current conditions from an OpenWeather-compatible
// endpoint.
type HTTPWeatherSource struct {
	cfg    config.WeatherSourceConfig
	client *httpclient.Client
}

func NewWeatherSource(cfg config.WeatherSourceConfig) *HTTPWeatherSource {
	return &HTTPWeatherSource{
		cfg:    cfg,
		client: httpclient.New(time.Duration(cfg.Timeout) * time.Millisecond),
	}
}

func (s *HTTPWeatherSource) Name() string { return weatherSourceName }

func (s *HTTPWeatherSource) Enabled() bool {
	return s.cfg.BaseURL != "" && s.cfg.APIKey != ""
}

func (s *HTTPWeatherSource) Fetch(ctx context.Context, lat, lng float64) (*models.Weather, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lng))
	params.Set("units", s.cfg.Units)
	params.Set("appid", s.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.cfg.BaseURL+"/data/2.5/weather?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather status %d", resp.StatusCode)
	}

	var parsed struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	weather := &models.Weather{Temp: parsed.Main.Temp}
	if len(parsed.Weather) > 0 {
		weather.Description = parsed.Weather[0].Description
	}
	return weather, nil
}
