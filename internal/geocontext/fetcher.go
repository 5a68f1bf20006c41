// internal/geocontext/fetcher.go
package geocontext

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/common/metrics"
	"suggestion-engine/internal/models"
)

// Result aggregates whatever the sources produced. Data may legitimately be
// empty; Warnings carries one entry per failed source for the response
// diagnostics.
type Result struct {
	Data     []models.GeoDatum
	Weather  *models.Weather
	Warnings []string
}

// Fetcher fans out to every configured source concurrently. Each branch
// reaches its own terminal state; a failing branch contributes zero data
// and never cancels a sibling.
type Fetcher struct {
	sources []Source
	weather WeatherSource
	log     logger.Logger
}

func NewFetcher(sources []Source, weather WeatherSource, log logger.Logger) *Fetcher {
	return &Fetcher{
		sources: sources,
		weather: weather,
		log:     log.With(map[string]interface{}{"component": "geocontext-fetcher"}),
	}
}

// Fetch never returns an error: partial results on partial failure.
func (f *Fetcher) Fetch(ctx context.Context, lat, lng float64) Result {
	var (
		mu     sync.Mutex
		result Result
	)

	// A bare errgroup (no WithContext) so one branch's failure cannot
	// cancel the others; branch errors are folded into warnings here and
	// never propagated to the join.
	var g errgroup.Group

	for _, src := range f.sources {
		src := src
		if !src.Enabled() {
			f.log.Debug("source disabled, skipping", map[string]interface{}{
				"source": src.Name(),
			})
			continue
		}

		g.Go(func() error {
			data, err := src.Fetch(ctx, lat, lng)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.SourceFetchFailures.WithLabelValues(src.Name()).Inc()
				f.log.WithError(err).Warn("source fetch failed", map[string]interface{}{
					"source": src.Name(),
				})
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", src.Name(), err))
				return nil
			}
			result.Data = append(result.Data, data...)
			return nil
		})
	}

	if f.weather != nil && f.weather.Enabled() {
		g.Go(func() error {
			weather, err := f.weather.Fetch(ctx, lat, lng)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.SourceFetchFailures.WithLabelValues(f.weather.Name()).Inc()
				f.log.WithError(err).Warn("weather fetch failed", map[string]interface{}{
					"source": f.weather.Name(),
				})
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", f.weather.Name(), err))
				return nil
			}
			result.Weather = weather
			return nil
		})
	}

	_ = g.Wait()

	f.log.Debug("geo context assembled", map[string]interface{}{
		"items":    len(result.Data),
		"warnings": len(result.Warnings),
	})
	return result
}
