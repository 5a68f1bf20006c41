// internal/geocontext/source.go
package geocontext

import (
	"context"

	"suggestion-engine/internal/models"
)

// Source is one read-only geo/event data source. Each source maps its own
// response schema into []models.GeoDatum at ingestion; nothing downstream
// knows about per-source field names.
type Source interface {
	Name() string
	// Enabled reports whether the source has the configuration and
	// credentials it needs. Disabled sources are skipped without failing
	// the request.
	Enabled() bool
	Fetch(ctx context.Context, lat, lng float64) ([]models.GeoDatum, error)
}

// WeatherSource returns generation context rather than suggestion
// candidates, so it stays outside the Source interface.
type WeatherSource interface {
	Name() string
	Enabled() bool
	Fetch(ctx context.Context, lat, lng float64) (*models.Weather, error)
}
