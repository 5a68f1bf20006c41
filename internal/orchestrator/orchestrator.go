// internal/orchestrator/orchestrator.go

// Package orchestrator composes a suggestion response end to end:
// cache lookup, geo context fan-out, provider generation, card
// normalization, payload assembly.
package orchestrator

import (
	"context"
	"encoding/json"

	"suggestion-engine/internal/cache"
	"suggestion-engine/internal/cards"
	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/common/observability"
	"suggestion-engine/internal/geocontext"
	"suggestion-engine/internal/models"
	"suggestion-engine/internal/suggest"
)

// Request is one fully resolved, rate-limit-admitted suggestion request.
type Request struct {
	TenantID string
	Lat      float64
	Lng      float64
	Mood     string
}

// Orchestrator runs the pipeline behind the suggestions endpoint. Upstream
// failures degrade into diagnostics; only serialization can fail.
type Orchestrator struct {
	cache     *cache.ResponseCache
	fetcher   *geocontext.Fetcher
	generator *suggest.Generator
	tracing   *observability.Tracing
	log       logger.Logger
}

func New(respCache *cache.ResponseCache, fetcher *geocontext.Fetcher, generator *suggest.Generator, tracing *observability.Tracing, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		cache:     respCache,
		fetcher:   fetcher,
		generator: generator,
		tracing:   tracing,
		log:       log.With(map[string]interface{}{"component": "orchestrator"}),
	}
}

// Suggest returns the serialized response payload and whether it came
// from cache. Cached hits are byte-identical to the original response.
func (o *Orchestrator) Suggest(ctx context.Context, req Request) ([]byte, bool, error) {
	key := cache.Fingerprint(req.TenantID, req.Lat, req.Lng, req.Mood)
	return o.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
		return o.compute(ctx, req)
	})
}

func (o *Orchestrator) compute(ctx context.Context, req Request) ([]byte, error) {
	ctx, span := o.tracing.StartSpan(ctx, "suggestions.compute")
	defer span.End()

	geoCtx, geoSpan := o.tracing.StartSpan(ctx, "suggestions.geocontext")
	geo := o.fetcher.Fetch(geoCtx, req.Lat, req.Lng)
	geoSpan.End()

	genCtx, genSpan := o.tracing.StartSpan(ctx, "suggestions.generate")
	gen := o.generator.Generate(genCtx, req.TenantID, suggest.GenerationInput{
		Lat:     req.Lat,
		Lng:     req.Lng,
		Mood:    req.Mood,
		Weather: geo.Weather,
		GeoData: geo.Data,
	})
	genSpan.End()

	finalCards := cards.Normalize(gen.Cards, cards.FallbackContext{
		TenantID: req.TenantID,
		Mood:     req.Mood,
		GeoData:  geo.Data,
	})

	response := models.SuggestionResponse{
		AICards:           finalCards,
		Sources:           countSources(finalCards),
		Weather:           geo.Weather,
		CombinedDataCount: len(geo.Data),
		Diagnostics: models.Diagnostics{
			RateLimited: gen.RateLimited,
			Errors:      append(append([]string{}, geo.Warnings...), gen.Errors...),
		},
	}

	o.log.Info("suggestion response assembled", map[string]interface{}{
		"tenantId":      req.TenantID,
		"cards":         len(finalCards),
		"geoItems":      len(geo.Data),
		"diagnosticErr": len(response.Diagnostics.Errors),
	})

	payload, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func countSources(final []models.Card) map[string]int {
	counts := make(map[string]int, 2)
	for _, c := range final {
		source := c.Source
		if source == "" {
			source = "unknown"
		}
		counts[source]++
	}
	return counts
}
