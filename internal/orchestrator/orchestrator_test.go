// internal/orchestrator/orchestrator_test.go

package orchestrator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestion-engine/internal/cache"
	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/common/observability"
	"suggestion-engine/internal/cooldown"
	"suggestion-engine/internal/geocontext"
	"suggestion-engine/internal/models"
	"suggestion-engine/internal/suggest"
)

type stubProvider struct {
	name  string
	cards []models.CandidateCard
	err   error
}

func (p *stubProvider) Name() string      { return p.name }
func (p *stubProvider) IsAvailable() bool { return true }
func (p *stubProvider) Generate(context.Context, string) ([]models.CandidateCard, error) {
	return p.cards, p.err
}

func newOrchestrator(t *testing.T, providers ...suggest.SuggestionProvider) *Orchestrator {
	t.Helper()
	log := logger.NewTestLogger(t)

	cooldowns := cooldown.NewRegistry(cooldown.NewMemoryStore(), 10*time.Minute, log)
	generator := suggest.NewGenerator(providers, cooldowns, log)

	// No sources configured: the geo fan-out legitimately yields nothing.
	fetcher := geocontext.NewFetcher(nil, nil, log)
	respCache := cache.New(cache.NewMemoryStore(), time.Minute, log)

	return New(respCache, fetcher, generator, observability.NewTracing("test", ""), log)
}

func TestSuggestDegradedGeneration(t *testing.T) {
	orch := newOrchestrator(t,
		&stubProvider{name: "primary", err: suggest.ErrProviderOverloaded},
		&stubProvider{name: "secondary", cards: []models.CandidateCard{
			{Title: "Gallery Hop", Description: "See three galleries", Source: "secondary"},
		}},
	)

	payload, cached, err := orch.Suggest(context.Background(), Request{
		TenantID: "tenant-1", Lat: 40.7128, Lng: -74.006, Mood: "social",
	})
	require.NoError(t, err)
	assert.False(t, cached)

	var response struct {
		AICards []struct {
			Title string `json:"title"`
		} `json:"aiCards"`
		Sources           map[string]int         `json:"sources"`
		CombinedDataCount int                    `json:"combinedDataCount"`
		Diagnostics       map[string]interface{} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(payload, &response))

	require.Len(t, response.AICards, 1)
	assert.Equal(t, "Gallery Hop", response.AICards[0].Title)
	assert.Equal(t, map[string]int{"secondary": 1}, response.Sources)
	assert.Equal(t, 0, response.CombinedDataCount)

	assert.Equal(t, true, response.Diagnostics["primaryRateLimited"])
	assert.Equal(t, false, response.Diagnostics["secondaryRateLimited"])
	errs, ok := response.Diagnostics["errors"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "primary: rate limited")
}

func TestSuggestFallbackCardsWhenEverythingFails(t *testing.T) {
	orch := newOrchestrator(t,
		&stubProvider{name: "primary", err: assert.AnError},
	)

	payload, _, err := orch.Suggest(context.Background(), Request{
		TenantID: "tenant-1", Lat: 40.7128, Lng: -74.006, Mood: "social",
	})
	require.NoError(t, err)

	var response struct {
		AICards []struct {
			Title    string   `json:"title"`
			VibeTags []string `json:"vibeTags"`
		} `json:"aiCards"`
	}
	require.NoError(t, json.Unmarshal(payload, &response))

	// The response is never empty even with zero geo data and zero
	// provider output.
	require.NotEmpty(t, response.AICards)
	for _, c := range response.AICards {
		assert.NotEmpty(t, c.VibeTags)
	}
}

func TestSuggestCachesPerFingerprint(t *testing.T) {
	orch := newOrchestrator(t,
		&stubProvider{name: "primary", cards: []models.CandidateCard{
			{Title: "Rooftop Sunset", Description: "Catch the view", Source: "primary"},
		}},
	)
	ctx := context.Background()

	first, cached, err := orch.Suggest(ctx, Request{TenantID: "tenant-1", Lat: 40.7128, Lng: -74.006, Mood: "social"})
	require.NoError(t, err)
	require.False(t, cached)

	// Nearby coordinates and different mood casing share the fingerprint.
	second, cached, err := orch.Suggest(ctx, Request{TenantID: "tenant-1", Lat: 40.71284, Lng: -74.00601, Mood: "SOCIAL"})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)

	// A different tenant never shares an entry.
	_, cached, err = orch.Suggest(ctx, Request{TenantID: "tenant-2", Lat: 40.7128, Lng: -74.006, Mood: "social"})
	require.NoError(t, err)
	assert.False(t, cached)
}
