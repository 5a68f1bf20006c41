// internal/suggest/generator.go
package suggest

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/common/metrics"
	"suggestion-engine/internal/cooldown"
	"suggestion-engine/internal/models"
)

// Generation is the merged outcome across providers.
type Generation struct {
	Cards       []models.CandidateCard
	RateLimited map[string]bool
	Errors      []string
}

// Generator fans out to every configured, non-cooled-down provider
// concurrently and merges results in configured priority order. Provider
// failures degrade to zero cards; they never fail the request.
type Generator struct {
	providers []SuggestionProvider
	cooldowns *cooldown.Registry
	log       logger.Logger
}

func NewGenerator(providers []SuggestionProvider, cooldowns *cooldown.Registry, log logger.Logger) *Generator {
	return &Generator{
		providers: providers,
		cooldowns: cooldowns,
		log:       log.With(map[string]interface{}{"component": "suggestion-generator"}),
	}
}

func (g *Generator) Generate(ctx context.Context, tenantID string, input GenerationInput) Generation {
	prompt := buildPrompt(tenantID, input)

	type branch struct {
		cards       []models.CandidateCard
		rateLimited bool
		errMsg      string
	}
	branches := make([]branch, len(g.providers))

	// Bare errgroup: a provider failure is terminal for its own branch
	// only, never a cancellation of siblings.
	var grp errgroup.Group
	for i, p := range g.providers {
		i, p := i, p

		if !p.IsAvailable() {
			g.log.Debug("provider not configured, skipping", map[string]interface{}{
				"provider": p.Name(),
			})
			continue
		}

		if g.cooldowns.IsCoolingDown(ctx, p.Name()) {
			branches[i].rateLimited = true
			metrics.ProviderCalls.WithLabelValues(p.Name(), "skipped_cooldown").Inc()
			g.log.Info("provider in cooldown, skipping", map[string]interface{}{
				"provider": p.Name(),
			})
			continue
		}

		grp.Go(func() error {
			cards, err := p.Generate(ctx, prompt)
			switch {
			case errors.Is(err, ErrProviderOverloaded):
				g.cooldowns.Trigger(ctx, p.Name())
				branches[i].rateLimited = true
				branches[i].errMsg = fmt.Sprintf("%s: rate limited", p.Name())
				metrics.ProviderCalls.WithLabelValues(p.Name(), "rate_limited").Inc()
			case err != nil:
				branches[i].errMsg = fmt.Sprintf("%s: %v", p.Name(), err)
				metrics.ProviderCalls.WithLabelValues(p.Name(), "error").Inc()
				g.log.WithError(err).Warn("provider generation failed", map[string]interface{}{
					"provider": p.Name(),
				})
			default:
				branches[i].cards = cards
				metrics.ProviderCalls.WithLabelValues(p.Name(), "success").Inc()
			}
			return nil
		})
	}
	_ = grp.Wait()

	// Merge in configured priority order so dedup downstream is
	// deterministic: primary's cards come before secondary's.
	gen := Generation{RateLimited: make(map[string]bool, len(g.providers))}
	for i, p := range g.providers {
		if !p.IsAvailable() {
			continue
		}
		gen.RateLimited[p.Name()] = branches[i].rateLimited
		gen.Cards = append(gen.Cards, branches[i].cards...)
		if branches[i].errMsg != "" {
			gen.Errors = append(gen.Errors, branches[i].errMsg)
		}
	}

	g.log.Info("generation complete", map[string]interface{}{
		"tenantId":   tenantID,
		"candidates": len(gen.Cards),
		"errors":     len(gen.Errors),
	})
	return gen
}
