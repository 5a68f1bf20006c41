// internal/suggest/provider.go
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"suggestion-engine/internal/common/config"
	"suggestion-engine/internal/common/httpclient"
	"suggestion-engine/internal/models"
)

// ErrProviderOverloaded marks a rate-limit signal from a completion backend.
// The generator reacts by triggering that provider's cooldown.
var ErrProviderOverloaded = errors.New("PROVIDER_OVERLOADED")

// SuggestionProvider is one LLM completion backend. Adding a provider never
// changes the generator's orchestration logic.
type SuggestionProvider interface {
	Name() string
	IsAvailable() bool
	Generate(ctx context.Context, prompt string) ([]models.CandidateCard, error)
}

// HTTPProvider speaks the generic completion contract: POST a prompt,
// receive generated text that must contain a strict JSON card array.
type HTTPProvider struct {
	cfg    config.ProviderConfig
	client *httpclient.Client
}

func NewHTTPProvider(cfg config.ProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		cfg:    cfg,
		client: httpclient.New(time.Duration(cfg.Timeout) * time.Millisecond),
	}
}

func (p *HTTPProvider) Name() string { return p.cfg.Name }

func (p *HTTPProvider) IsAvailable() bool {
	return p.cfg.BaseURL != "" && p.cfg.APIKey != ""
}

func (p *HTTPProvider) Generate(ctx context.Context, prompt string) ([]models.CandidateCard, error) {
	requestBody := map[string]interface{}{
		"model":       p.cfg.Model,
		"prompt":      prompt,
		"max_tokens":  p.cfg.MaxTokens,
		"temperature": p.cfg.Temperature,
	}

	body, _ := json.Marshal(requestBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		if isRateLimitSignal(resp) {
			return nil, ErrProviderOverloaded
		}
		return nil, fmt.Errorf("provider status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return parseCardArray(p.cfg.Name, apiResponse.Text)
}

// isRateLimitSignal recognizes overload on a non-2xx response: a 429, or
// any failure status carrying Retry-After.
func isRateLimitSignal(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.Header.Get("Retry-After") != ""
}

// parseCardArray extracts the JSON array from the completion text,
// validates it against the card schema, and decodes it. Models often wrap
// the array in prose or code fences, so only the outermost brackets count.
func parseCardArray(provider, text string) ([]models.CandidateCard, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in completion")
	}
	raw := text[start : end+1]

	if err := validateCardArray(raw); err != nil {
		return nil, err
	}

	var cards []models.CandidateCard
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		return nil, fmt.Errorf("decode card array: %w", err)
	}

	for i := range cards {
		cards[i].Source = provider
	}
	return cards, nil
}
