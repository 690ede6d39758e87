package llm

import (
	"context"
	"errors"
	"fmt"

	"preppulse/internal/config"
)

// ErrNotConfigured is returned when the selected provider has no API key.
var ErrNotConfigured = errors.New("no LLM provider configured")

// NewProvider builds the completion provider selected by cfg.Provider.
// Calls are not retried: a failed call falls back at the call site.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	if !cfg.AIEnabled() {
		return nil, ErrNotConfigured
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "openai", "":
		p, err = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}

// NewSpeaker returns the OpenAI text-to-speech client, or ErrNotConfigured
// when there is no OpenAI key. Speech is always served by OpenAI, whatever
// completion provider is selected.
func NewSpeaker(cfg config.LLMConfig) (Speaker, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, ErrNotConfigured
	}
	return NewOpenAISpeaker(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.TTSModel, cfg.TTSVoice), nil
}
