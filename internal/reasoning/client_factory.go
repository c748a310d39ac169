package reasoning

import (
	"context"
	"fmt"
)

// NewClient constructs the adapter selected by cfg.Provider. An empty
// provider defaults to the REST adapter.
func NewClient(ctx context.Context, cfg Config) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY or GOOGLE_API_KEY)")
	}

	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(cfg), nil
	case ProviderGenAI:
		return NewGenAIClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown reasoning provider: %q", cfg.Provider)
	}
}
