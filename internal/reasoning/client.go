// Package reasoning is the adapter layer between the pipeline and the
// text-generation backend. It defines the LLMClient port, two Gemini
// adapters (a hand-rolled REST client and one backed by the official
// SDK), and the tolerant JSON decoding used for structured responses.
//
// Nothing above this package ever sees raw wire formats: agents speak
// LLMClient and decode with DecodeJSON.
package reasoning

import (
	"context"
	"time"
)

// LLMClient defines the interface for reasoning-backend interactions.
// CompleteWithSchema requests a response constrained to the given JSON
// schema; adapters that cannot enforce the schema server-side must at
// minimum request JSON output and describe the schema in the prompt.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error)
}

// Provider selects a reasoning backend adapter.
type Provider string

const (
	// ProviderGemini is the hand-rolled REST adapter for the Gemini
	// generateContent API. Default.
	ProviderGemini Provider = "gemini"
	// ProviderGenAI uses the official google.golang.org/genai SDK.
	ProviderGenAI Provider = "genai"
)

// Config holds adapter construction parameters. Zero values fall back
// to sensible defaults in the constructors.
type Config struct {
	Provider        Provider
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	Temperature     float64
	MaxOutputTokens int

	// MinRequestInterval spaces out consecutive requests from one
	// client instance. This is a floor under the orchestrator's own
	// per-activity throttle, not a replacement for it.
	MinRequestInterval time.Duration

	// MaxRetries bounds the retry loop for transient failures (429s,
	// transport errors).
	MaxRetries int
}

const (
	defaultModel           = "gemini-flash-latest"
	defaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout         = 2 * time.Minute
	defaultMaxOutputTokens = 16384
	defaultMinInterval     = 100 * time.Millisecond
	defaultMaxRetries      = 3
)

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = defaultMaxOutputTokens
	}
	if c.MinRequestInterval <= 0 {
		c.MinRequestInterval = defaultMinInterval
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	return c
}
