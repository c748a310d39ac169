package reasoning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careguide/internal/logging"

	"google.golang.org/genai"
)

// GenAIClient implements LLMClient using the official
// google.golang.org/genai SDK. Unlike the REST adapter, schema
// enforcement here is prompt-level: the SDK call requests JSON output
// and the schema text is appended to the user prompt. The tolerant
// decode in DecodeJSON covers the difference.
type GenAIClient struct {
	client      *genai.Client
	model       string
	temperature float64
	timeout     time.Duration
}

// NewGenAIClient creates an SDK-backed Gemini client.
func NewGenAIClient(ctx context.Context, cfg Config) (*GenAIClient, error) {
	cfg = cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// Model returns the configured model name.
func (c *GenAIClient) Model() string {
	return c.model
}

// Complete sends a prompt without a system message.
func (c *GenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system message.
func (c *GenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.generate(ctx, systemPrompt, userPrompt, false)
}

// CompleteWithSchema requests JSON output and describes the expected
// schema inline in the prompt.
func (c *GenAIClient) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	schemaText := strings.TrimSpace(jsonSchema)
	if schemaText == "" {
		return "", fmt.Errorf("json schema is empty")
	}
	prompt := fmt.Sprintf("%s\n\nRespond with valid JSON matching this schema:\n%s\n\nReturn ONLY the JSON, no additional text.", userPrompt, schemaText)
	return c.generate(ctx, systemPrompt, prompt, true)
}

func (c *GenAIClient) generate(ctx context.Context, systemPrompt, userPrompt string, wantJSON bool) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.ReasoningDebug("[GenAI] generate: model=%s system_len=%d user_len=%d json=%t",
		c.model, len(systemPrompt), len(userPrompt), wantJSON)

	temperature := float32(c.temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if strings.TrimSpace(systemPrompt) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if wantJSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), cfg)
	if err != nil {
		logging.ReasoningError("[GenAI] generate failed after %v: %v", time.Since(startTime), err)
		return "", fmt.Errorf("generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no completion returned")
	}

	logging.Reasoning("[GenAI] generate: completed in %v response_len=%d", time.Since(startTime), len(text))
	return text, nil
}
