package reasoning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Provider: ProviderGemini})
	assert.Error(t, err)
}

func TestNewClientDefaultsToGeminiREST(t *testing.T) {
	client, err := NewClient(context.Background(), Config{APIKey: "k"})
	require.NoError(t, err)
	_, ok := client.(*GeminiClient)
	assert.True(t, ok, "empty provider should select the REST adapter")
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), Config{APIKey: "k", Provider: Provider("llama-farm")})
	assert.Error(t, err)
}
