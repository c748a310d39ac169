package reasoning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiHandler(t *testing.T, reply string, inspect func(req geminiRequest)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if inspect != nil {
			inspect(req)
		}

		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]string{{"text": reply}},
						"role":  "model",
					},
					"finishReason": "STOP",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newTestClient(serverURL string) *GeminiClient {
	return NewGeminiClient(Config{
		APIKey:             "test-key",
		BaseURL:            serverURL,
		Model:              "test-model",
		Timeout:            5 * time.Second,
		MinRequestInterval: time.Millisecond,
		MaxRetries:         2,
	})
}

func TestGeminiCompleteWithSystem(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(geminiHandler(t, "hello from model", func(req geminiRequest) {
		captured = req
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.CompleteWithSystem(context.Background(), "you are a test", "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello from model", got)

	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "you are a test", captured.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "say hello", captured.Contents[0].Parts[0].Text)
	assert.Empty(t, captured.GenerationConfig.ResponseMimeType)
}

func TestGeminiCompleteWithSchemaSetsStructuredOutput(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(geminiHandler(t, `{"ok":true}`, func(req geminiRequest) {
		captured = req
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	schema := `{"type":"object","properties":{"ok":{"type":"boolean"}}}`
	got, err := client.CompleteWithSchema(context.Background(), "sys", "user", schema)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)

	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	require.NotNil(t, captured.GenerationConfig.ResponseSchema)
	assert.Equal(t, "object", captured.GenerationConfig.ResponseSchema["type"])
}

func TestGeminiCompleteWithSchemaRejectsBadSchema(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")

	_, err := client.CompleteWithSchema(context.Background(), "sys", "user", "")
	assert.Error(t, err)

	_, err = client.CompleteWithSchema(context.Background(), "sys", "user", "{broken")
	assert.Error(t, err)
}

func TestGeminiRetriesOn429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		geminiHandler(t, "recovered", nil)(w, r)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.Complete(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGeminiThrottleWaitIsCancellable(t *testing.T) {
	server := httptest.NewServer(geminiHandler(t, "first", nil))
	defer server.Close()

	client := NewGeminiClient(Config{
		APIKey:             "test-key",
		BaseURL:            server.URL,
		Model:              "test-model",
		Timeout:            5 * time.Second,
		MinRequestInterval: time.Hour,
		MaxRetries:         1,
	})

	_, err := client.Complete(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = client.Complete(ctx, "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "the throttle wait must end with the context")
}

func TestGeminiAPIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad request"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "ping")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "400"))
}

func TestGeminiMissingAPIKey(t *testing.T) {
	client := NewGeminiClient(Config{Model: "m"})
	_, err := client.Complete(context.Background(), "ping")
	assert.Error(t, err)
}
