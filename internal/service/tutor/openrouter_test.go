package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenRouter(t *testing.T, handler http.HandlerFunc) *OpenRouterProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Referer: "https://easynatorics.test",
		Title:   "EasyNatorics",
	})
	require.NoError(t, err)
	return p
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   DefaultModel,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
}

func TestOpenRouterProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{})
	assert.Error(t, err)
}

func TestOpenRouterProvider_Complete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}
	p := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://easynatorics.test", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "EasyNatorics", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("  Halo!  "))
	})

	text, err := p.Complete(context.Background(), ChatRequest{System: "sys", User: "hai", MaxTokens: 100})

	require.NoError(t, err)
	assert.Equal(t, "Halo!", text)
	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hai", got.Messages[1].Content)
	assert.Equal(t, 100, got.MaxTokens)
}

func TestOpenRouterProvider_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		p := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "overloaded", "type": "server_error"}})
		})
		_, err := p.Complete(context.Background(), ChatRequest{User: "hai"})
		assert.Error(t, err)
	})

	t.Run("empty content", func(t *testing.T) {
		p := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(chatResponse(""))
		})
		_, err := p.Complete(context.Background(), ChatRequest{User: "hai"})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}
