package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaClient_GenerateContent(t *testing.T) {
	var got ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": "  Payment Update \n"}}`))
	}))
	defer server.Close()

	client := NewOllamaClient(DefaultOllamaConfig(server.URL, "llama3"), "secret", server.Client())
	text, err := client.GenerateContent(context.Background(), "categorize this", TierLite)

	require.NoError(t, err)
	assert.Equal(t, "Payment Update", text)
	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "categorize this", got.Messages[0].Content)
	assert.Empty(t, got.Format)
}

func TestOllamaClient_GenerateJSON(t *testing.T) {
	var got ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message": {"content": "Here you go:\n` + "```json" + `\n{\"steps\": [\"a\"]}\n` + "```" + `"}}`))
	}))
	defer server.Close()

	client := NewOllamaClient(DefaultOllamaConfig(server.URL, ""), "", server.Client())
	text, err := client.GenerateJSON(context.Background(), "p", TierStandard)

	require.NoError(t, err)
	assert.Equal(t, `{"steps": ["a"]}`, text)
	assert.Equal(t, "json", got.Format)
}

func TestOllamaClient_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"message": {"content": "ok"}}`))
	}))
	defer server.Close()

	_, err := NewOllamaClient(DefaultOllamaConfig(server.URL, ""), "", server.Client()).
		GenerateContent(context.Background(), "p", TierLite)
	require.NoError(t, err)
}

func TestOllamaClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "unauthorized"}`))
	}))
	defer server.Close()

	_, err := NewOllamaClient(DefaultOllamaConfig(server.URL, ""), "bad", server.Client()).
		GenerateContent(context.Background(), "p", TierLite)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama status 401: unauthorized")
}

func TestOllamaClient_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": {"content": "   "}}`))
	}))
	defer server.Close()

	_, err := NewOllamaClient(DefaultOllamaConfig(server.URL, ""), "", server.Client()).
		GenerateContent(context.Background(), "p", TierLite)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty content")
}

func TestOllamaClient_NoModel(t *testing.T) {
	client := NewOllamaClient(&Config{Provider: ProviderOllama, BaseURL: "http://unused"}, "", nil)

	_, err := client.GenerateContent(context.Background(), "p", TierLite)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model configured")
}

func TestNewClient_Providers(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultOllamaConfig("", ""), "")
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, client)
	assert.Equal(t, DefaultOllamaModel, client.GetModel(TierLite))
	assert.NoError(t, client.Close())

	_, err = NewClient(context.Background(), DefaultGeminiConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")

	_, err = NewClient(context.Background(), &Config{Provider: "carrier-pigeon"}, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}
