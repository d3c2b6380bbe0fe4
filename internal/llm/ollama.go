package llm

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
)

const ollamaTimeout = 120 * time.Second

// HTTPDoer allows tests to fake HTTP transport
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// OllamaClient implements Client against an Ollama /api/chat endpoint
type OllamaClient struct {
	config     *Config
	apiKey     string
	httpClient HTTPDoer
}

// NewOllamaClient creates a client. apiKey may be empty for a local server.
func NewOllamaClient(config *Config, apiKey string, httpClient HTTPDoer) *OllamaClient {
	if config == nil {
		config = DefaultOllamaConfig("", "")
	}
	if config.BaseURL == "" {
		withURL := *config
		withURL.BaseURL = DefaultOllamaURL
		config = &withURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: ollamaTimeout}
	}
	return &OllamaClient{config: config, apiKey: apiKey, httpClient: httpClient}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Stream   bool            `json:"stream"`
	Messages []ollamaMessage `json:"messages"`
	Format   string          `json:"format,omitempty"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error"`
}

// GenerateContent generates text content using the specified model tier
func (c *OllamaClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.chat(ctx, prompt, tier, "")
}

// GenerateJSON asks the server for JSON output and strips code fences
func (c *OllamaClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.chat(ctx, prompt, tier, "json")
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *OllamaClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no per-client resources
func (c *OllamaClient) Close() error {
	return nil
}

func (c *OllamaClient) chat(ctx context.Context, prompt string, tier ModelTier, format string) (string, error) {
	model := c.config.GetModel(tier)
	if model == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	payload, err := json.Marshal(ollamaChatRequest{
		Model:    model,
		Stream:   false,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Format:   format,
		Options:  map[string]any{"temperature": temperatureFor(tier)},
	})
	if err != nil {
		return "", fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ollama response: %w", err)
	}

	var parsed ollamaChatResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if decodeErr == nil && parsed.Error != "" {
			return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, parsed.Error)
		}
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode ollama response: %w", decodeErr)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama error: %s", parsed.Error)
	}

	content := strings.TrimSpace(parsed.Message.Content)
	if content == "" {
		return "", errors.New("ollama returned empty content")
	}
	return content, nil
}
