package analysis

import (
	"context"
	"strings"
	"sync"

	"github.com/awside/symtrain-assistant/internal/llm"
	"github.com/awside/symtrain-assistant/internal/types"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GetModelFunc        func(tier llm.ModelTier) string
	CloseFunc           func() error

	mu      sync.Mutex
	prompts []string
}

func (m *MockLLMClient) record(prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(prompt)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "General Inquiry", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(prompt)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return `{"reason": "Mock reason", "steps": ["Mock step"]}`, nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(tier)
	}
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Prompts returns every prompt sent to the client
func (m *MockLLMClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// memoryCache implements Cache for testing
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*types.Analysis
	saves   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*types.Analysis)}
}

func (c *memoryCache) GetAnalysis(_ context.Context, filePath string) (*types.Analysis, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[filePath], nil
}

func (c *memoryCache) SaveAnalysis(_ context.Context, a *types.Analysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[a.FilePath] = a
	c.saves++
	return nil
}

func simulation(path string, lines ...string) *types.Simulation {
	sim := &types.Simulation{Name: path, FilePath: path}
	for i, line := range lines {
		actor, text, _ := strings.Cut(line, ": ")
		sim.AudioItems = append(sim.AudioItems, types.AudioItem{
			Actor:          actor,
			FileTranscript: text,
			SequenceNumber: i + 1,
		})
	}
	return sim
}
