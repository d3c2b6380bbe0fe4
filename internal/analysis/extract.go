package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/awside/symtrain-assistant/internal/llm"
	"github.com/awside/symtrain-assistant/internal/prompts"
)

const promptFile = "analysis.json"

// Extraction is the call reason and agent steps found in a dialogue
type Extraction struct {
	Reason string   `json:"reason"`
	Steps  []string `json:"steps"`
}

// ExtractReasonAndSteps asks the model why the customer called and which
// steps the agent gave
func ExtractReasonAndSteps(ctx context.Context, client llm.Client, dialogue string) (*Extraction, error) {
	prompt, err := prompts.Render(promptFile, "extract-reason-steps", map[string]string{
		"Dialogue": dialogue,
	})
	if err != nil {
		return nil, err
	}

	resp, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var extraction Extraction
	if err := ParseJSONObject(resp, &extraction); err != nil {
		return nil, err
	}
	extraction.Reason = strings.TrimSpace(extraction.Reason)
	extraction.Steps = cleanSteps(extraction.Steps)
	return &extraction, nil
}

// CategorizeSimulation assigns a category to an analyzed simulation from its reason
func CategorizeSimulation(ctx context.Context, client llm.Client, reason string) (string, error) {
	return categorize(ctx, client, "categorize-simulation", map[string]string{
		"Categories": categoryList(),
		"Reason":     reason,
	})
}

// Categorize assigns a category to a new customer request
func Categorize(ctx context.Context, client llm.Client, request string) (string, error) {
	return categorize(ctx, client, "categorize-request", map[string]string{
		"Categories": categoryList(),
		"Request":    request,
	})
}

func categorize(ctx context.Context, client llm.Client, key string, data map[string]string) (string, error) {
	prompt, err := prompts.Render(promptFile, key, data)
	if err != nil {
		return "", err
	}

	resp, err := client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}
	return NormalizeCategory(resp), nil
}

func cleanSteps(steps []string) []string {
	cleaned := make([]string, 0, len(steps))
	for _, s := range steps {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}
