package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/awside/symtrain-assistant/internal/llm"
	"github.com/awside/symtrain-assistant/internal/prompts"
	"github.com/awside/symtrain-assistant/internal/types"
)

const (
	// DefaultExamples is the number of few-shot examples in the generation prompt
	DefaultExamples = 3
	// exampleRequestLength caps the dialogue shown as an example request, in runes
	exampleRequestLength = 200
)

// ErrNoClient is returned when generation is attempted without an LLM client
var ErrNoClient = errors.New("an LLM client is required")

// ExampleFinder ranks analyzed simulations by similarity to a request and
// returns their file paths, best first.
type ExampleFinder interface {
	FindExamples(ctx context.Context, request string, limit int) ([]string, error)
}

// GenerateOptions configures GenerateSteps
type GenerateOptions struct {
	NExamples int
	// Finder, when set, selects examples by similarity instead of category
	Finder ExampleFinder
}

type exampleOutput struct {
	Reason string   `json:"reason"`
	Steps  []string `json:"steps"`
}

// GenerateSteps categorizes the request, builds a few-shot prompt from analyzed
// examples and parses the model's answer.
func GenerateSteps(ctx context.Context, client llm.Client, request string, analyses []*types.Analysis, opts GenerateOptions) (*types.GeneratedSteps, error) {
	if client == nil {
		return nil, ErrNoClient
	}
	n := opts.NExamples
	if n <= 0 {
		n = DefaultExamples
	}

	category, err := Categorize(ctx, client, request)
	if err != nil {
		return nil, fmt.Errorf("failed to categorize request: %w", err)
	}

	examples := selectExamples(ctx, opts.Finder, request, category, analyses, n)

	prompt, err := buildGeneratePrompt(category, request, examples)
	if err != nil {
		return nil, err
	}

	resp, err := client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out exampleOutput
	if err := ParseJSONObject(resp, &out); err != nil {
		return nil, err
	}

	return &types.GeneratedSteps{
		Category: category,
		Reason:   strings.TrimSpace(out.Reason),
		Steps:    cleanSteps(out.Steps),
	}, nil
}

// selectExamples prefers similarity-ranked examples and falls back to
// analyses in the request's category.
func selectExamples(ctx context.Context, finder ExampleFinder, request, category string, analyses []*types.Analysis, n int) []*types.Analysis {
	if finder != nil {
		if paths, err := finder.FindExamples(ctx, request, n); err == nil && len(paths) > 0 {
			byPath := make(map[string]*types.Analysis, len(analyses))
			for _, a := range analyses {
				byPath[a.FilePath] = a
			}
			var found []*types.Analysis
			for _, p := range paths {
				if a, ok := byPath[p]; ok {
					found = append(found, a)
				}
				if len(found) == n {
					break
				}
			}
			if len(found) > 0 {
				return found
			}
		}
	}

	var examples []*types.Analysis
	for _, a := range analyses {
		if a.Category != category {
			continue
		}
		examples = append(examples, a)
		if len(examples) == n {
			break
		}
	}
	return examples
}

func buildGeneratePrompt(category, request string, examples []*types.Analysis) (string, error) {
	var sb strings.Builder
	for i, ex := range examples {
		output, err := json.Marshal(exampleOutput{Reason: ex.Reason, Steps: ex.Steps})
		if err != nil {
			return "", fmt.Errorf("failed to marshal example: %w", err)
		}
		block, err := prompts.Render(promptFile, "few-shot-example", map[string]string{
			"Index":   strconv.Itoa(i + 1),
			"Request": truncate(ex.Dialogue, exampleRequestLength),
			"Output":  string(output),
		})
		if err != nil {
			return "", err
		}
		sb.WriteString(block)
	}

	return prompts.Render(promptFile, "generate-steps", map[string]string{
		"Category": category,
		"Examples": sb.String(),
		"Request":  request,
	})
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
