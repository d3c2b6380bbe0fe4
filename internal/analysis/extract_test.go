package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awside/symtrain-assistant/internal/llm"
)

func TestExtractReasonAndSteps_Success(t *testing.T) {
	var gotTier llm.ModelTier
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
			gotTier = tier
			return "```json\n{\"reason\": \" Update card \", \"steps\": [\"Open billing\", \"  \", \"Save card\"]}\n```", nil
		},
	}

	got, err := ExtractReasonAndSteps(context.Background(), client, "Customer: I need a new card on file")
	require.NoError(t, err)
	assert.Equal(t, "Update card", got.Reason)
	assert.Equal(t, []string{"Open billing", "Save card"}, got.Steps)
	assert.Equal(t, llm.TierStandard, gotTier)

	prompts := client.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Customer: I need a new card on file")
	assert.NotContains(t, prompts[0], "{{.Dialogue}}")
}

func TestExtractReasonAndSteps_LLMError(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}

	_, err := ExtractReasonAndSteps(context.Background(), client, "dialogue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestExtractReasonAndSteps_InvalidJSON(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "I cannot help with that.", nil
		},
	}

	_, err := ExtractReasonAndSteps(context.Background(), client, "dialogue")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "I cannot help with that.", parseErr.Raw)
}

func TestCategorizeSimulation(t *testing.T) {
	var gotTier llm.ModelTier
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
			gotTier = tier
			return "  insurance claim\n", nil
		},
	}

	got, err := CategorizeSimulation(context.Background(), client, "File a claim for a car accident")
	require.NoError(t, err)
	assert.Equal(t, "Insurance Claim", got)
	assert.Equal(t, llm.TierLite, gotTier)

	prompts := client.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Reason: File a claim for a car accident")
	assert.Contains(t, prompts[0], "- Booking/Reservation")
}

func TestCategorize_Request(t *testing.T) {
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "Order Status", nil
		},
	}

	got, err := Categorize(context.Background(), client, "Where is my package?")
	require.NoError(t, err)
	assert.Equal(t, "Order Status", got)
	assert.Contains(t, client.Prompts()[0], "Customer Request: Where is my package?")
}
