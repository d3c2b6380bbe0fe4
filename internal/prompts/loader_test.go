package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("analysis.json", "extract-reason-steps")
	require.NoError(t, err)
	assert.Contains(t, prompt, "customer service dialogue")
	assert.Contains(t, prompt, "{{.Dialogue}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("analysis.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestList_AnalysisPrompts(t *testing.T) {
	keys, err := List("analysis.json")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"categorize-request",
		"categorize-simulation",
		"extract-reason-steps",
		"few-shot-example",
		"generate-steps",
	}, keys)
}

func TestFormat(t *testing.T) {
	got := Format("Hello {{.Name}}, {{.Name}}! {{.Missing}} {{ .Spaced }}", map[string]string{"Name": "Ana"})
	assert.Equal(t, "Hello Ana, Ana! {{.Missing}} {{ .Spaced }}", got)
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	got := Format("{{.A}} {{.B}}", map[string]string{"A": "{{.B}}", "B": "b"})
	assert.Equal(t, "{{.B}} b", got)
}

func TestRender_MissingValue(t *testing.T) {
	_, err := Render("analysis.json", "categorize-request", map[string]string{"Request": "refund"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Categories")
}

func TestRender_AllPromptsHavePlaceholders(t *testing.T) {
	keys, err := List("analysis.json")
	require.NoError(t, err)

	for _, key := range keys {
		template := MustGet("analysis.json", key)
		data := map[string]string{}
		for _, name := range Placeholders(template) {
			data[name] = "value-" + name
		}
		assert.NotEmpty(t, data, key)

		rendered, err := Render("analysis.json", key, data)
		require.NoError(t, err, key)
		assert.NotContains(t, rendered, "{{.", key)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"Category", "Examples", "Request"}, Placeholders(MustGet("analysis.json", "generate-steps")))
}
