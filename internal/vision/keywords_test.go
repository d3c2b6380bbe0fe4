package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords_ActionsElementsTargets(t *testing.T) {
	got := ExtractKeywords(`Click the "Save Changes" button, then Open Settings.`)

	assert.Equal(t, []string{"click", "navigate", "update", "submit"}, got.Actions)
	assert.Equal(t, []string{"button"}, got.Elements)
	assert.Equal(t, []string{"Save Changes", "Changes", "Settings"}, got.Targets)
}

func TestExtractKeywords_FirstWordIsNeverTarget(t *testing.T) {
	got := ExtractKeywords("Payment details are shown")
	assert.Empty(t, got.Targets)
}

func TestExtractKeywords_ExcludedVerbsAndShortWords(t *testing.T) {
	got := ExtractKeywords("Then Click Open Navigate Tab")
	assert.Empty(t, got.Targets)
}

func TestExtractKeywords_SingleQuotes(t *testing.T) {
	got := ExtractKeywords("Type the 'Policy Number'")

	assert.Equal(t, []string{"Policy Number", "Number"}, got.Targets)
	assert.True(t, got.HasAction("enter"))
	assert.False(t, got.HasAction("click"))
}

func TestExtractKeywords_EmptyStep(t *testing.T) {
	got := ExtractKeywords("")

	assert.Empty(t, got.Actions)
	assert.Empty(t, got.Elements)
	assert.Empty(t, got.Targets)
}

func TestExpandWithSynonyms_UnionsGroup(t *testing.T) {
	got := ExpandWithSynonyms([]string{"payment", "zzz", "card"})

	assert.Equal(t, []string{
		"payment", "pay", "card", "credit", "debit", "billing", "method", "amex", "visa", "mastercard", "zzz",
	}, got)
}

func TestExpandWithSynonyms_CaseInsensitiveLookup(t *testing.T) {
	got := ExpandWithSynonyms([]string{"Claim"})

	assert.Equal(t, "Claim", got[0])
	assert.Contains(t, got, "insurance")
	assert.Contains(t, got, "damage")
}

func TestExpandWithSynonyms_Unknown(t *testing.T) {
	assert.Equal(t, []string{"widget"}, ExpandWithSynonyms([]string{"widget"}))
	assert.Empty(t, ExpandWithSynonyms(nil))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"update", "my", "payment", "method", "2"}, tokenize("Update my payment-method #2!"))
}
