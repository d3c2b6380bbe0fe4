package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/awside/symtrain-assistant/internal/types"
)

func TestScore_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		step     string
		hotspot  string
		typ      string
		context  string
		expected float64
	}{
		{"exact target with click alignment", "Click the Submit button", "Submit", "button", "", 1.6},
		{"generic label", "Click the Submit button", "Button", "BUTTON", "", 0.4},
		{"clamped at max", "Navigate to Account Settings", "Account Settings", "menu", "", 2.0},
		{"partial target", "Navigate to Account Settings", "Settings", "menu", "", 1.7},
		{"fuzzy target", "Click on Payment Methods", "Payment Method", "button", "", 1.2},
		{"shared words only", "Review the order summary", "Order Summary", "highlight", "", 0.3},
		{"substring target", "Click Save", "Save Changes", "button", "", 1.05},
		{"domain synonyms", "Open the Claims portal", "Claim Portal", "button", "file an insurance claim", 0.65},
		{"quoted target", "Type the 'Policy Number'", "Policy Number", "text_field", "", 2.0},
		{"domain address", "Confirm the address", "Shipping Address", "text_field", "update my shipping address", 1.15},
		{"generic penalty floors at zero", "Say hello", "Audio", "AUDIO", "", 0.0},
		{"unrelated", "Say hello to the customer", "Greeting", "highlight", "", 0.0},
		{"empty label", "Click the Submit button", "", "button", "", 1.05},
		{"empty label without alignment", "Click the Submit button", "", "highlight", "", 0.7},
		{"accented short word is not shared", "open the café menu", "café", "highlight", "", 0.0},
		{"accented long word is shared", "open the cafés menu", "cafés", "highlight", "", 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.step, types.HotspotRecord{Name: tt.hotspot, Type: tt.typ}, tt.context)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestScore_ExactTargetExceedsThreshold(t *testing.T) {
	got := Score("Click the Submit button", types.HotspotRecord{Name: "Submit", Type: "button"}, "")

	assert.Greater(t, got, 1.5)
	assert.LessOrEqual(t, got, MaxScore)
}

func TestScore_ContextRaisesDomainHotspot(t *testing.T) {
	step := "Enter your new credit card number"
	record := types.HotspotRecord{Name: "Card Number Field", Type: "text_field"}

	withContext := Score(step, record, "update my payment method")
	without := Score(step, record, "")

	assert.Greater(t, withContext, without)
	assert.InDelta(t, 1.0, withContext, 1e-9)
	assert.InDelta(t, 0.5, without, 1e-9)
}

func TestScore_CanonicalRecord(t *testing.T) {
	record := canonical("Submit", types.Coordinates{X: 1, Y: 2, Width: 3, Height: 4}, "button")

	assert.InDelta(t, 1.6, Score("Click the Submit button", record, ""), 1e-9)
}

func TestScore_AlwaysBounded(t *testing.T) {
	steps := []string{
		"", "Click", "Click the 'Submit' \"Submit\" Submit button Submit",
		"Enter Payment Card Credit Billing Method in the payment card field",
		"!!! ??? ...", "Navigate Navigate NAVIGATE menu",
	}
	labels := []string{"", " ", "Submit", "payment card credit billing method", "the", "Menu Field Button"}
	typesList := []string{"", "button", "text_field", "menu", "input_button_menu"}
	contexts := []string{"", "payment card credit billing method amex", "the a an"}

	for _, step := range steps {
		for _, label := range labels {
			for _, typ := range typesList {
				for _, ctx := range contexts {
					got := Score(step, types.HotspotRecord{Name: label, Type: typ}, ctx)
					assert.GreaterOrEqual(t, got, 0.0)
					assert.LessOrEqual(t, got, MaxScore)
				}
			}
		}
	}
}
