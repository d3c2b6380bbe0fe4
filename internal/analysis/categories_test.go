package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Payment Update", "Payment Update"},
		{"  payment update\n", "Payment Update"},
		{"\"Order Status\".", "Order Status"},
		{"- Returns/Refunds", "Returns/Refunds"},
		{"**Technical Support**", "Technical Support"},
		{"Category: Insurance Claim", "Insurance Claim"},
		{"Something Else", "Something Else"},
		{"", Uncategorized},
		{"   ", Uncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.raw))
		})
	}
}

func TestCategoryList(t *testing.T) {
	list := categoryList()
	assert.Contains(t, list, "- Payment Update\n- Insurance Claim")
	assert.Contains(t, list, "- General Inquiry")
}
