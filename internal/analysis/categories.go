package analysis

import "strings"

// Uncategorized is assigned when categorization fails
const Uncategorized = "Uncategorized"

// Categories is the fixed category vocabulary offered to the model
var Categories = []string{
	"Payment Update",
	"Insurance Claim",
	"Order Status",
	"Account Management",
	"Technical Support",
	"Booking/Reservation",
	"Returns/Refunds",
	"General Inquiry",
}

// categoryList renders Categories as a bulleted prompt list
func categoryList() string {
	lines := make([]string, len(Categories))
	for i, c := range Categories {
		lines[i] = "- " + c
	}
	return strings.Join(lines, "\n")
}

// NormalizeCategory trims decoration from a model's category answer and
// snaps it to the vocabulary spelling when it matches case-insensitively.
// Unknown answers are returned trimmed.
func NormalizeCategory(raw string) string {
	answer := strings.TrimSpace(raw)
	answer = strings.TrimLeft(answer, "-*• ")
	answer = strings.Trim(answer, "\"'`.*")
	answer = strings.TrimPrefix(answer, "Category:")
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Uncategorized
	}

	for _, c := range Categories {
		if strings.EqualFold(c, answer) {
			return c
		}
	}
	return answer
}
