package vision

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// actionCategory groups the phrases that signal one kind of UI action
type actionCategory struct {
	name       string
	variations []string
}

// actionKeywords is ordered; extraction reports categories in this order
var actionKeywords = []actionCategory{
	{"click", []string{"click", "press", "tap", "select", "choose"}},
	{"enter", []string{"enter", "type", "input", "fill", "write"}},
	{"navigate", []string{"navigate", "go to", "open", "access", "visit"}},
	{"update", []string{"update", "change", "modify", "edit", "alter"}},
	{"view", []string{"view", "see", "check", "look at", "review"}},
	{"submit", []string{"submit", "save", "confirm", "apply"}},
	{"search", []string{"search", "find", "lookup", "locate"}},
}

var elementTypes = []string{
	"button", "link", "menu", "dropdown", "field", "input",
	"checkbox", "radio", "tab", "icon", "text", "form", "box",
}

// Imperative verbs that are capitalized in steps but never name a target
var excludedTargets = map[string]bool{
	"Click":    true,
	"Select":   true,
	"Enter":    true,
	"Navigate": true,
	"Open":     true,
}

// synonymGroups expands domain keywords found in a request
var synonymGroups = []struct {
	domain   string
	synonyms []string
}{
	{"payment", []string{"payment", "pay", "card", "credit", "debit", "billing", "method", "amex", "visa", "mastercard"}},
	{"order", []string{"order", "purchase", "shipment", "delivery", "package", "tracking", "status"}},
	{"account", []string{"account", "profile", "login", "password", "username", "settings"}},
	{"address", []string{"address", "shipping", "street", "city", "zip", "postal", "location"}},
	{"insurance", []string{"insurance", "claim", "policy", "coverage", "accident", "vehicle", "damage"}},
	{"contact", []string{"contact", "phone", "email", "support", "call", "message"}},
}

var quotedPattern = regexp.MustCompile(`["']([^"']+)["']`)

// Keywords are the signals extracted from one step
type Keywords struct {
	Actions  []string `json:"actions"`
	Elements []string `json:"elements"`
	Targets  []string `json:"targets"`
}

// HasAction reports whether the action category was detected
func (k Keywords) HasAction(category string) bool {
	for _, a := range k.Actions {
		if a == category {
			return true
		}
	}
	return false
}

// ExtractKeywords derives action, element and target keywords from a step.
func ExtractKeywords(step string) Keywords {
	lower := strings.ToLower(step)
	keywords := Keywords{
		Actions:  []string{},
		Elements: []string{},
		Targets:  []string{},
	}

	for _, category := range actionKeywords {
		for _, variation := range category.variations {
			if strings.Contains(lower, variation) {
				keywords.Actions = append(keywords.Actions, category.name)
				break
			}
		}
	}

	for _, element := range elementTypes {
		if strings.Contains(lower, element) {
			keywords.Elements = append(keywords.Elements, element)
		}
	}

	for _, match := range quotedPattern.FindAllStringSubmatch(step, -1) {
		keywords.Targets = append(keywords.Targets, match[1])
	}

	for i, word := range strings.Fields(step) {
		if i == 0 || utf8.RuneCountInString(word) <= 3 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(word)
		if !unicode.IsUpper(first) {
			continue
		}
		clean := stripPunctuation(word)
		if clean != "" && !excludedTargets[clean] {
			keywords.Targets = append(keywords.Targets, clean)
		}
	}

	return keywords
}

// ExpandWithSynonyms unions in every synonym group that contains one of the
// keywords. The input keywords come first; the result has no duplicates.
func ExpandWithSynonyms(keywords []string) []string {
	expanded := make([]string, 0, len(keywords))
	seen := make(map[string]bool)
	add := func(word string) {
		if !seen[word] {
			seen[word] = true
			expanded = append(expanded, word)
		}
	}

	for _, keyword := range keywords {
		add(keyword)
		lower := strings.ToLower(keyword)
		for _, group := range synonymGroups {
			if !containsString(group.synonyms, lower) {
				continue
			}
			for _, synonym := range group.synonyms {
				add(synonym)
			}
		}
	}

	return expanded
}

// tokenize lowercases text and splits it on anything that is not a letter or digit
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// stripPunctuation keeps word characters and whitespace
func stripPunctuation(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, word)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
